package utils

// ToFiveScale converts a raw score into the 2..5 grade. The scale has no "1":
// anything under 60% floors at 2.
func ToFiveScale(score, max int) int {
	if max <= 0 {
		return 2
	}
	pct := 100 * float64(score) / float64(max)
	switch {
	case pct >= 90:
		return 5
	case pct >= 75:
		return 4
	case pct >= 60:
		return 3
	default:
		return 2
	}
}

var romanPairs = []struct {
	value  int
	symbol string
}{
	{10, "X"},
	{9, "IX"},
	{5, "V"},
	{4, "IV"},
	{1, "I"},
}

// RomanNumeral converts a module number to its roman display form (1-12 range)
func RomanNumeral(number int) string {
	result := ""
	for _, p := range romanPairs {
		for number >= p.value {
			result += p.symbol
			number -= p.value
		}
	}
	return result
}
