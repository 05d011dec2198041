package services

import "errors"

// Sentinel errors returned by the services. Controllers map them onto HTTP
// status codes; every write either commits fully or returns one of these.
var (
	ErrNotPublished         = errors.New("not published")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	ErrStateConflict        = errors.New("attempt is not in progress")
	ErrAlreadyFinished      = errors.New("attempt already finished")
	ErrQuestionMismatch     = errors.New("question does not belong to this quiz")
	ErrNotTextQuestion      = errors.New("question is not a text question")
	ErrInvalidGradeRange    = errors.New("grade must be between 2 and 5")
	ErrScoreOutOfRange      = errors.New("score exceeds question points")
	ErrLevelIneligible      = errors.New("exam grades are only allowed for levels 9 and 11")
	ErrStudentNotEnrolled   = errors.New("student is not enrolled in this course")
	ErrNotOwner             = errors.New("not allowed to act on this resource")
)
