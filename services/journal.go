package services

import (
	"context"
	"fmt"
	"time"

	"sip/models"
	"sip/utils"

	"gorm.io/gorm"
)

// JournalService builds the student x paragraph/module grade matrix. It is
// read-only: nothing is persisted, every request recomputes from the ledger.
type JournalService struct {
	DB *gorm.DB
}

func NewJournalService(db *gorm.DB) *JournalService {
	return &JournalService{DB: db}
}

// ParagraphInfo is one column of the matrix with its display coordinates
type ParagraphInfo struct {
	ParagraphID     uint   `json:"paragraph_id"`
	ModuleID        uint   `json:"module_id"`
	ModuleNumber    int    `json:"module_number"`
	ChapterNumber   int    `json:"chapter_number"`
	ParagraphNumber int    `json:"paragraph_number"`
	DisplayName     string `json:"display_name"`
	Title           string `json:"title"`
}

// ModuleInfo is one module column with its roman display label
type ModuleInfo struct {
	ModuleID     uint   `json:"module_id"`
	ModuleNumber int    `json:"module_number"`
	DisplayName  string `json:"display_name"`
	Title        string `json:"title"`
}

// GradeCell is one placed grade in the matrix
type GradeCell struct {
	ID             uint      `json:"id"`
	Grade          int       `json:"grade"`
	Score          *int      `json:"score"`
	MaxPoints      *int      `json:"max_points"`
	Title          string    `json:"title"`
	GradedAt       time.Time `json:"graded_at"`
	TeacherComment string    `json:"teacher_comment"`
}

// ParagraphCell pairs the assignment and quiz grades of one paragraph
type ParagraphCell struct {
	Assignment *GradeCell `json:"assignment"`
	Quiz       *GradeCell `json:"quiz"`
}

// StudentRow is one row of the journal matrix
type StudentRow struct {
	StudentID         uint                    `json:"student_id"`
	StudentName       string                  `json:"student_name"`
	GradesByParagraph map[uint]*ParagraphCell `json:"grades_by_paragraph"`
	GradesByModule    map[uint]*GradeCell     `json:"grades_by_module"`
	YearlyGrade       *GradeCell              `json:"yearly_grade"`
	ExamGrade         *GradeCell              `json:"exam_grade"`
	FinalGrade        *GradeCell              `json:"final_grade"`
	Average           *float64                `json:"average"`
}

// CourseInfo carries the journal's course metadata
type CourseInfo struct {
	ID            uint   `json:"id"`
	Title         string `json:"title"`
	LevelNumber   int    `json:"level_number"`
	HasExamGrades bool   `json:"has_exam_grades"`
}

// Summary aggregates over the whole journal
type Summary struct {
	TotalStudents int      `json:"total_students"`
	TotalGrades   int      `json:"total_grades"`
	AverageGrade  *float64 `json:"average_grade"`
}

// Journal is the computed matrix handed to the UI/export layers
type Journal struct {
	Students   []StudentRow    `json:"students"`
	Paragraphs []ParagraphInfo `json:"paragraphs"`
	Modules    []ModuleInfo    `json:"modules"`
	Course     CourseInfo      `json:"course"`
	Summary    Summary         `json:"summary"`
}

// taggedGrade is a ledger row classified exactly once at read time; later
// stages consume the tag instead of re-inspecting the row
type taggedGrade struct {
	grade       *models.Grade
	paragraphID uint
	quizID      uint // zero for assignment rows
	rawScore    int  // attempt/submission score used for tie-breaking
}

// BuildJournal computes the matrix for one group and course, optionally
// restricted to one module. Dangling ledger rows (deleted attempts and the
// like) are skipped, never fatal.
func (s *JournalService) BuildJournal(ctx context.Context, groupID, courseID uint, moduleID *uint) (*Journal, error) {
	var course models.Course
	if err := s.DB.WithContext(ctx).Preload("Level").First(&course, courseID).Error; err != nil {
		return nil, err
	}

	moduleQuery := s.DB.WithContext(ctx).
		Where("course_id = ?", course.ID).
		Preload("Chapters", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Preload("Chapters.Paragraphs", func(db *gorm.DB) *gorm.DB { return db.Order("number") }).
		Order("number")
	if moduleID != nil {
		moduleQuery = moduleQuery.Where("id = ?", *moduleID)
	}
	var modules []models.Module
	if err := moduleQuery.Find(&modules).Error; err != nil {
		return nil, err
	}

	paragraphs := make([]ParagraphInfo, 0)
	moduleInfos := make([]ModuleInfo, 0, len(modules))
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleInfos = append(moduleInfos, ModuleInfo{
			ModuleID:     m.ID,
			ModuleNumber: m.Number,
			DisplayName:  "М" + utils.RomanNumeral(m.Number),
			Title:        m.Title,
		})
		moduleIDs = append(moduleIDs, m.ID)
		for _, ch := range m.Chapters {
			for _, p := range ch.Paragraphs {
				paragraphs = append(paragraphs, ParagraphInfo{
					ParagraphID:     p.ID,
					ModuleID:        m.ID,
					ModuleNumber:    m.Number,
					ChapterNumber:   ch.Number,
					ParagraphNumber: p.Number,
					DisplayName:     fmt.Sprintf("%s.%d.%d", utils.RomanNumeral(m.Number), ch.Number, p.Number),
					Title:           p.Title,
				})
			}
		}
	}

	var students []models.Student
	if err := s.DB.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("id").
		Find(&students).Error; err != nil {
		return nil, err
	}
	studentIDs := make([]uint, 0, len(students))
	for _, st := range students {
		studentIDs = append(studentIDs, st.ID)
	}

	var grades []models.Grade
	if len(studentIDs) > 0 {
		if err := s.DB.WithContext(ctx).
			Where("course_id = ? AND student_id IN ?", course.ID, studentIDs).
			Find(&grades).Error; err != nil {
			return nil, err
		}
	}

	quizTagged, assignmentTagged, moduleGrades, termGrades, err := s.classify(ctx, grades)
	if err != nil {
		return nil, err
	}

	// Best attempt per (student, quiz): highest grade_5, ties by raw score
	type quizKey struct{ studentID, quizID uint }
	best := make(map[quizKey]*taggedGrade)
	for _, tg := range quizTagged {
		key := quizKey{tg.grade.StudentID, tg.quizID}
		cur := best[key]
		if cur == nil ||
			tg.grade.Grade5 > cur.grade.Grade5 ||
			(tg.grade.Grade5 == cur.grade.Grade5 && tg.rawScore > cur.rawScore) {
			best[key] = tg
		}
	}

	// Working set: one best grade per quiz plus every assignment grade.
	// Only this set feeds the averages.
	working := make([]*taggedGrade, 0, len(best)+len(assignmentTagged))
	for _, tg := range best {
		working = append(working, tg)
	}
	working = append(working, assignmentTagged...)

	paragraphSet := make(map[uint]bool, len(paragraphs))
	for _, p := range paragraphs {
		paragraphSet[p.ParagraphID] = true
	}
	moduleSet := make(map[uint]bool, len(moduleIDs))
	for _, id := range moduleIDs {
		moduleSet[id] = true
	}

	rows := make([]StudentRow, 0, len(students))
	totalGrades := 0
	gradeSum := 0
	for _, st := range students {
		row := StudentRow{
			StudentID:         st.ID,
			StudentName:       st.FullName,
			GradesByParagraph: make(map[uint]*ParagraphCell, len(paragraphs)),
			GradesByModule:    make(map[uint]*GradeCell, len(moduleIDs)),
		}
		for _, p := range paragraphs {
			row.GradesByParagraph[p.ParagraphID] = &ParagraphCell{}
		}
		for _, id := range moduleIDs {
			row.GradesByModule[id] = nil
		}

		sum, count := 0, 0
		for _, tg := range working {
			if tg.grade.StudentID != st.ID {
				continue
			}
			sum += tg.grade.Grade5
			count++

			if !paragraphSet[tg.paragraphID] {
				continue
			}
			cell := gradeCell(tg.grade)
			if tg.quizID != 0 {
				row.GradesByParagraph[tg.paragraphID].Quiz = cell
			} else {
				row.GradesByParagraph[tg.paragraphID].Assignment = cell
			}
		}
		if count > 0 {
			avg := float64(sum) / float64(count)
			row.Average = &avg
		}
		totalGrades += count
		gradeSum += sum

		for i := range moduleGrades {
			g := &moduleGrades[i]
			if g.StudentID == st.ID && moduleSet[g.GradeableID] {
				row.GradesByModule[g.GradeableID] = gradeCell(g)
			}
		}
		for i := range termGrades {
			g := &termGrades[i]
			if g.StudentID != st.ID {
				continue
			}
			switch g.GradeableKind {
			case models.GradeableYearly:
				row.YearlyGrade = gradeCell(g)
			case models.GradeableExam:
				row.ExamGrade = gradeCell(g)
			case models.GradeableFinal:
				row.FinalGrade = gradeCell(g)
			}
		}

		rows = append(rows, row)
	}

	summary := Summary{
		TotalStudents: len(students),
		TotalGrades:   totalGrades,
	}
	if totalGrades > 0 {
		avg := float64(gradeSum) / float64(totalGrades)
		summary.AverageGrade = &avg
	}

	return &Journal{
		Students:   rows,
		Paragraphs: paragraphs,
		Modules:    moduleInfos,
		Course: CourseInfo{
			ID:            course.ID,
			Title:         course.Title,
			LevelNumber:   course.Level.Number,
			HasExamGrades: course.Level.Number == 9 || course.Level.Number == 11,
		},
		Summary: summary,
	}, nil
}

// classify splits the raw ledger rows by kind in one pass, resolving the
// paragraph behind each quiz/assignment row through batched lookups
func (s *JournalService) classify(ctx context.Context, grades []models.Grade) (
	quizTagged []*taggedGrade,
	assignmentTagged []*taggedGrade,
	moduleGrades []models.Grade,
	termGrades []models.Grade,
	err error,
) {
	attemptIDs := make([]uint, 0)
	submissionIDs := make([]uint, 0)
	for i := range grades {
		switch grades[i].GradeableKind {
		case models.GradeableQuizAttempt:
			attemptIDs = append(attemptIDs, grades[i].GradeableID)
		case models.GradeableSubmission:
			submissionIDs = append(submissionIDs, grades[i].GradeableID)
		case models.GradeableModule:
			moduleGrades = append(moduleGrades, grades[i])
		default:
			termGrades = append(termGrades, grades[i])
		}
	}

	attempts := make(map[uint]*models.QuizAttempt)
	quizParagraph := make(map[uint]uint) // quiz id -> paragraph id
	if len(attemptIDs) > 0 {
		var rows []models.QuizAttempt
		if err = s.DB.WithContext(ctx).Where("id IN ?", attemptIDs).Find(&rows).Error; err != nil {
			return
		}
		quizIDs := make([]uint, 0, len(rows))
		for i := range rows {
			attempts[rows[i].ID] = &rows[i]
			quizIDs = append(quizIDs, rows[i].QuizID)
		}
		var quizzes []models.Quiz
		if err = s.DB.WithContext(ctx).Where("id IN ?", quizIDs).Find(&quizzes).Error; err != nil {
			return
		}
		for _, q := range quizzes {
			quizParagraph[q.ID] = q.ParagraphID
		}
	}

	submissions := make(map[uint]*models.AssignmentSubmission)
	assignmentParagraph := make(map[uint]uint) // assignment id -> paragraph id
	if len(submissionIDs) > 0 {
		var rows []models.AssignmentSubmission
		if err = s.DB.WithContext(ctx).Where("id IN ?", submissionIDs).Find(&rows).Error; err != nil {
			return
		}
		assignmentIDs := make([]uint, 0, len(rows))
		for i := range rows {
			submissions[rows[i].ID] = &rows[i]
			assignmentIDs = append(assignmentIDs, rows[i].AssignmentID)
		}
		var assignments []models.Assignment
		if err = s.DB.WithContext(ctx).Where("id IN ?", assignmentIDs).Find(&assignments).Error; err != nil {
			return
		}
		for _, a := range assignments {
			assignmentParagraph[a.ID] = a.ParagraphID
		}
	}

	for i := range grades {
		g := &grades[i]
		switch g.GradeableKind {
		case models.GradeableQuizAttempt:
			attempt := attempts[g.GradeableID]
			if attempt == nil {
				continue // dangling reference
			}
			paragraphID, ok := quizParagraph[attempt.QuizID]
			if !ok {
				continue
			}
			quizTagged = append(quizTagged, &taggedGrade{
				grade:       g,
				paragraphID: paragraphID,
				quizID:      attempt.QuizID,
				rawScore:    attempt.Score,
			})
		case models.GradeableSubmission:
			submission := submissions[g.GradeableID]
			if submission == nil {
				continue
			}
			paragraphID, ok := assignmentParagraph[submission.AssignmentID]
			if !ok {
				continue
			}
			rawScore := 0
			if submission.Score != nil {
				rawScore = *submission.Score
			}
			assignmentTagged = append(assignmentTagged, &taggedGrade{
				grade:       g,
				paragraphID: paragraphID,
				rawScore:    rawScore,
			})
		}
	}
	return
}

func gradeCell(g *models.Grade) *GradeCell {
	return &GradeCell{
		ID:             g.ID,
		Grade:          g.Grade5,
		Score:          g.Score,
		MaxPoints:      g.MaxPoints,
		Title:          g.Title,
		GradedAt:       g.GradedAt,
		TeacherComment: g.TeacherComment,
	}
}
