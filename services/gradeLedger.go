package services

import (
	"context"
	"time"

	"sip/models"

	"gorm.io/gorm"
)

// GradeLedgerService writes the teacher-issued ledger rows: module grades and
// the end-of-term yearly/exam/final marks keyed by course id.
type GradeLedgerService struct {
	DB *gorm.DB
}

func NewGradeLedgerService(db *gorm.DB) *GradeLedgerService {
	return &GradeLedgerService{DB: db}
}

var termGradeTitles = map[models.GradeableKind]string{
	models.GradeableYearly: "Yearly grade",
	models.GradeableExam:   "Exam grade",
	models.GradeableFinal:  "Final grade",
}

// SetModuleGrade upserts the single module-kind row for (student, module)
func (s *GradeLedgerService) SetModuleGrade(ctx context.Context, teacherID, courseID, moduleID, studentID uint, grade5 int, comment string) (*models.Grade, error) {
	if grade5 < 2 || grade5 > 5 {
		return nil, ErrInvalidGradeRange
	}

	course, err := s.ownedCourse(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}

	var module models.Module
	if err := s.DB.WithContext(ctx).First(&module, moduleID).Error; err != nil {
		return nil, err
	}
	if module.CourseID != course.ID {
		return nil, ErrNotOwner
	}

	grade := models.Grade{
		StudentID:     studentID,
		CourseID:      course.ID,
		GradeableKind: models.GradeableModule,
		GradeableID:   module.ID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsert(tx, &grade, teacherID, grade5, nil, module.Title, comment)
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// SetFinalGrade upserts a yearly/exam/final row. Exam and final marks are only
// legal for courses at levels 9 and 11 (the level's number, not its id).
func (s *GradeLedgerService) SetFinalGrade(ctx context.Context, kind models.GradeableKind, teacherID, courseID, studentID uint, grade5 int, comment string) (*models.Grade, error) {
	if !kind.IsTermKind() {
		return nil, ErrInvalidGradeRange
	}
	if grade5 < 2 || grade5 > 5 {
		return nil, ErrInvalidGradeRange
	}

	course, err := s.ownedCourse(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}

	if kind == models.GradeableExam || kind == models.GradeableFinal {
		var level models.Level
		if err := s.DB.WithContext(ctx).First(&level, course.LevelID).Error; err != nil {
			return nil, err
		}
		if level.Number != 9 && level.Number != 11 {
			return nil, ErrLevelIneligible
		}
	}

	var student models.Student
	if err := s.DB.WithContext(ctx).First(&student, studentID).Error; err != nil {
		return nil, err
	}
	var enrolled int64
	if err := s.DB.WithContext(ctx).Model(&models.CourseGroup{}).
		Where("course_id = ? AND group_id = ?", course.ID, student.GroupID).
		Count(&enrolled).Error; err != nil {
		return nil, err
	}
	if enrolled == 0 {
		return nil, ErrStudentNotEnrolled
	}

	grade := models.Grade{
		StudentID:     student.ID,
		CourseID:      course.ID,
		GradeableKind: kind,
		GradeableID:   course.ID, // term marks have no backing entity
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.upsert(tx, &grade, teacherID, grade5, nil, termGradeTitles[kind], comment)
	})
	if err != nil {
		return nil, err
	}
	return &grade, nil
}

// DeleteGrade removes a module or term row. Only the teacher who created the
// row may delete it.
func (s *GradeLedgerService) DeleteGrade(ctx context.Context, teacherID, gradeID uint) error {
	var grade models.Grade
	if err := s.DB.WithContext(ctx).First(&grade, gradeID).Error; err != nil {
		return err
	}
	if grade.GradeableKind != models.GradeableModule && !grade.GradeableKind.IsTermKind() {
		return ErrNotOwner
	}
	if grade.TeacherID == nil || *grade.TeacherID != teacherID {
		return ErrNotOwner
	}
	return s.DB.WithContext(ctx).Delete(&grade).Error
}

// FinalGradeRow is the per-student yearly/exam/final block
type FinalGradeRow struct {
	StudentID   uint          `json:"student_id"`
	StudentName string        `json:"student_name"`
	Yearly      *models.Grade `json:"yearly_grade"`
	Exam        *models.Grade `json:"exam_grade"`
	Final       *models.Grade `json:"final_grade"`
}

// ListFinalGrades returns the term marks of a course, optionally for one group
func (s *GradeLedgerService) ListFinalGrades(ctx context.Context, teacherID, courseID uint, groupID *uint) ([]FinalGradeRow, error) {
	course, err := s.ownedCourse(ctx, courseID, teacherID)
	if err != nil {
		return nil, err
	}

	studentQuery := s.DB.WithContext(ctx).
		Joins("JOIN course_groups ON course_groups.group_id = students.group_id").
		Where("course_groups.course_id = ?", course.ID)
	if groupID != nil {
		studentQuery = studentQuery.Where("students.group_id = ?", *groupID)
	}
	var students []models.Student
	if err := studentQuery.Order("students.id").Find(&students).Error; err != nil {
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
			Where("gradeable_kind IN ?", []models.GradeableKind{
				models.GradeableYearly, models.GradeableExam, models.GradeableFinal,
			}).
			Find(&grades).Error; err != nil {
			return nil, err
		}
	}

	rows := make([]FinalGradeRow, 0, len(students))
	for _, st := range students {
		row := FinalGradeRow{StudentID: st.ID, StudentName: st.FullName}
		for i := range grades {
			g := &grades[i]
			if g.StudentID != st.ID {
				continue
			}
			switch g.GradeableKind {
			case models.GradeableYearly:
				row.Yearly = g
			case models.GradeableExam:
				row.Exam = g
			case models.GradeableFinal:
				row.Final = g
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *GradeLedgerService) ownedCourse(ctx context.Context, courseID, teacherID uint) (*models.Course, error) {
	var course models.Course
	if err := s.DB.WithContext(ctx).First(&course, courseID).Error; err != nil {
		return nil, err
	}
	if course.TeacherID != teacherID {
		return nil, ErrNotOwner
	}
	return &course, nil
}

// upsert finds the unique row for the grade's (student, course, kind,
// reference) key and updates it in place, or creates it
func (s *GradeLedgerService) upsert(tx *gorm.DB, grade *models.Grade, teacherID uint, grade5 int, maxPoints *int, title, comment string) error {
	var existing models.Grade
	err := tx.Where(
		"student_id = ? AND course_id = ? AND gradeable_kind = ? AND gradeable_id = ?",
		grade.StudentID, grade.CourseID, grade.GradeableKind, grade.GradeableID,
	).First(&existing).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	if err == nil {
		*grade = existing
	}

	grade.TeacherID = &teacherID
	grade.Grade5 = grade5
	grade.Score = nil
	grade.MaxPoints = maxPoints
	grade.Title = title
	grade.TeacherComment = comment
	grade.GradedAt = time.Now()
	return tx.Save(grade).Error
}
