package services

import (
	"context"
	"testing"

	"sip/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetModuleGradeUpserts(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	svc := NewGradeLedgerService(db)
	ctx := context.Background()

	first, err := svc.SetModuleGrade(ctx, f.teacher.ID, f.course.ID, f.module.ID, f.student.ID, 4, "solid")
	require.NoError(t, err)
	assert.Equal(t, 4, first.Grade5)
	assert.Equal(t, f.module.Title, first.Title)

	second, err := svc.SetModuleGrade(ctx, f.teacher.ID, f.course.ID, f.module.ID, f.student.ID, 5, "improved")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Grade5)

	var count int64
	db.Model(&models.Grade{}).Where("gradeable_kind = ? AND gradeable_id = ? AND student_id = ?",
		models.GradeableModule, f.module.ID, f.student.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestSetModuleGradeRejectsForeignModule(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	otherCourse := models.Course{SubjectID: f.subject.ID, LevelID: f.level.ID, TeacherID: f.teacher.ID, Title: "Geometry"}
	require.NoError(t, db.Create(&otherCourse).Error)
	foreignModule := models.Module{CourseID: otherCourse.ID, Number: 1, Title: "Triangles"}
	require.NoError(t, db.Create(&foreignModule).Error)

	svc := NewGradeLedgerService(db)
	_, err := svc.SetModuleGrade(context.Background(), f.teacher.ID, f.course.ID, foreignModule.ID, f.student.ID, 4, "")
	assert.ErrorIs(t, err, ErrNotOwner)
}

func TestSetFinalGradeLevelGate(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 10)

	svc := NewGradeLedgerService(db)
	ctx := context.Background()

	// Exam and final marks are reserved for graduation levels
	_, err := svc.SetFinalGrade(ctx, models.GradeableExam, f.teacher.ID, f.course.ID, f.student.ID, 5, "")
	assert.ErrorIs(t, err, ErrLevelIneligible)

	_, err = svc.SetFinalGrade(ctx, models.GradeableFinal, f.teacher.ID, f.course.ID, f.student.ID, 5, "")
	assert.ErrorIs(t, err, ErrLevelIneligible)

	// Yearly grades are fine at any level
	grade, err := svc.SetFinalGrade(ctx, models.GradeableYearly, f.teacher.ID, f.course.ID, f.student.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, models.GradeableYearly, grade.GradeableKind)
	assert.Equal(t, f.course.ID, grade.GradeableID)
}

func TestSetFinalGradeAtGraduationLevel(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 11)

	svc := NewGradeLedgerService(db)
	ctx := context.Background()

	exam, err := svc.SetFinalGrade(ctx, models.GradeableExam, f.teacher.ID, f.course.ID, f.student.ID, 5, "")
	require.NoError(t, err)
	assert.Equal(t, "Exam grade", exam.Title)

	// Upsert keyed by (student, kind, course)
	again, err := svc.SetFinalGrade(ctx, models.GradeableExam, f.teacher.ID, f.course.ID, f.student.ID, 4, "")
	require.NoError(t, err)
	assert.Equal(t, exam.ID, again.ID)
	assert.Equal(t, 4, again.Grade5)
}

func TestSetFinalGradeRequiresEnrollment(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	strayGroup := models.Group{LevelID: f.level.ID, ClassLetter: "B"}
	require.NoError(t, db.Create(&strayGroup).Error)
	stray := models.Student{UserID: 300, GroupID: strayGroup.ID, FullName: "Stray Student"}
	require.NoError(t, db.Create(&stray).Error)

	svc := NewGradeLedgerService(db)
	_, err := svc.SetFinalGrade(context.Background(), models.GradeableYearly, f.teacher.ID, f.course.ID, stray.ID, 4, "")
	assert.ErrorIs(t, err, ErrStudentNotEnrolled)
}

func TestDeleteGradeOnlyByCreator(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	svc := NewGradeLedgerService(db)
	ctx := context.Background()

	grade, err := svc.SetModuleGrade(ctx, f.teacher.ID, f.course.ID, f.module.ID, f.student.ID, 4, "")
	require.NoError(t, err)

	other := models.Teacher{UserID: 101, FullName: "Someone Else"}
	require.NoError(t, db.Create(&other).Error)

	assert.ErrorIs(t, svc.DeleteGrade(ctx, other.ID, grade.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteGrade(ctx, f.teacher.ID, grade.ID))

	var count int64
	db.Model(&models.Grade{}).Where("id = ?", grade.ID).Count(&count)
	assert.Zero(t, count)
}

func TestDeleteGradeRefusesAutomaticRows(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 1)

	attempts := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := attempts.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)
	_, err = attempts.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	var grade models.Grade
	require.NoError(t, db.Where("gradeable_kind = ?", models.GradeableQuizAttempt).First(&grade).Error)

	svc := NewGradeLedgerService(db)
	assert.ErrorIs(t, svc.DeleteGrade(ctx, f.teacher.ID, grade.ID), ErrNotOwner)
}

func TestListFinalGrades(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 11)
	second := f.addStudent(t, db, 201, "Petr Ivanov")

	svc := NewGradeLedgerService(db)
	ctx := context.Background()

	_, err := svc.SetFinalGrade(ctx, models.GradeableYearly, f.teacher.ID, f.course.ID, f.student.ID, 4, "")
	require.NoError(t, err)
	_, err = svc.SetFinalGrade(ctx, models.GradeableExam, f.teacher.ID, f.course.ID, f.student.ID, 5, "")
	require.NoError(t, err)

	rows, err := svc.ListFinalGrades(ctx, f.teacher.ID, f.course.ID, &f.group.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	byID := make(map[uint]FinalGradeRow)
	for _, row := range rows {
		byID[row.StudentID] = row
	}

	graded := byID[f.student.ID]
	require.NotNil(t, graded.Yearly)
	assert.Equal(t, 4, graded.Yearly.Grade5)
	require.NotNil(t, graded.Exam)
	assert.Equal(t, 5, graded.Exam.Grade5)
	assert.Nil(t, graded.Final)

	empty := byID[second.ID]
	assert.Nil(t, empty.Yearly)
	assert.Nil(t, empty.Exam)
	assert.Nil(t, empty.Final)
}
