package services

import (
	"context"
	"testing"

	"sip/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedAssignment(t *testing.T, db *gorm.DB, paragraphID uint, status string) models.Assignment {
	t.Helper()
	assignment := models.Assignment{
		ParagraphID: paragraphID,
		Title:       "Essay",
		Status:      status,
	}
	require.NoError(t, db.Create(&assignment).Error)
	return assignment
}

func TestSubmitRequiresPublishedAssignment(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	assignment := seedAssignment(t, db, f.paragraph.ID, models.StatusDraft)

	svc := NewSubmissionService(db)
	_, err := svc.Submit(context.Background(), assignment.ID, f.student.ID, "my answer", "")
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestResubmitReplacesSubmission(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	assignment := seedAssignment(t, db, f.paragraph.ID, models.StatusPublished)

	svc := NewSubmissionService(db)
	ctx := context.Background()

	first, err := svc.Submit(ctx, assignment.ID, f.student.ID, "draft answer", "uploads/a.pdf")
	require.NoError(t, err)

	second, err := svc.Submit(ctx, assignment.ID, f.student.ID, "final answer", "")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "final answer", second.TextAnswer)
	assert.Equal(t, "uploads/a.pdf", second.FilePath) // kept when the resubmit has no file
	assert.Equal(t, models.SubmissionSubmitted, second.Status)

	var count int64
	db.Model(&models.AssignmentSubmission{}).Where("assignment_id = ?", assignment.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestGradeSubmissionUpsertsLedgerRow(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	assignment := seedAssignment(t, db, f.paragraph.ID, models.StatusPublished)

	svc := NewSubmissionService(db)
	ctx := context.Background()

	submission, err := svc.Submit(ctx, assignment.ID, f.student.ID, "my answer", "")
	require.NoError(t, err)

	graded, err := svc.Grade(ctx, submission.ID, f.teacher.ID, 4, "good work", "")
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionReturned, graded.Status) // default outcome
	require.NotNil(t, graded.Grade5)
	assert.Equal(t, 4, *graded.Grade5)
	assert.Nil(t, graded.Score)
	assert.Equal(t, "good work", graded.TeacherComment)

	var grade models.Grade
	require.NoError(t, db.Where("gradeable_kind = ? AND gradeable_id = ?",
		models.GradeableSubmission, submission.ID).First(&grade).Error)
	assert.Equal(t, 4, grade.Grade5)
	assert.Nil(t, grade.Score)
	assert.Equal(t, assignment.Title, grade.Title)
	require.NotNil(t, grade.TeacherID)
	assert.Equal(t, f.teacher.ID, *grade.TeacherID)

	// Re-grading replaces the same ledger row instead of appending
	_, err = svc.Grade(ctx, submission.ID, f.teacher.ID, 5, "even better", models.SubmissionNeedsFix)
	require.NoError(t, err)

	var count int64
	db.Model(&models.Grade{}).Where("gradeable_kind = ? AND gradeable_id = ?",
		models.GradeableSubmission, submission.ID).Count(&count)
	assert.EqualValues(t, 1, count)

	require.NoError(t, db.Where("gradeable_kind = ? AND gradeable_id = ?",
		models.GradeableSubmission, submission.ID).First(&grade).Error)
	assert.Equal(t, 5, grade.Grade5)
}

func TestGradeSubmissionGuards(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	assignment := seedAssignment(t, db, f.paragraph.ID, models.StatusPublished)

	svc := NewSubmissionService(db)
	ctx := context.Background()

	submission, err := svc.Submit(ctx, assignment.ID, f.student.ID, "my answer", "")
	require.NoError(t, err)

	_, err = svc.Grade(ctx, submission.ID, f.teacher.ID, 1, "", "")
	assert.ErrorIs(t, err, ErrInvalidGradeRange)

	_, err = svc.Grade(ctx, submission.ID, f.teacher.ID, 4, "", models.SubmissionGraded)
	assert.ErrorIs(t, err, ErrInvalidGradeRange)

	other := models.Teacher{UserID: 101, FullName: "Someone Else"}
	require.NoError(t, db.Create(&other).Error)
	_, err = svc.Grade(ctx, submission.ID, other.ID, 4, "", "")
	assert.ErrorIs(t, err, ErrNotOwner)
}
