package services

import (
	"context"
	"testing"
	"time"

	"sip/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartRequiresPublishedQuiz(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	quiz := models.Quiz{ParagraphID: f.paragraph.ID, Title: "Draft", Status: models.StatusDraft}
	require.NoError(t, db.Create(&quiz).Error)

	svc := NewQuizAttemptService(db)
	_, err := svc.Start(context.Background(), quiz.ID, f.student.ID)
	assert.ErrorIs(t, err, ErrNotPublished)
}

func TestStartEnforcesAttemptLimit(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)

	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 1)
	limit := 2
	require.NoError(t, db.Model(&quiz).Update("max_attempts", &limit).Error)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	for i := 0; i < limit; i++ {
		_, err := svc.Start(ctx, quiz.ID, f.student.ID)
		require.NoError(t, err)
	}

	_, err := svc.Start(ctx, quiz.ID, f.student.ID)
	assert.ErrorIs(t, err, ErrAttemptLimitExceeded)

	// The rejected start must not leave a row behind
	var count int64
	db.Model(&models.QuizAttempt{}).Where("quiz_id = ?", quiz.ID).Count(&count)
	assert.EqualValues(t, limit, count)
}

func TestFinishAllCorrectGivesTopGrade(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 3, 2)
	questions := quizQuestions(t, db, quiz.ID)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	for _, q := range questions {
		_, err := svc.RecordAnswer(ctx, attempt.ID, q.ID, f.student.ID, []uint{correctOption(q)}, nil)
		require.NoError(t, err)
	}

	result, err := svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	assert.Equal(t, quiz.MaxPoints, result.Score)
	assert.Equal(t, 5, result.Grade5)
	assert.True(t, result.Autograded)
	assert.Equal(t, models.AttemptGraded, result.Status)
	assert.Equal(t, 3, result.CorrectCount)
	assert.Zero(t, result.WrongCount)
	assert.Zero(t, result.UnansweredCount)

	// One auto-graded ledger row, no acting teacher
	var grade models.Grade
	require.NoError(t, db.Where("gradeable_kind = ? AND gradeable_id = ?",
		models.GradeableQuizAttempt, attempt.ID).First(&grade).Error)
	assert.Nil(t, grade.TeacherID)
	assert.Equal(t, f.course.ID, grade.CourseID)
	assert.Equal(t, 5, grade.Grade5)
	require.NotNil(t, grade.Score)
	assert.Equal(t, quiz.MaxPoints, *grade.Score)
}

func TestFiveScalePersistsAcrossTables(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 10)
	questions := quizQuestions(t, db, quiz.ID)

	attempts := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := attempts.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)
	_, err = attempts.RecordAnswer(ctx, attempt.ID, questions[0].ID, f.student.ID, []uint{correctOption(questions[0])}, nil)
	require.NoError(t, err)
	_, err = attempts.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	assignment := seedAssignment(t, db, f.paragraph.ID, models.StatusPublished)
	submissions := NewSubmissionService(db)
	submission, err := submissions.Submit(ctx, assignment.ID, f.student.ID, "done", "")
	require.NoError(t, err)
	_, err = submissions.Grade(ctx, submission.ID, f.teacher.ID, 4, "", "")
	require.NoError(t, err)

	// Every table carrying a five-scale value stores it in a grade_5
	// column, matching the wire name, so the raw update paths and the
	// struct reads agree
	var attemptGrades []int
	require.NoError(t, db.Model(&models.QuizAttempt{}).Where("id = ?", attempt.ID).
		Pluck("grade_5", &attemptGrades).Error)
	require.Len(t, attemptGrades, 1)
	assert.Equal(t, 5, attemptGrades[0])

	var submissionGrades []int
	require.NoError(t, db.Model(&models.AssignmentSubmission{}).Where("id = ?", submission.ID).
		Pluck("grade_5", &submissionGrades).Error)
	require.Len(t, submissionGrades, 1)
	assert.Equal(t, 4, submissionGrades[0])

	var ledgerGrades []int
	require.NoError(t, db.Model(&models.Grade{}).Order("id").
		Pluck("grade_5", &ledgerGrades).Error)
	assert.Equal(t, []int{5, 4}, ledgerGrades)
}

func TestFinishHalfScoreIsFailingGrade(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 2, 5)
	questions := quizQuestions(t, db, quiz.ID)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[0].ID, f.student.ID, []uint{correctOption(questions[0])}, nil)
	require.NoError(t, err)
	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[1].ID, f.student.ID, []uint{wrongOption(questions[1])}, nil)
	require.NoError(t, err)

	result, err := svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	// 5 of 10 points is 50%, below the passing threshold
	assert.Equal(t, 5, result.Score)
	assert.Equal(t, 2, result.Grade5)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 1, result.WrongCount)
}

func TestFinishCountsUnanswered(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 3, 1)
	questions := quizQuestions(t, db, quiz.ID)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[0].ID, f.student.ID, []uint{correctOption(questions[0])}, nil)
	require.NoError(t, err)

	result, err := svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.UnansweredCount)
	assert.Equal(t, 1, result.Score)
}

func TestDoubleFinishKeepsOneLedgerRow(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 1)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.Finish(ctx, attempt.ID, f.student.ID)
	assert.ErrorIs(t, err, ErrAlreadyFinished)

	var count int64
	db.Model(&models.Grade{}).Where("gradeable_kind = ? AND gradeable_id = ?",
		models.GradeableQuizAttempt, attempt.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestRecordAnswerGuards(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 1)
	questions := quizQuestions(t, db, quiz.ID)

	other := f.addStudent(t, db, 201, "Petr Ivanov")

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[0].ID, other.ID, []uint{correctOption(questions[0])}, nil)
	assert.ErrorIs(t, err, ErrNotOwner)

	// A question from another quiz is rejected
	otherParagraph := models.Paragraph{ChapterID: f.chapter.ID, Number: 2, Title: "Two unknowns"}
	require.NoError(t, db.Create(&otherParagraph).Error)
	otherQuiz := seedSingleChoiceQuiz(t, db, otherParagraph.ID, 1, 1)
	foreign := quizQuestions(t, db, otherQuiz.ID)[0]

	_, err = svc.RecordAnswer(ctx, attempt.ID, foreign.ID, f.student.ID, []uint{correctOption(foreign)}, nil)
	assert.ErrorIs(t, err, ErrQuestionMismatch)

	_, err = svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[0].ID, f.student.ID, []uint{correctOption(questions[0])}, nil)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestTextQuestionsNeedManualGrading(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 5)

	textQ := models.QuizQuestion{QuizID: quiz.ID, Type: models.QuestionText, Text: "Explain", Points: 5, Position: 2}
	require.NoError(t, db.Create(&textQ).Error)
	require.NoError(t, db.Model(&quiz).Update("max_points", 10).Error)

	questions := quizQuestions(t, db, quiz.ID)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	attempt, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)

	_, err = svc.RecordAnswer(ctx, attempt.ID, questions[0].ID, f.student.ID, []uint{correctOption(questions[0])}, nil)
	require.NoError(t, err)
	answer := "x equals two"
	_, err = svc.RecordAnswer(ctx, attempt.ID, textQ.ID, f.student.ID, nil, &answer)
	require.NoError(t, err)

	result, err := svc.Finish(ctx, attempt.ID, f.student.ID)
	require.NoError(t, err)
	assert.False(t, result.Autograded)
	assert.Equal(t, models.AttemptSubmitted, result.Status)
	assert.Equal(t, 5, result.Score) // only the choice question counts so far

	// Manual score above the question's points is rejected
	_, err = svc.GradeTextAnswer(ctx, attempt.ID, textQ.ID, f.teacher.ID, 6)
	assert.ErrorIs(t, err, ErrScoreOutOfRange)

	graded, err := svc.GradeTextAnswer(ctx, attempt.ID, textQ.ID, f.teacher.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, models.AttemptGraded, graded.Status)
	assert.Equal(t, 9, graded.Score)
	require.NotNil(t, graded.Grade5)
	assert.Equal(t, 5, *graded.Grade5) // 9 of 10 is 90%

	// The ledger row follows the manual score and records the teacher
	require.NotNil(t, graded.GradeID)
	var grade models.Grade
	require.NoError(t, db.First(&grade, *graded.GradeID).Error)
	assert.Equal(t, 5, grade.Grade5)
	require.NotNil(t, grade.TeacherID)
	assert.Equal(t, f.teacher.ID, *grade.TeacherID)

	// Once graded, further manual scoring is a state conflict
	_, err = svc.GradeTextAnswer(ctx, attempt.ID, textQ.ID, f.teacher.ID, 3)
	assert.ErrorIs(t, err, ErrStateConflict)
}

func TestFinishExpiredClosesOverdueAttempts(t *testing.T) {
	db := newTestDB(t)
	f := seedSchool(t, db, 9)
	quiz := seedSingleChoiceQuiz(t, db, f.paragraph.ID, 1, 1)
	limitSec := 60
	require.NoError(t, db.Model(&quiz).Update("time_limit_sec", &limitSec).Error)

	svc := NewQuizAttemptService(db)
	ctx := context.Background()

	overdue, err := svc.Start(ctx, quiz.ID, f.student.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(overdue).Update("started_at", time.Now().Add(-2*time.Minute)).Error)

	other := f.addStudent(t, db, 201, "Petr Ivanov")
	fresh, err := svc.Start(ctx, quiz.ID, other.ID)
	require.NoError(t, err)

	finished, err := svc.FinishExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, finished)

	var reloaded models.QuizAttempt
	require.NoError(t, db.First(&reloaded, overdue.ID).Error)
	assert.Equal(t, models.AttemptGraded, reloaded.Status)

	reloaded = models.QuizAttempt{}
	require.NoError(t, db.First(&reloaded, fresh.ID).Error)
	assert.Equal(t, models.AttemptInProgress, reloaded.Status)
}
