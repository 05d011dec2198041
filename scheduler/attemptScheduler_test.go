package scheduler

import (
	"testing"
	"time"

	"sip/database"
	"sip/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	database.RunMigrations(db)
	return db
}

func TestSweepClosesOverdueAttempt(t *testing.T) {
	db := newTestDB(t)
	prev := database.Database
	database.Database = database.DbInstance{Db: db}
	t.Cleanup(func() { database.Database = prev })

	level := models.Level{Number: 9}
	require.NoError(t, db.Create(&level).Error)
	subject := models.Subject{Name: "Mathematics"}
	require.NoError(t, db.Create(&subject).Error)
	teacher := models.Teacher{UserID: 100, FullName: "Anna Petrova"}
	require.NoError(t, db.Create(&teacher).Error)
	group := models.Group{LevelID: level.ID, ClassLetter: "A"}
	require.NoError(t, db.Create(&group).Error)
	student := models.Student{UserID: 200, GroupID: group.ID, FullName: "Ivan Sidorov"}
	require.NoError(t, db.Create(&student).Error)
	course := models.Course{SubjectID: subject.ID, LevelID: level.ID, TeacherID: teacher.ID, Title: "Algebra"}
	require.NoError(t, db.Create(&course).Error)
	module := models.Module{CourseID: course.ID, Number: 1, Title: "Linear equations"}
	require.NoError(t, db.Create(&module).Error)
	chapter := models.Chapter{ModuleID: module.ID, Number: 1, Title: "Basics"}
	require.NoError(t, db.Create(&chapter).Error)
	paragraph := models.Paragraph{ChapterID: chapter.ID, Number: 1, Title: "One unknown"}
	require.NoError(t, db.Create(&paragraph).Error)

	timeLimit := 60
	quiz := models.Quiz{
		ParagraphID:  paragraph.ID,
		Title:        "Timed checkpoint",
		Status:       models.StatusPublished,
		TimeLimitSec: &timeLimit,
		MaxPoints:    10,
	}
	require.NoError(t, db.Create(&quiz).Error)

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		StudentID: student.ID,
		StartedAt: time.Now().Add(-10 * time.Minute),
		Status:    models.AttemptInProgress,
	}
	require.NoError(t, db.Create(&attempt).Error)

	FinishExpiredAttempts()

	var swept models.QuizAttempt
	require.NoError(t, db.First(&swept, attempt.ID).Error)
	assert.Equal(t, models.AttemptGraded, swept.Status)
	require.NotNil(t, swept.FinishedAt)
	require.NotNil(t, swept.Grade5)
	assert.Equal(t, 2, *swept.Grade5) // nothing answered
}
