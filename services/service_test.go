package services

import (
	"testing"

	"sip/database"
	"sip/models"

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

// fixture is a minimal school: one level, one group with one student, one
// course owned by one teacher, with a single module/chapter/paragraph chain
type fixture struct {
	level     models.Level
	subject   models.Subject
	teacher   models.Teacher
	group     models.Group
	student   models.Student
	course    models.Course
	module    models.Module
	chapter   models.Chapter
	paragraph models.Paragraph
}

func seedSchool(t *testing.T, db *gorm.DB, levelNumber int) *fixture {
	t.Helper()
	f := &fixture{}

	f.level = models.Level{Number: levelNumber}
	require.NoError(t, db.Create(&f.level).Error)

	f.subject = models.Subject{Name: "Mathematics"}
	require.NoError(t, db.Create(&f.subject).Error)

	f.teacher = models.Teacher{UserID: 100, FullName: "Anna Petrova"}
	require.NoError(t, db.Create(&f.teacher).Error)

	f.group = models.Group{LevelID: f.level.ID, ClassLetter: "A"}
	require.NoError(t, db.Create(&f.group).Error)

	f.student = models.Student{UserID: 200, GroupID: f.group.ID, FullName: "Ivan Sidorov", Email: "ivan@example.com"}
	require.NoError(t, db.Create(&f.student).Error)

	f.course = models.Course{SubjectID: f.subject.ID, LevelID: f.level.ID, TeacherID: f.teacher.ID, Title: "Algebra"}
	require.NoError(t, db.Create(&f.course).Error)
	require.NoError(t, db.Create(&models.CourseGroup{CourseID: f.course.ID, GroupID: f.group.ID}).Error)

	f.module = models.Module{CourseID: f.course.ID, Number: 1, Title: "Linear equations"}
	require.NoError(t, db.Create(&f.module).Error)

	f.chapter = models.Chapter{ModuleID: f.module.ID, Number: 1, Title: "Basics"}
	require.NoError(t, db.Create(&f.chapter).Error)

	f.paragraph = models.Paragraph{ChapterID: f.chapter.ID, Number: 1, Title: "One unknown"}
	require.NoError(t, db.Create(&f.paragraph).Error)

	return f
}

func (f *fixture) addStudent(t *testing.T, db *gorm.DB, userID uint, name string) models.Student {
	t.Helper()
	student := models.Student{UserID: userID, GroupID: f.group.ID, FullName: name}
	require.NoError(t, db.Create(&student).Error)
	return student
}

// seedSingleChoiceQuiz publishes a quiz of n single-choice questions worth
// pointsEach, the first option of every question being the correct one
func seedSingleChoiceQuiz(t *testing.T, db *gorm.DB, paragraphID uint, n, pointsEach int) models.Quiz {
	t.Helper()

	quiz := models.Quiz{
		ParagraphID: paragraphID,
		Title:       "Checkpoint",
		Status:      models.StatusPublished,
		MaxPoints:   n * pointsEach,
	}
	require.NoError(t, db.Create(&quiz).Error)

	for i := 0; i < n; i++ {
		q := models.QuizQuestion{
			QuizID:   quiz.ID,
			Type:     models.QuestionSingle,
			Text:     "Question",
			Points:   pointsEach,
			Position: i + 1,
		}
		require.NoError(t, db.Create(&q).Error)

		right := models.QuizOption{QuestionID: q.ID, Text: "right", IsCorrect: true, Position: 1}
		wrong := models.QuizOption{QuestionID: q.ID, Text: "wrong", Position: 2}
		require.NoError(t, db.Create(&right).Error)
		require.NoError(t, db.Create(&wrong).Error)
	}
	return quiz
}

// quizQuestions returns the ordered questions of a quiz with options loaded
func quizQuestions(t *testing.T, db *gorm.DB, quizID uint) []models.QuizQuestion {
	t.Helper()
	var questions []models.QuizQuestion
	require.NoError(t, db.Preload("Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	}).Where("quiz_id = ?", quizID).Order("position").Find(&questions).Error)
	return questions
}

func correctOption(q models.QuizQuestion) uint {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			return opt.ID
		}
	}
	return 0
}

func wrongOption(q models.QuizQuestion) uint {
	for _, opt := range q.Options {
		if !opt.IsCorrect {
			return opt.ID
		}
	}
	return 0
}
