package services

import (
	"context"
	"time"

	"sip/models"
	"sip/utils"

	"gorm.io/gorm"
)

// QuizAttemptService drives the attempt state machine:
// in_progress -> submitted (text questions pending) or graded.
type QuizAttemptService struct {
	DB *gorm.DB
}

func NewQuizAttemptService(db *gorm.DB) *QuizAttemptService {
	return &QuizAttemptService{DB: db}
}

// FinishResult carries the outcome of finishing an attempt
type FinishResult struct {
	Attempt         *models.QuizAttempt `json:"attempt"`
	Score           int                 `json:"score"`
	Grade5          int                 `json:"grade_5"`
	Autograded      bool                `json:"autograded"`
	Status          string              `json:"status"`
	CorrectCount    int                 `json:"correct_count"`
	WrongCount      int                 `json:"wrong_count"`
	UnansweredCount int                 `json:"unanswered_count"`
}

// Start creates a new in-progress attempt, enforcing the per-quiz attempt limit
func (s *QuizAttemptService) Start(ctx context.Context, quizID, studentID uint) (*models.QuizAttempt, error) {
	var quiz models.Quiz
	if err := s.DB.WithContext(ctx).First(&quiz, quizID).Error; err != nil {
		return nil, err
	}
	if quiz.Status != models.StatusPublished {
		return nil, ErrNotPublished
	}

	if quiz.MaxAttempts != nil {
		var count int64
		if err := s.DB.WithContext(ctx).Model(&models.QuizAttempt{}).
			Where("quiz_id = ? AND student_id = ?", quiz.ID, studentID).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count >= int64(*quiz.MaxAttempts) {
			return nil, ErrAttemptLimitExceeded
		}
	}

	attempt := models.QuizAttempt{
		QuizID:    quiz.ID,
		StudentID: studentID,
		StartedAt: time.Now(),
		Status:    models.AttemptInProgress,
		Score:     0,
	}
	if err := s.DB.WithContext(ctx).Create(&attempt).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

// RecordAnswer upserts the answer row for (attempt, question). Option ids and
// free text are mutually exclusive by question type.
func (s *QuizAttemptService) RecordAnswer(ctx context.Context, attemptID, questionID, studentID uint, selectedOptionIDs []uint, textAnswer *string) (*models.QuizAnswer, error) {
	var attempt models.QuizAttempt
	if err := s.DB.WithContext(ctx).First(&attempt, attemptID).Error; err != nil {
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrStateConflict
	}

	var question models.QuizQuestion
	if err := s.DB.WithContext(ctx).First(&question, questionID).Error; err != nil {
		return nil, err
	}
	if question.QuizID != attempt.QuizID {
		return nil, ErrQuestionMismatch
	}

	var answer models.QuizAnswer
	err := s.DB.WithContext(ctx).
		Where("attempt_id = ? AND question_id = ?", attempt.ID, question.ID).
		First(&answer).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	answer.AttemptID = attempt.ID
	answer.QuestionID = question.ID

	if question.Type == models.QuestionText {
		answer.TextAnswer = textAnswer
		answer.SetSelectedIDs(nil)
	} else {
		answer.TextAnswer = nil
		answer.SetSelectedIDs(selectedOptionIDs)
	}

	if err := s.DB.WithContext(ctx).Save(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// Finish auto-grades the attempt and appends its ledger row. The whole write is
// one transaction; the attempt update is conditional on status still being
// in_progress, so a concurrent finish loses with ErrAlreadyFinished.
// studentID 0 skips the ownership check (scheduler path).
func (s *QuizAttemptService) Finish(ctx context.Context, attemptID, studentID uint) (*FinishResult, error) {
	var attempt models.QuizAttempt
	if err := s.DB.WithContext(ctx).First(&attempt, attemptID).Error; err != nil {
		return nil, err
	}
	if studentID != 0 && attempt.StudentID != studentID {
		return nil, ErrNotOwner
	}
	if attempt.Status != models.AttemptInProgress {
		return nil, ErrAlreadyFinished
	}

	var quiz models.Quiz
	if err := s.DB.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("position") }).
		Preload("Questions.Options").
		First(&quiz, attempt.QuizID).Error; err != nil {
		return nil, err
	}

	var answers []models.QuizAnswer
	if err := s.DB.WithContext(ctx).Where("attempt_id = ?", attempt.ID).Find(&answers).Error; err != nil {
		return nil, err
	}
	answerByQuestion := make(map[uint]*models.QuizAnswer, len(answers))
	for i := range answers {
		answerByQuestion[answers[i].QuestionID] = &answers[i]
	}

	score := 0
	correct, wrong, unanswered := 0, 0, 0
	hasText := false
	autoScores := make(map[uint]int) // answer id -> auto score

	for i := range quiz.Questions {
		q := &quiz.Questions[i]
		ans := answerByQuestion[q.ID]

		if q.Type == models.QuestionText {
			hasText = true
			if ans != nil {
				autoScores[ans.ID] = 0
			}
			continue
		}

		var selected []uint
		if ans != nil {
			selected = ans.SelectedIDs()
		}
		if len(selected) == 0 {
			unanswered++
			if ans != nil {
				autoScores[ans.ID] = 0
			}
			continue
		}

		isRight := optionSetMatches(q.Options, selected)
		auto := 0
		if isRight {
			auto = q.Points
			correct++
		} else {
			wrong++
		}
		autoScores[ans.ID] = auto
		score += auto
	}

	now := time.Now()
	grade5 := utils.ToFiveScale(score, quiz.MaxPoints)
	autograded := !hasText
	status := models.AttemptSubmitted
	if autograded {
		status = models.AttemptGraded
	}

	// Attempt ledger rows are auto-graded: no acting teacher on them
	courseID, _, err := resolveCourse(ctx, s.DB, quiz.ParagraphID)
	if err != nil {
		return nil, err
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.QuizAttempt{}).
			Where("id = ? AND status = ?", attempt.ID, models.AttemptInProgress).
			Updates(map[string]interface{}{
				"score":       score,
				"finished_at": now,
				"autograded":  autograded,
				"grade_5":     grade5,
				"status":      status,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyFinished
		}

		for answerID, auto := range autoScores {
			if err := tx.Model(&models.QuizAnswer{}).
				Where("id = ?", answerID).
				Update("auto_score", auto).Error; err != nil {
				return err
			}
		}

		maxPoints := quiz.MaxPoints
		grade := models.Grade{
			StudentID:     attempt.StudentID,
			CourseID:      courseID,
			TeacherID:     nil,
			GradeableKind: models.GradeableQuizAttempt,
			GradeableID:   attempt.ID,
			Score:         &score,
			Grade5:        grade5,
			MaxPoints:     &maxPoints,
			Title:         quiz.Title,
			GradedAt:      now,
		}
		if err := tx.Create(&grade).Error; err != nil {
			return err
		}
		return tx.Model(&models.QuizAttempt{}).
			Where("id = ?", attempt.ID).
			Update("grade_id", grade.ID).Error
	})
	if err != nil {
		return nil, err
	}

	var fresh models.QuizAttempt
	if err := s.DB.WithContext(ctx).First(&fresh, attempt.ID).Error; err != nil {
		return nil, err
	}

	return &FinishResult{
		Attempt:         &fresh,
		Score:           score,
		Grade5:          grade5,
		Autograded:      autograded,
		Status:          status,
		CorrectCount:    correct,
		WrongCount:      wrong,
		UnansweredCount: unanswered,
	}, nil
}

// GradeTextAnswer lets a teacher score one text question of a submitted
// attempt. Once every text question carries a manual score the attempt flips
// to graded; the attempt's ledger row is refreshed either way.
func (s *QuizAttemptService) GradeTextAnswer(ctx context.Context, attemptID, questionID, teacherID uint, manualScore int) (*models.QuizAttempt, error) {
	var attempt models.QuizAttempt
	if err := s.DB.WithContext(ctx).First(&attempt, attemptID).Error; err != nil {
		return nil, err
	}
	if attempt.Status != models.AttemptSubmitted {
		return nil, ErrStateConflict
	}

	var question models.QuizQuestion
	if err := s.DB.WithContext(ctx).First(&question, questionID).Error; err != nil {
		return nil, err
	}
	if question.QuizID != attempt.QuizID {
		return nil, ErrQuestionMismatch
	}
	if question.Type != models.QuestionText {
		return nil, ErrNotTextQuestion
	}
	if manualScore < 0 || manualScore > question.Points {
		return nil, ErrScoreOutOfRange
	}

	var quiz models.Quiz
	if err := s.DB.WithContext(ctx).First(&quiz, attempt.QuizID).Error; err != nil {
		return nil, err
	}
	_, courseTeacherID, err := resolveCourse(ctx, s.DB, quiz.ParagraphID)
	if err != nil {
		return nil, err
	}
	if courseTeacherID != teacherID {
		return nil, ErrNotOwner
	}

	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var answer models.QuizAnswer
		err := tx.Where("attempt_id = ? AND question_id = ?", attempt.ID, question.ID).
			First(&answer).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}
		answer.AttemptID = attempt.ID
		answer.QuestionID = question.ID

		prev := 0
		if answer.ManualScore != nil {
			prev = *answer.ManualScore
		}
		answer.ManualScore = &manualScore
		if err := tx.Save(&answer).Error; err != nil {
			return err
		}

		newScore := attempt.Score - prev + manualScore
		grade5 := utils.ToFiveScale(newScore, quiz.MaxPoints)

		// Count text questions of this quiz still waiting for a manual score
		var pending int64
		if err := tx.Model(&models.QuizQuestion{}).
			Where("quiz_id = ? AND type = ?", quiz.ID, models.QuestionText).
			Where("id NOT IN (?)",
				tx.Model(&models.QuizAnswer{}).Select("question_id").
					Where("attempt_id = ? AND manual_score IS NOT NULL", attempt.ID),
			).
			Count(&pending).Error; err != nil {
			return err
		}

		status := models.AttemptSubmitted
		if pending == 0 {
			status = models.AttemptGraded
		}

		if err := tx.Model(&models.QuizAttempt{}).
			Where("id = ?", attempt.ID).
			Updates(map[string]interface{}{
				"score":   newScore,
				"grade_5": grade5,
				"status":  status,
			}).Error; err != nil {
			return err
		}

		if attempt.GradeID != nil {
			if err := tx.Model(&models.Grade{}).
				Where("id = ?", *attempt.GradeID).
				Updates(map[string]interface{}{
					"score":      newScore,
					"grade_5":    grade5,
					"teacher_id": teacherID,
					"graded_at":  time.Now(),
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var fresh models.QuizAttempt
	if err := s.DB.WithContext(ctx).First(&fresh, attempt.ID).Error; err != nil {
		return nil, err
	}
	return &fresh, nil
}

// FinishExpired closes every in-progress attempt of a timed quiz whose limit
// has passed. Returns the number of attempts finished.
func (s *QuizAttemptService) FinishExpired(ctx context.Context) (int, error) {
	var open []models.QuizAttempt
	err := s.DB.WithContext(ctx).
		Where("status = ?", models.AttemptInProgress).
		Find(&open).Error
	if err != nil {
		return 0, err
	}
	if len(open) == 0 {
		return 0, nil
	}

	quizIDs := make([]uint, 0, len(open))
	for _, a := range open {
		quizIDs = append(quizIDs, a.QuizID)
	}
	var quizzes []models.Quiz
	if err := s.DB.WithContext(ctx).Where("id IN ?", quizIDs).Find(&quizzes).Error; err != nil {
		return 0, err
	}
	quizByID := make(map[uint]*models.Quiz, len(quizzes))
	for i := range quizzes {
		quizByID[quizzes[i].ID] = &quizzes[i]
	}

	now := time.Now()
	finished := 0
	for _, attempt := range open {
		quiz := quizByID[attempt.QuizID]
		if quiz == nil || quiz.TimeLimitSec == nil {
			continue
		}
		deadline := attempt.StartedAt.Add(time.Duration(*quiz.TimeLimitSec) * time.Second)
		if now.Before(deadline) {
			continue
		}
		if _, err := s.Finish(ctx, attempt.ID, 0); err != nil {
			if err == ErrAlreadyFinished {
				continue
			}
			return finished, err
		}
		finished++
	}
	return finished, nil
}

// optionSetMatches reports whether the selected ids equal the question's
// correct-option set, by value not order. An empty correct set never matches.
func optionSetMatches(options []models.QuizOption, selected []uint) bool {
	correct := make(map[uint]bool)
	for _, opt := range options {
		if opt.IsCorrect {
			correct[opt.ID] = true
		}
	}
	if len(correct) == 0 {
		return false
	}
	seen := make(map[uint]bool)
	for _, id := range selected {
		seen[id] = true
	}
	if len(seen) != len(correct) {
		return false
	}
	for id := range correct {
		if !seen[id] {
			return false
		}
	}
	return true
}
