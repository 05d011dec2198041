package scheduler

import (
	"context"
	"log"
	"sip/config"
	"sip/database"
	"sip/services"

	"github.com/robfig/cron/v3"
)

// InitializeAttemptScheduler sets up the quiz attempt expiry sweep
func InitializeAttemptScheduler() {
	if !config.AppConfig.AttemptExpiryEnabled {
		log.Println("[ATTEMPT-SCHEDULER] Disabled via config, skipping")
		return
	}

	log.Println("[ATTEMPT-SCHEDULER] Initializing attempt expiry scheduler...")

	c := cron.New()

	spec := config.AppConfig.AttemptExpiryCron
	if _, err := c.AddFunc(spec, func() {
		FinishExpiredAttempts()
	}); err != nil {
		log.Printf("[ATTEMPT-SCHEDULER] Invalid cron spec %q: %v", spec, err)
		return
	}

	c.Start()
	log.Printf("[ATTEMPT-SCHEDULER] Attempt expiry scheduler started (%s)", spec)
}

// FinishExpiredAttempts force-finishes in-progress attempts whose time limit
// has passed. Each attempt goes through the same transactional finish path as
// a student submission, so a concurrent manual finish wins cleanly.
func FinishExpiredAttempts() {
	svc := services.NewQuizAttemptService(database.Database.Db)

	finished, err := svc.FinishExpired(context.Background())
	if err != nil {
		log.Printf("[ATTEMPT-SCHEDULER] Error sweeping expired attempts: %v", err)
		return
	}
	if finished > 0 {
		log.Printf("[ATTEMPT-SCHEDULER] Force-finished %d expired attempts", finished)
	}
}
