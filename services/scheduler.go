package services

import (
	"log"
	"time"

	"rps-match-service/models"

	"github.com/go-co-op/gocron/v2"
)

// staleMatchAge is how long a match may sit in WAITING or IN_PROGRESS before
// the monitor counts it as abandoned. Matches are never expired or
// forfeited; this job only reports, so operators can see pile-ups.
const staleMatchAge = 24 * time.Hour

// StartStaleMatchMonitor runs an hourly report of abandoned matches.
func (s *MatchService) StartStaleMatchMonitor() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-staleMatchAge)

			var waiting, inProgress int64
			if err := s.DB.Model(&models.Match{}).
				Where("status = ? AND created_at < ?", models.MatchStatusWaiting, cutoff).
				Count(&waiting).Error; err != nil {
				log.Printf("[Monitor] DB error counting stale WAITING matches: %v", err)
				return
			}
			if err := s.DB.Model(&models.Match{}).
				Where("status = ? AND updated_at < ?", models.MatchStatusInProgress, cutoff).
				Count(&inProgress).Error; err != nil {
				log.Printf("[Monitor] DB error counting stale IN_PROGRESS matches: %v", err)
				return
			}

			if waiting+inProgress > 0 {
				log.Printf("⏳ [Monitor] %d stale WAITING and %d stale IN_PROGRESS matches older than %s",
					waiting, inProgress, staleMatchAge)
			}
		}),
	)
}
