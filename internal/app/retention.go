package app

import (
	"database/sql"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"vnsentiment/internal/config"
	sqlitestore "vnsentiment/internal/storage/sqlite"
)

// StartRetentionScheduler prunes history records older than
// retention_days on a cron schedule. Disabled when retention_days is 0.
// The schedule is a standard 5-field cron expression
// (minute hour day-of-month month day-of-week), default "0 3 * * *".
func StartRetentionScheduler(cfg config.Config, db *sql.DB) {
	if cfg.RetentionDays <= 0 {
		log.Println("History retention disabled (retention_days not set)")
		return
	}

	schedule := strings.TrimSpace(cfg.RetentionSchedule)
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid retention_schedule '%s': %v — retention disabled", schedule, err)
		return
	}

	log.Printf("History retention scheduled (cron: %s), pruning records older than %d days",
		schedule, cfg.RetentionDays)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next retention prune at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)

			cutoff := time.Now().AddDate(0, 0, -cfg.RetentionDays)
			deleted, err := sqlitestore.DeleteRecordsBefore(db, cutoff)
			if err != nil {
				log.Printf("Retention prune error: %v", err)
				continue
			}
			log.Printf("Retention prune complete: %d records removed", deleted)
		}
	}()
}
