package jobs

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// StartScheduler starts the background job scheduler and returns it so the
// caller can stop it on shutdown.
func StartScheduler(app JobContext) *gocron.Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()

	startTempSweepJob(s, app)

	log.Println("Starting background job scheduler...")
	s.StartAsync()
	return s
}

func startTempSweepJob(s *gocron.Scheduler, app JobContext) {
	interval := app.Config().Uploads.SweepInterval
	if interval == 0 {
		log.Println("Temp sweep interval is 0, scheduled sweeping is disabled.")
		return
	}

	jobId := "temp-sweep"
	log.Printf("Scheduling job: '%s' to run every %d minutes.", jobId, interval)

	_, err := s.Every(interval).Minutes().Do(func() {
		// Submit through the manager so scheduled runs cannot overlap with
		// manually triggered jobs.
		if err := app.JobManager().RunJob(jobId, app); err != nil {
			log.Printf("Scheduled job '%s' could not start: %v", jobId, err)
		}
	})
	if err != nil {
		log.Printf("Error scheduling '%s' job: %v", jobId, err)
	}
}
