package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"campusadvisor/internal/services"
)

// Scheduler runs the periodic maintenance jobs: expired-session sweeps
// and memory bank flushes.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// New builds the scheduler with both jobs registered but not started.
func New(sessions *services.SessionManager, memory *services.MemoryBank,
	sweepInterval, flushInterval time.Duration) (*Scheduler, error) {

	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(sweepInterval),
		gocron.NewTask(func() {
			removed := sessions.CleanupExpiredSessions()
			log.Printf("⏰ [SCHEDULER] Session sweep done, removed %d", removed)
		}),
		gocron.WithName("session-sweep"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register session sweep job: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(flushInterval),
		gocron.NewTask(func() {
			memory.Flush()
			log.Printf("⏰ [SCHEDULER] Memory flush done")
		}),
		gocron.WithName("memory-flush"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register memory flush job: %w", err)
	}

	return &Scheduler{scheduler: scheduler}, nil
}

// Start begins running the registered jobs.
func (s *Scheduler) Start() {
	s.scheduler.Start()
	log.Printf("🚀 [SCHEDULER] Started %d maintenance jobs", len(s.scheduler.Jobs()))
}

// Stop shuts the scheduler down, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		log.Printf("⚠️ [SCHEDULER] Shutdown error: %v", err)
	}
}
