package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/robfig/cron/v3"

	"github.com/ainav/navigator/ingest"
)

// DefaultSchedule runs ingestion every 3 hours.
const DefaultSchedule = "0 */3 * * *"

// CycleRunner is the entry point the scheduler drives.
type CycleRunner interface {
	RunCycle(ctx context.Context) *ingest.CycleResult
}

// Scheduler owns the recurring ingestion timer. It fires one immediate run
// at startup, then follows the cron schedule for the lifetime of the
// process. A trigger that arrives while a cycle is still running is skipped
// rather than overlapped.
type Scheduler struct {
	runner   CycleRunner
	schedule string

	cron    *cron.Cron
	cronID  cron.EntryID
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool
	started bool
	mu      sync.Mutex
}

// New creates a scheduler driving the given runner. An empty schedule uses
// DefaultSchedule.
func New(runner CycleRunner, schedule string) *Scheduler {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner:   runner,
		schedule: schedule,
		cron:     cron.New(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start registers the cron entry and fires one immediate run in the
// background. Startup is not blocked on that first cycle.
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return fmt.Errorf("scheduler already started")
	}

	id, err := s.cron.AddFunc(s.schedule, s.trigger)
	if err != nil {
		return fmt.Errorf("failed to add cron job: %w", err)
	}
	s.cronID = id
	s.started = true

	// Initial run to populate articles, fire-and-forget
	go s.trigger()

	s.cron.Start()
	log.Printf("Ingestion scheduled: %s", s.schedule)
	return nil
}

// trigger runs one ingestion cycle unless one is already in flight.
func (s *Scheduler) trigger() {
	if !s.running.CompareAndSwap(false, true) {
		log.Println("Ingestion trigger skipped: previous cycle still running")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)

		if s.ctx.Err() != nil {
			return
		}

		log.Println("Ingestion cycle starting")
		result := s.runner.RunCycle(s.ctx)
		log.Printf("Ingestion cycle complete: %d sources, %d failed, %d articles added",
			result.SourcesProcessed, result.SourcesFailed, result.ArticlesAdded)
	}()
}

// Stop cancels the timer and any in-flight cycle, then waits for the cycle
// to wind down until the given context expires. Entries the cycle could not
// finish are simply not persisted; the next process picks them up from the
// feed re-read.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	s.cron.Stop()
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Scheduler stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown grace period expired with a cycle still running: %w", ctx.Err())
	}
}
