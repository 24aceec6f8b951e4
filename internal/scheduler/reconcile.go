package scheduler

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/mrlokans/bookshelf/internal/services"
)

// Reconciler repairs publisher back-references.
type Reconciler interface {
	RebuildBackReferences(ctx context.Context) (services.ReconcileResult, error)
}

// RunStatus describes the outcome of the last reconciliation run.
type RunStatus struct {
	At       time.Time
	Duration time.Duration
	Result   services.ReconcileResult
	Err      error
}

// ReconcileScheduler periodically rebuilds every publisher's publishedBooks
// from the books that reference it.
type ReconcileScheduler struct {
	reconciler Reconciler
	schedule   string

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	// runMu serializes runs so a slow pass never overlaps the next tick
	runMu      sync.Mutex
	statusMu   sync.RWMutex
	lastStatus *RunStatus
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// ValidateSchedule checks that schedule is a five-field cron expression.
func ValidateSchedule(schedule string) error {
	if _, err := cronParser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", schedule, err)
	}
	return nil
}

// NewReconcileScheduler creates a scheduler. An empty schedule disables it.
func NewReconcileScheduler(reconciler Reconciler, schedule string) *ReconcileScheduler {
	return &ReconcileScheduler{
		reconciler: reconciler,
		schedule:   schedule,
		cron:       cron.New(cron.WithParser(cronParser)),
	}
}

// Start begins the scheduler if a schedule is configured
func (s *ReconcileScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if s.schedule == "" {
		log.Printf("Reconcile scheduler: disabled")
		return nil
	}

	if err := ValidateSchedule(s.schedule); err != nil {
		return err
	}

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.RunOnce(cancelCtx)
	})
	if err != nil {
		s.cancelFunc()
		s.cancelFunc = nil
		return fmt.Errorf("failed to schedule reconcile job: %w", err)
	}
	s.entryID = entryID

	s.cron.Start()
	s.isRunning = true

	log.Printf("Reconcile scheduler: started with schedule '%s'. Next run: %v",
		s.schedule, s.cron.Entry(entryID).Next)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler
func (s *ReconcileScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	if s.cancelFunc != nil {
		s.cancelFunc()
		s.cancelFunc = nil
	}

	// Stop accepting new jobs and wait for running jobs to complete
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.cron.Remove(s.entryID)
	s.isRunning = false

	log.Printf("Reconcile scheduler: stopped")
}

// IsRunning returns whether the scheduler is active
func (s *ReconcileScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next run will occur
func (s *ReconcileScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	entry := s.cron.Entry(s.entryID)
	if !entry.Valid() {
		return nil
	}
	next := entry.Next
	return &next
}

// LastStatus returns the outcome of the most recent run, or nil.
func (s *ReconcileScheduler) LastStatus() *RunStatus {
	s.statusMu.RLock()
	defer s.statusMu.RUnlock()
	if s.lastStatus == nil {
		return nil
	}
	status := *s.lastStatus
	return &status
}

// RunOnce performs a single reconciliation pass and records its outcome.
func (s *ReconcileScheduler) RunOnce(ctx context.Context) RunStatus {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	startTime := time.Now()
	result, err := s.reconciler.RebuildBackReferences(ctx)
	status := RunStatus{
		At:       startTime,
		Duration: time.Since(startTime),
		Result:   result,
		Err:      err,
	}

	if err != nil {
		log.Printf("Reconcile: failed after checking %d publishers: %v", result.PublishersChecked, err)
	} else {
		log.Printf("Reconcile: checked %d publishers, updated %d in %v",
			result.PublishersChecked, result.PublishersUpdated, status.Duration.Round(time.Millisecond))
	}

	s.statusMu.Lock()
	s.lastStatus = &status
	s.statusMu.Unlock()

	return status
}
