package presale

import (
	"context"
	"presale/internal/observability"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultWatchInterval = 30 * time.Second

// Scheduler periodically runs WatchOracles.
type Scheduler struct {
	lister        PayTokenLister
	prober        OracleProber
	metrics       *observability.Metrics
	watchInterval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if watchErr := WatchOracles(jobCtx, execID, s.lister, s.prober, s.metrics); watchErr != nil {
			logrus.Errorf("Watch oracles job %s failed: %v", execID, watchErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.watchInterval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sched == nil {
		return nil
	}
	err := s.sched.Shutdown()
	s.sched = nil
	return err
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func NewScheduler(lister PayTokenLister, prober OracleProber, metrics *observability.Metrics, watchInterval time.Duration) *Scheduler {
	if watchInterval <= 0 {
		watchInterval = defaultWatchInterval
	}
	return &Scheduler{lister: lister, prober: prober, metrics: metrics, watchInterval: watchInterval}
}
