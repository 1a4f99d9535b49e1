package queue

import (
	"time"

	"github.com/hibiken/asynq"

	"marketplace-backend/internal/config"
	"marketplace-backend/internal/shared"
	"marketplace-backend/pkg/logger"
)

// Scheduler owns the cron entries for the recurring jobs: the two expiry
// sweeps and the daily settlement run. Cadences come from JobConfig so
// operators can tighten them without a rebuild.
type Scheduler struct {
	scheduler *asynq.Scheduler
	jobConfig config.JobConfig
}

func NewScheduler(redisAddress string, jobConfig config.JobConfig) *Scheduler {
	scheduler := asynq.NewScheduler(
		asynq.RedisClientOpt{Addr: redisAddress},
		&asynq.SchedulerOpts{
			Location: time.UTC,
			LogLevel: asynq.InfoLevel,
		},
	)

	return &Scheduler{
		scheduler: scheduler,
		jobConfig: jobConfig,
	}
}

func (s *Scheduler) RegisterJobs() error {
	if err := s.registerDealSweepJob(); err != nil {
		return err
	}
	if err := s.registerFlashOfferSweepJob(); err != nil {
		return err
	}
	if err := s.registerSettlementJob(); err != nil {
		return err
	}
	return nil
}

// ================================================
// JOB 1: Deal expiry sweep (default: daily at 2 AM)
// ================================================
func (s *Scheduler) registerDealSweepJob() error {
	task := asynq.NewTask(shared.TypeExpireDeals, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.DealSweepCron,
		task,
		asynq.Queue(shared.QueuePromotion),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register deal sweep job", err)
		return err
	}

	logger.Info("Registered deal sweep job", map[string]interface{}{
		"cron": s.jobConfig.DealSweepCron,
	})
	return nil
}

// ================================================
// JOB 2: Flash offer expiry sweep (default: hourly)
// ================================================
func (s *Scheduler) registerFlashOfferSweepJob() error {
	task := asynq.NewTask(shared.TypeExpireFlashOffers, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.FlashOfferSweepCron,
		task,
		asynq.Queue(shared.QueuePromotion),
		asynq.MaxRetry(1),
		asynq.Timeout(10*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register flash offer sweep job", err)
		return err
	}

	logger.Info("Registered flash offer sweep job", map[string]interface{}{
		"cron": s.jobConfig.FlashOfferSweepCron,
	})
	return nil
}

// ================================================
// JOB 3: Settlement aggregation (default: daily at 23:30)
// ================================================
func (s *Scheduler) registerSettlementJob() error {
	task := asynq.NewTask(shared.TypeRunSettlement, nil)

	_, err := s.scheduler.Register(
		s.jobConfig.SettlementCron,
		task,
		asynq.Queue(shared.QueueSettlement),
		asynq.MaxRetry(2),
		asynq.Timeout(15*time.Minute),
	)
	if err != nil {
		logger.Error("Failed to register settlement job", err)
		return err
	}

	logger.Info("Registered settlement job", map[string]interface{}{
		"cron": s.jobConfig.SettlementCron,
	})
	return nil
}

func (s *Scheduler) Start() error {
	return s.scheduler.Run()
}

func (s *Scheduler) Shutdown() {
	s.scheduler.Shutdown()
}
