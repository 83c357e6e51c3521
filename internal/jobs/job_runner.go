package jobs

import (
	"github.com/hgky95/Idle2Earn/internal/config"
	"github.com/hgky95/Idle2Earn/internal/logger"
	"github.com/hgky95/Idle2Earn/internal/repository"
	"github.com/hgky95/Idle2Earn/internal/service"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	rentalRepo  repository.RentalRepository
	assetRepo   repository.AssetRepository
	accountRepo repository.AccountRepository
	emailSvc    service.EmailService
	config      *config.Config
}

func NewJobRunner(
	rentalRepo repository.RentalRepository,
	assetRepo repository.AssetRepository,
	accountRepo repository.AccountRepository,
	emailSvc service.EmailService,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		rentalRepo:  rentalRepo,
		assetRepo:   assetRepo,
		accountRepo: accountRepo,
		emailSvc:    emailSvc,
		config:      cfg,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllNightlyJobs runs all nightly jobs (for manual execution).
func (jr *JobRunner) RunAllNightlyJobs() {
	jr.SendOverdueReminders()
}
