package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"promatch.backend/internal/domain/entities"
	"promatch.backend/internal/domain/repositories"
	"promatch.backend/pkg/logger"
)

// tokenRefresher is the part of the payment processor the job needs
type tokenRefresher interface {
	RefreshToken(ctx context.Context, refreshToken string) (*entities.OAuthCredentials, error)
}

// PaymentAccountRefreshJob renews processor tokens before they expire
type PaymentAccountRefreshJob struct {
	accounts  repositories.PaymentAccountRepository
	processor tokenRefresher
	window    time.Duration
	timeout   time.Duration
	now       func() time.Time
	cron      *cron.Cron
}

func NewPaymentAccountRefreshJob(accounts repositories.PaymentAccountRepository, processor tokenRefresher, window time.Duration) *PaymentAccountRefreshJob {
	cronLogger := cron.PrintfLogger(zap.NewStdLog(logger.GetLogger()))
	return &PaymentAccountRefreshJob{
		accounts:  accounts,
		processor: processor,
		window:    window,
		timeout:   2 * time.Minute,
		now:       time.Now,
		cron:      cron.New(cron.WithChain(cron.Recover(cronLogger))),
	}
}

// Start schedules the job and starts the cron runner
func (j *PaymentAccountRefreshJob) Start(schedule string) error {
	if _, err := j.cron.AddFunc(schedule, j.run); err != nil {
		return err
	}
	j.cron.Start()
	logger.Info(context.Background(), "Scheduled payment account refresh job", zap.String("schedule", schedule))
	return nil
}

// Stop waits for a running refresh to finish
func (j *PaymentAccountRefreshJob) Stop() context.Context {
	return j.cron.Stop()
}

func (j *PaymentAccountRefreshJob) run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()
	j.RefreshExpiring(ctx)
}

// RefreshExpiring refreshes every connected account expiring within the window.
// Accounts that are already expired and cannot be refreshed are disconnected.
func (j *PaymentAccountRefreshJob) RefreshExpiring(ctx context.Context) (refreshed, disconnected int) {
	now := j.now()
	expiring, err := j.accounts.ListExpiring(ctx, now.Add(j.window))
	if err != nil {
		logger.Error(ctx, "Failed to list expiring payment accounts", zap.Error(err))
		return 0, 0
	}

	for _, account := range expiring {
		creds, err := j.processor.RefreshToken(ctx, account.RefreshToken)
		if err != nil {
			logger.Warn(ctx, "Payment account refresh failed",
				zap.String("user_id", account.UserID.String()), zap.Error(err))
			if account.ExpiresAt.Valid && !account.ExpiresAt.Time.After(now) {
				if err := j.accounts.MarkDisconnected(ctx, account.UserID); err != nil {
					logger.Error(ctx, "Failed to disconnect payment account", zap.Error(err))
					continue
				}
				disconnected++
			}
			continue
		}

		account.ApplyCredentials(creds, now)
		if err := j.accounts.Upsert(ctx, account); err != nil {
			logger.Error(ctx, "Failed to store refreshed payment account", zap.Error(err))
			continue
		}
		refreshed++
	}

	if len(expiring) > 0 {
		logger.Info(ctx, "Payment account refresh finished",
			zap.Int("refreshed", refreshed), zap.Int("disconnected", disconnected), zap.Int("candidates", len(expiring)))
	}
	return refreshed, disconnected
}
