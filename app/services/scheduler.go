package services

import (
	"context"
	"time"

	"github.com/Miian1/FamilyFinance/app/database"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Read notifications older than this are purged by the nightly job.
const notificationRetention = 90 * 24 * time.Hour

type schedulerStore interface {
	PurgeReadNotificationsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	ListAccountsForAudit(ctx context.Context) ([]*database.AuditRow, error)
	SumPostingsForAccount(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// Scheduler runs the housekeeping jobs: a nightly purge of old read
// notifications and a weekly audit that checks every account balance
// against the sum of its postings.
type Scheduler struct {
	store schedulerStore
	log   *logrus.Logger
	cron  *cron.Cron
}

func NewScheduler(store schedulerStore, log *logrus.Logger) *Scheduler {
	return &Scheduler{store: store, log: log, cron: cron.New()}
}

// Start registers the jobs and launches the cron loop in the background.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 3 * * *", s.purgeNotifications); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 4 * * 1", s.auditBalances); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("Scheduler started")
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) purgeNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	cutoff := time.Now().Add(-notificationRetention)
	removed, err := s.store.PurgeReadNotificationsBefore(ctx, cutoff)
	if err != nil {
		s.log.WithError(err).Error("Notification purge failed")
		return
	}
	s.log.WithField("removed", removed).Info("Purged read notifications")
}

// auditBalances flags accounts whose stored balance no longer equals the
// opening balance plus the sum of their postings. Drift means a balance
// write escaped the ledger and needs a human look.
func (s *Scheduler) auditBalances() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	accounts, err := s.store.ListAccountsForAudit(ctx)
	if err != nil {
		s.log.WithError(err).Error("Balance audit failed to list accounts")
		return
	}

	flagged := 0
	for _, a := range accounts {
		posted, err := s.store.SumPostingsForAccount(ctx, a.ID)
		if err != nil {
			s.log.WithError(err).WithField("account_id", a.ID).Warn("Balance audit skipped account")
			continue
		}
		expected := a.OpeningBalance.Add(posted)
		if !a.Balance.Equal(expected) {
			flagged++
			s.log.WithFields(logrus.Fields{
				"account_id": a.ID,
				"name":       a.Name,
				"kind":       a.Kind,
				"balance":    a.Balance.StringFixed(2),
				"expected":   expected.StringFixed(2),
				"drift":      a.Balance.Sub(expected).StringFixed(2),
			}).Warn("Account balance drifted from its postings")
		}
	}
	s.log.WithFields(logrus.Fields{
		"accounts": len(accounts),
		"flagged":  flagged,
	}).Info("Balance audit complete")
}
