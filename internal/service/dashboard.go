package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/lenden-labs/lending-ledger/internal/domain"
	"github.com/lenden-labs/lending-ledger/internal/schedule"
	customError "github.com/lenden-labs/lending-ledger/pkg/errors"
)

// borrowerBundle is one borrower's snapshot plus its classification.
type borrowerBundle struct {
	borrower       *domain.Borrower
	loans          []*domain.Loan
	classification *domain.BorrowerClassification
}

func (s *LedgerService) classifyAll(ctx context.Context) ([]*borrowerBundle, error) {
	borrowers, err := s.BorrowerRepo.List(ctx)
	if err != nil {
		return nil, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	opts := s.opts()

	bundles := make([]*borrowerBundle, 0, len(borrowers))
	for _, borrower := range borrowers {
		loans, err := s.LoanRepo.ListByBorrower(ctx, borrower.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		payments, err := s.PaymentRepo.ListByBorrower(ctx, borrower.ID)
		if err != nil {
			return nil, customError.WrapDatabaseError(err)
		}
		bundles = append(bundles, &borrowerBundle{
			borrower:       borrower,
			loans:          loans,
			classification: schedule.Classify(borrower, loans, payments, now, opts),
		})
	}

	return bundles, nil
}

// Dashboard assembles the aggregated view of every borrower. The summary is
// cached in Redis for a short TTL and invalidated on every write.
func (s *LedgerService) Dashboard(ctx context.Context) (*domain.DashboardSummary, error) {
	if cached := s.cachedDashboard(ctx); cached != nil {
		return cached, nil
	}

	bundles, err := s.classifyAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := &domain.DashboardSummary{
		TotalBorrowers:   len(bundles),
		TotalOutstanding: decimal.Zero,
		Defaulters:       []*domain.DefaulterEntry{},
		MissedPayments:   []*domain.MissedPaymentEntry{},
		Borrowers:        []*domain.BorrowerSummary{},
		GeneratedAt:      s.nowFn(),
	}

	for _, b := range bundles {
		active := 0
		for _, loan := range b.loans {
			if loan.Status == domain.LoanStatusActive {
				active++
			}
		}
		summary.ActiveLoans += active

		bs := &domain.BorrowerSummary{
			Borrower:    b.borrower,
			Status:      b.classification.Status,
			ActiveLoans: active,
		}
		if next := earliestNext(b.classification); next != nil {
			due := next.DueDate
			amount := next.DueAmount
			bs.NextDueDate = &due
			bs.NextDueAmount = &amount
		}
		summary.Borrowers = append(summary.Borrowers, bs)

		if d := b.classification.Defaulter; d != nil {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(d.TotalOutstanding)
			summary.Defaulters = append(summary.Defaulters, &domain.DefaulterEntry{
				Borrower:          b.borrower,
				ConsecutiveMissed: d.ConsecutiveMissed,
				TotalOutstanding:  d.TotalOutstanding,
				OverduePayments:   d.OverduePayments,
			})
			continue
		}

		for _, p := range b.classification.MissedPayments {
			summary.TotalOutstanding = summary.TotalOutstanding.Add(p.Amount)
			summary.MissedPayments = append(summary.MissedPayments, &domain.MissedPaymentEntry{
				Borrower: b.borrower,
				Payment:  p,
			})
		}
	}

	s.cacheDashboard(ctx, summary)
	return summary, nil
}

// Defaulters lists every borrower currently classified as a defaulter.
func (s *LedgerService) Defaulters(ctx context.Context) ([]*domain.DefaulterEntry, error) {
	bundles, err := s.classifyAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []*domain.DefaulterEntry{}
	for _, b := range bundles {
		d := b.classification.Defaulter
		if d == nil {
			continue
		}
		entries = append(entries, &domain.DefaulterEntry{
			Borrower:          b.borrower,
			ConsecutiveMissed: d.ConsecutiveMissed,
			TotalOutstanding:  d.TotalOutstanding,
			OverduePayments:   d.OverduePayments,
		})
	}
	return entries, nil
}

// MissedPayments lists overdue payments of borrowers who are NOT defaulters.
func (s *LedgerService) MissedPayments(ctx context.Context) ([]*domain.MissedPaymentEntry, error) {
	bundles, err := s.classifyAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []*domain.MissedPaymentEntry{}
	for _, b := range bundles {
		if b.classification.Defaulter != nil {
			continue
		}
		for _, p := range b.classification.MissedPayments {
			entries = append(entries, &domain.MissedPaymentEntry{
				Borrower: b.borrower,
				Payment:  p,
			})
		}
	}
	return entries, nil
}

// RefreshPaymentStatuses rewrites the stored status column of every
// uncollected payment from the classifier. Reads never trust the stored
// column; this keeps ad-hoc reporting queries in line with the API.
func (s *LedgerService) RefreshPaymentStatuses(ctx context.Context) (int, error) {
	pending, err := s.PaymentRepo.ListPending(ctx)
	if err != nil {
		return 0, customError.WrapDatabaseError(err)
	}

	now := s.nowFn()
	window := s.opts().DueSoonWindowDays

	updated := 0
	for _, p := range pending {
		live := schedule.LiveStatus(p, now, window)
		if live == p.Status {
			continue
		}
		if err := s.PaymentRepo.UpdateStatus(ctx, p.ID, live); err != nil {
			return updated, customError.WrapDatabaseError(err)
		}
		updated++
	}

	if updated > 0 {
		s.invalidateDashboard(ctx)
	}
	return updated, nil
}

// TruncateAll empties every table. Restore hook for the backup collaborator.
func (s *LedgerService) TruncateAll(ctx context.Context) error {
	if err := s.PaymentRepo.Truncate(ctx); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := s.LoanRepo.Truncate(ctx); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := s.BorrowerRepo.Truncate(ctx); err != nil {
		return customError.WrapDatabaseError(err)
	}
	if err := s.UserRepo.Truncate(ctx); err != nil {
		return customError.WrapDatabaseError(err)
	}

	s.invalidateDashboard(ctx)
	return nil
}

// earliestNext picks the earliest pending payment across the borrower's loans.
func earliestNext(c *domain.BorrowerClassification) *domain.Payment {
	var next *domain.Payment
	for _, p := range c.NextPaymentByLoan {
		if next == nil || p.DueDate.Before(next.DueDate) {
			next = p
		}
	}
	return next
}

func (s *LedgerService) cachedDashboard(ctx context.Context) *domain.DashboardSummary {
	if s.redis == nil {
		return nil
	}

	raw, err := s.redis.Get(ctx, dashboardCacheKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("dashboard cache read failed: %v", err)
		}
		return nil
	}

	var summary domain.DashboardSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		log.Printf("dashboard cache decode failed: %v", err)
		return nil
	}
	return &summary
}

func (s *LedgerService) cacheDashboard(ctx context.Context, summary *domain.DashboardSummary) {
	if s.redis == nil {
		return
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		log.Printf("dashboard cache encode failed: %v", err)
		return
	}

	ttl := 60 * time.Second
	if s.config != nil {
		ttl = s.config.GetDashboardCacheTTL()
	}

	if err := s.redis.Set(ctx, dashboardCacheKey, raw, ttl).Err(); err != nil {
		log.Printf("dashboard cache write failed: %v", err)
	}
}

func (s *LedgerService) invalidateDashboard(ctx context.Context) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Del(ctx, dashboardCacheKey).Err(); err != nil {
		log.Printf("dashboard cache invalidation failed: %v", err)
	}
}
