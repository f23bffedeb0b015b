package voting

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/emilythestrangee/project-votes/internal/metrics"
	"github.com/emilythestrangee/project-votes/internal/models"
	"github.com/emilythestrangee/project-votes/internal/storage"
)

// Service holds the voting rules on top of a Store.
type Service struct {
	store   storage.Store
	metrics *metrics.Metrics
	now     func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func NewService(store storage.Store, opts ...Option) *Service {
	s := &Service{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Summary returns the vote tally of every project in a stable order.
func (s *Service) Summary(ctx context.Context) ([]models.ProjectVotes, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, models.Wrap("summary", err)
	}

	votes := make([]models.ProjectVotes, 0, len(projects))
	for _, p := range projects {
		votes = append(votes, p.Votes())
	}
	return votes, nil
}

// Voucher returns the voucher with the given code, or nil when there is none.
func (s *Service) Voucher(ctx context.Context, code int64) (*models.Voucher, error) {
	v, err := s.store.GetVoucher(ctx, code)
	if err != nil {
		return nil, models.Wrap("get voucher", err)
	}
	return v, nil
}

// Echo returns its inputs unchanged. It never reads or writes the store.
func (s *Service) Echo(code, projectID int64) models.VoteEcho {
	return models.VoteEcho{VoucherCode: code, ProjectID: projectID}
}

// Redeem spends a voucher on a project and returns the refreshed state.
func (s *Service) Redeem(ctx context.Context, code, projectID int64) (*models.Redemption, error) {
	res, err := s.store.RedeemVoucher(ctx, code, projectID, s.now().UTC())
	s.observeRedemption(err)
	if err != nil {
		slog.WarnContext(ctx, "voucher redemption rejected",
			"voucher", code,
			"project_id", projectID,
			"error", err,
		)
		return nil, models.Wrap("redeem", err)
	}

	slog.InfoContext(ctx, "voucher redeemed",
		"voucher", code,
		"project_id", projectID,
		"vote_count", res.Project.VoteCount,
	)
	return res, nil
}

// Recount rebuilds every project's tally from the redeemed vouchers.
func (s *Service) Recount(ctx context.Context) (int64, error) {
	start := time.Now()
	n, err := s.store.RecountVotes(ctx)
	if s.metrics != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		s.metrics.RecountRuns.WithLabelValues(result).Inc()
	}
	if err != nil {
		slog.ErrorContext(ctx, "vote recount failed", "error", err)
		return 0, models.Wrap("recount", err)
	}

	slog.InfoContext(ctx, "vote recount completed",
		"projects", n,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return n, nil
}

func (s *Service) observeRedemption(err error) {
	if s.metrics == nil {
		return
	}
	s.metrics.Redemptions.WithLabelValues(redemptionResult(err)).Inc()
}

func redemptionResult(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, models.ErrVoucherNotFound):
		return "voucher_not_found"
	case errors.Is(err, models.ErrProjectNotFound):
		return "project_not_found"
	case errors.Is(err, models.ErrVoucherUsed):
		return "used"
	case errors.Is(err, models.ErrVoucherExpired):
		return "expired"
	default:
		return "error"
	}
}
