// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"time"

	"github.com/emilythestrangee/project-votes/internal/models"
)

// Store defines the persistence operations behind the voting endpoints.
type Store interface {
	// ListProjects returns every project ordered by ProjectID.
	ListProjects(ctx context.Context) ([]models.Project, error)

	// GetVoucher looks a voucher up by its numeric code.
	// Returns nil and no error when no voucher has that code.
	GetVoucher(ctx context.Context, code int64) (*models.Voucher, error)

	// RedeemVoucher marks the voucher used for projectID and refreshes the
	// project's tally in a single transaction. It fails with
	// models.ErrVoucherNotFound, ErrVoucherUsed, ErrVoucherExpired or
	// ErrProjectNotFound when the vote cannot be cast.
	RedeemVoucher(ctx context.Context, code, projectID int64, now time.Time) (*models.Redemption, error)

	// RecountVotes recomputes every project's VoteCount from used vouchers
	// and returns the number of projects written.
	RecountVotes(ctx context.Context) (int64, error)

	// UpsertProjects inserts projects or updates them by name.
	UpsertProjects(ctx context.Context, projects []models.Project) error

	// UpsertVouchers inserts vouchers or updates them by code.
	UpsertVouchers(ctx context.Context, vouchers []models.Voucher) error
}
