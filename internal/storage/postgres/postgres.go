package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/emilythestrangee/project-votes/internal/models"
)

// Store is the gorm-backed storage.Store.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "ProjectID"}}).Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *Store) GetVoucher(ctx context.Context, code int64) (*models.Voucher, error) {
	var voucher models.Voucher
	err := s.db.WithContext(ctx).Where(clause.Eq{Column: "Voucher", Value: code}).First(&voucher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get voucher: %w", err)
	}
	return &voucher, nil
}

func (s *Store) RedeemVoucher(ctx context.Context, code, projectID int64, now time.Time) (*models.Redemption, error) {
	var result models.Redemption

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The predicate is re-checked under the row lock, so only one
		// concurrent redemption of the same code can match.
		update := tx.Model(&models.Voucher{}).
			Where(clause.Eq{Column: "Voucher", Value: code}).
			Where(clause.Eq{Column: "Used", Value: false}).
			Where(clause.Gt{Column: "ExpiryDate", Value: now}).
			Updates(map[string]interface{}{
				"Used":      true,
				"ProjectID": projectID,
			})
		if update.Error != nil {
			return fmt.Errorf("mark voucher used: %w", update.Error)
		}
		if update.RowsAffected == 0 {
			return classifyRejected(tx, code, now)
		}

		// Tallies for one project are recomputed serially under this lock.
		// An unknown project rolls the voucher update back.
		var project models.Project
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where(clause.Eq{Column: "ProjectID", Value: projectID}).
			First(&project).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrProjectNotFound
		}
		if err != nil {
			return fmt.Errorf("lock project: %w", err)
		}

		var count int64
		err = tx.Model(&models.Voucher{}).
			Where(clause.Eq{Column: "ProjectID", Value: projectID}).
			Where(clause.Eq{Column: "Used", Value: true}).
			Count(&count).Error
		if err != nil {
			return fmt.Errorf("count votes: %w", err)
		}

		project.VoteCount = int(count)
		err = tx.Model(&project).Update("VoteCount", project.VoteCount).Error
		if err != nil {
			return fmt.Errorf("update vote count: %w", err)
		}

		var voucher models.Voucher
		if err := tx.Where(clause.Eq{Column: "Voucher", Value: code}).First(&voucher).Error; err != nil {
			return fmt.Errorf("reload voucher: %w", err)
		}

		result = models.Redemption{Voucher: voucher, Project: project}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// classifyRejected explains why the conditional update matched no row.
func classifyRejected(tx *gorm.DB, code int64, now time.Time) error {
	var voucher models.Voucher
	err := tx.Where(clause.Eq{Column: "Voucher", Value: code}).First(&voucher).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrVoucherNotFound
	}
	if err != nil {
		return fmt.Errorf("load voucher: %w", err)
	}
	if voucher.Used {
		return models.ErrVoucherUsed
	}
	if voucher.Expired(now) {
		return models.ErrVoucherExpired
	}
	return fmt.Errorf("voucher %d was not updated", code)
}

const recountSQL = `
UPDATE project_votes AS p
SET "VoteCount" = (
    SELECT count(*) FROM voucher_codes AS v
    WHERE v."ProjectID" = p."ProjectID" AND v."Used"
)`

// RecountVotes locks every project before recounting, so the count
// statement's snapshot includes redemptions that committed while it waited.
func (s *Store) RecountVotes(ctx context.Context) (int64, error) {
	var updated int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var locked []models.Project
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Order(clause.OrderByColumn{Column: clause.Column{Name: "ProjectID"}}).
			Find(&locked).Error
		if err != nil {
			return fmt.Errorf("lock projects: %w", err)
		}

		res := tx.Exec(recountSQL)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("recount votes: %w", err)
	}
	return updated, nil
}

func (s *Store) UpsertProjects(ctx context.Context, projects []models.Project) error {
	if len(projects) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "ProjectName"}},
		DoUpdates: clause.AssignmentColumns([]string{"ProjectCountry", "IconCode", "GraphColour"}),
	}).Create(&projects).Error
	if err != nil {
		return fmt.Errorf("upsert projects: %w", err)
	}
	return nil
}

func (s *Store) UpsertVouchers(ctx context.Context, vouchers []models.Voucher) error {
	if len(vouchers) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "Voucher"}},
		DoUpdates: clause.AssignmentColumns([]string{"ExpiryDate"}),
	}).Create(&vouchers).Error
	if err != nil {
		return fmt.Errorf("upsert vouchers: %w", err)
	}
	return nil
}
