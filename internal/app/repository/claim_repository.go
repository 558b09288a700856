package repository

import (
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"gorm.io/gorm"
)

type ClaimRepository interface {
	Create(claim *model.StoreClaim) error
	FindByID(id uint) (*model.StoreClaim, error)
	ListByStatus(status string) ([]model.StoreClaim, error)
	CountByStatus(status string) (int64, error)
	MarkEmailVerified(token string) (bool, error)
	Approve(id uint, at time.Time) (*model.StoreClaim, error)
	Reject(id uint, at time.Time) (*model.StoreClaim, error)
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) Create(claim *model.StoreClaim) error {
	logger.Debug("Creating store claim", map[string]interface{}{
		"store_id": claim.StoreID,
		"role":     claim.ClaimantRole,
	})

	if err := r.db.Create(claim).Error; err != nil {
		logger.Error("Failed to create store claim", err, map[string]interface{}{
			"store_id": claim.StoreID,
		})
		return err
	}

	logger.Debug("Store claim created", map[string]interface{}{
		"claim_id": claim.ID,
		"store_id": claim.StoreID,
	})
	return nil
}

func (r *claimRepository) FindByID(id uint) (*model.StoreClaim, error) {
	var claim model.StoreClaim
	if err := r.db.Preload("Store").First(&claim, id).Error; err != nil {
		logger.Error("Failed to find store claim", err, map[string]interface{}{
			"claim_id": id,
		})
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) ListByStatus(status string) ([]model.StoreClaim, error) {
	logger.Debug("Listing store claims", map[string]interface{}{
		"status": status,
	})

	var claims []model.StoreClaim
	if err := r.db.Preload("Store").
		Where("status = ?", status).
		Order("created_at DESC").
		Order("id DESC").
		Find(&claims).Error; err != nil {
		logger.Error("Failed to list store claims", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return claims, nil
}

func (r *claimRepository) CountByStatus(status string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.StoreClaim{}).Where("status = ?", status).Count(&count).Error; err != nil {
		logger.Error("Failed to count store claims", err)
		return 0, err
	}
	return count, nil
}

// MarkEmailVerified flips email_verified for an unused token and reports whether a row matched.
func (r *claimRepository) MarkEmailVerified(token string) (bool, error) {
	result := r.db.Model(&model.StoreClaim{}).
		Where("verification_token = ? AND email_verified = ?", token, false).
		Update("email_verified", true)
	if result.Error != nil {
		logger.Error("Failed to verify claim email", result.Error)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Approve moves a pending claim to approved and marks the store claimed in the same transaction.
func (r *claimRepository) Approve(id uint, at time.Time) (*model.StoreClaim, error) {
	logger.Debug("Approving store claim", map[string]interface{}{
		"claim_id": id,
	})

	var claim model.StoreClaim
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := r.transition(tx, &claim, id, model.ClaimStatusApproved, at); err != nil {
			return err
		}
		result := tx.Model(&model.Store{}).
			Where("id = ?", claim.StoreID).
			Updates(map[string]interface{}{
				"is_claimed": true,
				"claimed_at": at,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to approve store claim", err, map[string]interface{}{
			"claim_id": id,
		})
		return nil, err
	}

	logger.Debug("Store claim approved", map[string]interface{}{
		"claim_id": id,
		"store_id": claim.StoreID,
	})
	return &claim, nil
}

func (r *claimRepository) Reject(id uint, at time.Time) (*model.StoreClaim, error) {
	var claim model.StoreClaim
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return r.transition(tx, &claim, id, model.ClaimStatusRejected, at)
	})
	if err != nil {
		logger.Error("Failed to reject store claim", err, map[string]interface{}{
			"claim_id": id,
		})
		return nil, err
	}
	return &claim, nil
}

func (r *claimRepository) transition(tx *gorm.DB, claim *model.StoreClaim, id uint, status string, at time.Time) error {
	if err := tx.First(claim, id).Error; err != nil {
		return err
	}
	// conditional update so two concurrent reviewers cannot both win
	result := tx.Model(&model.StoreClaim{}).
		Where("id = ? AND status = ?", id, model.ClaimStatusPending).
		Updates(map[string]interface{}{
			"status":      status,
			"reviewed_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotPending
	}
	claim.Status = status
	claim.ReviewedAt = &at
	return nil
}
