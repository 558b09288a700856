package repository

import (
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"gorm.io/gorm"
)

type VerificationRepository interface {
	ExistsSince(storeID uint, ipHash string, since time.Time) (bool, error)
	Record(v *model.StoreVerification, flagClosed bool) error
	CountSince(storeID uint, vt model.VerificationType, since time.Time) (int64, error)
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) ExistsSince(storeID uint, ipHash string, since time.Time) (bool, error) {
	var count int64
	err := r.db.Model(&model.StoreVerification{}).
		Where("store_id = ? AND submitter_ip = ? AND created_at >= ?", storeID, ipHash, since).
		Limit(1).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to check recent verification", err, map[string]interface{}{
			"store_id": storeID,
		})
		return false, err
	}
	return count > 0, nil
}

// Record inserts the event and refreshes the store's last_verified_at. With
// flagClosed the store also moves to flagged_closed.
func (r *verificationRepository) Record(v *model.StoreVerification, flagClosed bool) error {
	logger.Debug("Recording store verification", map[string]interface{}{
		"store_id": v.StoreID,
		"type":     v.VerificationType,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(v).Error; err != nil {
			return err
		}
		fields := map[string]interface{}{
			"last_verified_at": v.CreatedAt,
		}
		if flagClosed {
			fields["verification_status"] = model.StatusFlaggedClosed
		}
		result := tx.Model(&model.Store{}).Where("id = ?", v.StoreID).Updates(fields)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to record store verification", err, map[string]interface{}{
			"store_id": v.StoreID,
		})
		return err
	}

	logger.Debug("Store verification recorded", map[string]interface{}{
		"verification_id": v.ID,
		"store_id":        v.StoreID,
	})
	return nil
}

func (r *verificationRepository) CountSince(storeID uint, vt model.VerificationType, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.StoreVerification{}).
		Where("store_id = ? AND verification_type = ? AND created_at >= ?", storeID, vt, since).
		Count(&count).Error
	if err != nil {
		logger.Error("Failed to count verifications", err, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, err
	}
	return count, nil
}
