package repository

import (
	"math"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"gorm.io/gorm"
)

type ReviewRepository interface {
	Create(review *model.Review) error
	FindByID(id uint) (*model.Review, error)
	ListApprovedByStore(storeID uint) ([]model.Review, error)
	ListByStatus(status string) ([]model.Review, error)
	CountByStatus(status string) (int64, error)
	SetStatus(id uint, status string) (*model.Review, error)
	ApprovedStats() ([]RatingStat, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(review *model.Review) error {
	logger.Debug("Creating review", map[string]interface{}{
		"store_id": review.StoreID,
		"rating":   review.Rating,
	})

	if err := r.db.Create(review).Error; err != nil {
		logger.Error("Failed to create review", err, map[string]interface{}{
			"store_id": review.StoreID,
		})
		return err
	}
	return nil
}

func (r *reviewRepository) FindByID(id uint) (*model.Review, error) {
	var review model.Review
	if err := r.db.First(&review, id).Error; err != nil {
		logger.Error("Failed to find review", err, map[string]interface{}{
			"review_id": id,
		})
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) ListApprovedByStore(storeID uint) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Where("store_id = ? AND status = ?", storeID, model.ReviewStatusApproved).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list store reviews", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) ListByStatus(status string) ([]model.Review, error) {
	var reviews []model.Review
	err := r.db.Preload("Store").
		Where("status = ?", status).
		Order("created_at DESC").
		Order("id DESC").
		Find(&reviews).Error
	if err != nil {
		logger.Error("Failed to list reviews", err, map[string]interface{}{
			"status": status,
		})
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) CountByStatus(status string) (int64, error) {
	var count int64
	if err := r.db.Model(&model.Review{}).Where("status = ?", status).Count(&count).Error; err != nil {
		logger.Error("Failed to count reviews", err)
		return 0, err
	}
	return count, nil
}

// SetStatus moves a pending review to status. ErrNotPending if it was already moderated.
func (r *reviewRepository) SetStatus(id uint, status string) (*model.Review, error) {
	var review model.Review
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&review, id).Error; err != nil {
			return err
		}
		result := tx.Model(&model.Review{}).
			Where("id = ? AND status = ?", id, model.ReviewStatusPending).
			Update("status", status)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotPending
		}
		review.Status = status
		return nil
	})
	if err != nil {
		logger.Error("Failed to moderate review", err, map[string]interface{}{
			"review_id": id,
			"status":    status,
		})
		return nil, err
	}
	return &review, nil
}

type ratingRow struct {
	StoreID     uint
	Total       float64
	RatingCount int64
}

// ApprovedStats aggregates approved ratings per store, averaged to one decimal.
func (r *reviewRepository) ApprovedStats() ([]RatingStat, error) {
	var rows []ratingRow
	err := r.db.Model(&model.Review{}).
		Select("store_id, SUM(rating) AS total, COUNT(*) AS rating_count").
		Where("status = ?", model.ReviewStatusApproved).
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate review ratings", err)
		return nil, err
	}

	stats := make([]RatingStat, 0, len(rows))
	for _, row := range rows {
		if row.RatingCount == 0 {
			continue
		}
		stats = append(stats, RatingStat{
			StoreID: row.StoreID,
			Average: math.Round(row.Total/float64(row.RatingCount)*10) / 10,
			Count:   row.RatingCount,
		})
	}
	return stats, nil
}
