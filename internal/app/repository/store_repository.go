package repository

import (
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreListFilter drives the admin stores table.
type StoreListFilter struct {
	Search   string
	Statuses []model.VerificationStatus
	Page     int
	PageSize int
}

type StateCount struct {
	State      string
	StoreCount int64
}

type CityCount struct {
	City       string `json:"name"`
	StoreCount int64  `json:"store_count"`
}

// RatingStat is the aggregate of approved reviews for one store.
type RatingStat struct {
	StoreID uint
	Average float64
	Count   int64
}

type StoreRepository interface {
	Create(store *model.Store) error
	BulkCreate(stores []model.Store, batchSize int) error
	FindByID(id uint) (*model.Store, error)
	FindBySlug(slug string) (*model.Store, error)
	Update(id uint, fields map[string]interface{}) error
	ReplaceHours(storeID uint, rows []model.StoreHours) error
	Delete(id uint) error

	FindInBox(box util.BoundingBox) ([]model.Store, error)
	FindByCity(state, city string) ([]model.Store, error)
	TopRatedInState(state string, limit int) ([]model.Store, error)
	CountByState() ([]StateCount, error)
	CityCounts(state string) ([]CityCount, error)
	Recent(limit int) ([]model.Store, error)
	FindByStatuses(statuses ...model.VerificationStatus) ([]model.Store, error)
	List(filter StoreListFilter) ([]model.Store, int64, error)
	Count(query interface{}, args ...interface{}) (int64, error)
	SitemapEntries(limit int) ([]model.Store, error)
	UpdateRatings(stats []RatingStat) (int, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func preloadHours(db *gorm.DB) *gorm.DB {
	return db.Order("day_of_week ASC")
}

func (r *storeRepository) Create(store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"name":  store.Name,
		"city":  store.City,
		"state": store.State,
		"slug":  store.Slug,
	})

	if err := r.db.Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"name": store.Name,
			"slug": store.Slug,
		})
		return err
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return nil
}

// BulkCreate inserts stores in batches. Rows whose slug already exists are skipped.
func (r *storeRepository) BulkCreate(stores []model.Store, batchSize int) error {
	if len(stores) == 0 {
		return nil
	}
	logger.Info("Bulk creating stores", map[string]interface{}{
		"count":      len(stores),
		"batch_size": batchSize,
	})

	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "slug"}},
		DoNothing: true,
	}).CreateInBatches(&stores, batchSize).Error
	if err != nil {
		logger.Error("Failed to bulk create stores", err, map[string]interface{}{
			"count": len(stores),
		})
		return err
	}
	return nil
}

func (r *storeRepository) FindByID(id uint) (*model.Store, error) {
	logger.Debug("Finding store by ID", map[string]interface{}{
		"store_id": id,
	})

	var store model.Store
	if err := r.db.Preload("Hours", preloadHours).First(&store, id).Error; err != nil {
		logger.Error("Failed to find store", err, map[string]interface{}{
			"store_id": id,
		})
		return nil, err
	}
	return &store, nil
}

func (r *storeRepository) FindBySlug(slug string) (*model.Store, error) {
	logger.Debug("Finding store by slug", map[string]interface{}{
		"slug": slug,
	})

	var store model.Store
	if err := r.db.Preload("Hours", preloadHours).Where("slug = ?", slug).First(&store).Error; err != nil {
		logger.Error("Failed to find store by slug", err, map[string]interface{}{
			"slug": slug,
		})
		return nil, err
	}
	return &store, nil
}

// Update applies a partial update. The slug column is never written.
func (r *storeRepository) Update(id uint, fields map[string]interface{}) error {
	delete(fields, "slug")
	delete(fields, "id")
	if len(fields) == 0 {
		return nil
	}

	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": id,
		"fields":   len(fields),
	})

	result := r.db.Model(&model.Store{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		logger.Error("Failed to update store in database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	logger.Debug("Store updated in database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

// ReplaceHours swaps the whole weekly schedule in one transaction.
func (r *storeRepository) ReplaceHours(storeID uint, rows []model.StoreHours) error {
	logger.Debug("Replacing store hours", map[string]interface{}{
		"store_id": storeID,
		"days":     len(rows),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", storeID).Delete(&model.StoreHours{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		for i := range rows {
			rows[i].ID = 0
			rows[i].StoreID = storeID
		}
		return tx.Create(&rows).Error
	})
	if err != nil {
		logger.Error("Failed to replace store hours", err, map[string]interface{}{
			"store_id": storeID,
		})
		return err
	}
	return nil
}

// Delete hard-deletes the store and every child row.
func (r *storeRepository) Delete(id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&model.StoreHours{},
			&model.StoreClaim{},
			&model.StoreVerification{},
			&model.Review{},
		} {
			if err := tx.Where("store_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		result := tx.Delete(&model.Store{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to delete store from database", err, map[string]interface{}{
			"store_id": id,
		})
		return err
	}

	logger.Debug("Store deleted from database", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

// FindInBox returns geocoded stores inside box. Exact distance is computed by the caller.
func (r *storeRepository) FindInBox(box util.BoundingBox) ([]model.Store, error) {
	logger.Debug("Finding stores in bounding box", map[string]interface{}{
		"min_lat": box.MinLat,
		"max_lat": box.MaxLat,
		"min_lng": box.MinLng,
		"max_lng": box.MaxLng,
	})

	var stores []model.Store
	err := r.db.Preload("Hours", preloadHours).
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat).
		Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng).
		Where("verification_status <> ?", model.StatusRejected).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find stores in bounding box", err)
		return nil, err
	}

	logger.Debug("Stores found in bounding box", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) FindByCity(state, city string) ([]model.Store, error) {
	logger.Debug("Finding stores by city", map[string]interface{}{
		"state": state,
		"city":  city,
	})

	var stores []model.Store
	err := r.db.Preload("Hours", preloadHours).
		Where("state = ?", state).
		Where("LOWER(city) = LOWER(?)", city).
		Where("is_reviewed = ?", true).
		Where("verification_status <> ?", model.StatusRejected).
		Order("rating DESC").
		Order("name ASC").
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find stores by city", err, map[string]interface{}{
			"state": state,
			"city":  city,
		})
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) TopRatedInState(state string, limit int) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Preload("Hours", preloadHours).
		Where("state = ? AND is_reviewed = ?", state, true).
		Where("verification_status <> ?", model.StatusRejected).
		Order("rating DESC").
		Order("review_count DESC").
		Limit(limit).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find top rated stores", err, map[string]interface{}{
			"state": state,
		})
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) CountByState() ([]StateCount, error) {
	logger.Debug("Counting stores by state")

	var counts []StateCount
	err := r.db.Model(&model.Store{}).
		Select("state, COUNT(*) AS store_count").
		Where("verification_status <> ?", model.StatusRejected).
		Group("state").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to count stores by state", err)
		return nil, err
	}
	return counts, nil
}

// CityCounts orders by store count then city name.
func (r *storeRepository) CityCounts(state string) ([]CityCount, error) {
	var counts []CityCount
	err := r.db.Model(&model.Store{}).
		Select("city, COUNT(*) AS store_count").
		Where("state = ? AND city <> ''", state).
		Where("verification_status <> ?", model.StatusRejected).
		Group("city").
		Order("store_count DESC").
		Order("city ASC").
		Scan(&counts).Error
	if err != nil {
		logger.Error("Failed to count stores by city", err, map[string]interface{}{
			"state": state,
		})
		return nil, err
	}
	return counts, nil
}

// Recent returns the newest stores that were not rejected.
func (r *storeRepository) Recent(limit int) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Where("verification_status <> ?", model.StatusRejected).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find recent stores", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) FindByStatuses(statuses ...model.VerificationStatus) ([]model.Store, error) {
	logger.Debug("Finding stores by status", map[string]interface{}{
		"statuses": statuses,
	})

	var stores []model.Store
	err := r.db.Where("verification_status IN ?", statuses).
		Order("created_at DESC").
		Order("id DESC").
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to find stores by status", err)
		return nil, err
	}
	return stores, nil
}

func (r *storeRepository) List(filter StoreListFilter) ([]model.Store, int64, error) {
	logger.Debug("Listing stores", map[string]interface{}{
		"search": filter.Search,
		"page":   filter.Page,
	})

	query := r.db.Model(&model.Store{})
	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("verification_status IN ?", filter.Statuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return nil, 0, err
	}

	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 25
	}

	var stores []model.Store
	err := query.Order("created_at DESC").
		Order("id DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to list stores", err)
		return nil, 0, err
	}

	logger.Debug("Stores listed", map[string]interface{}{
		"count": len(stores),
		"total": total,
	})
	return stores, total, nil
}

func (r *storeRepository) Count(query interface{}, args ...interface{}) (int64, error) {
	var count int64
	q := r.db.Model(&model.Store{})
	if query != nil {
		q = q.Where(query, args...)
	}
	if err := q.Count(&count).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return 0, err
	}
	return count, nil
}

func (r *storeRepository) SitemapEntries(limit int) ([]model.Store, error) {
	var stores []model.Store
	err := r.db.Select("id", "slug", "city", "state", "updated_at").
		Where("slug <> ''").
		Where("verification_status <> ?", model.StatusRejected).
		Order("id ASC").
		Limit(limit).
		Find(&stores).Error
	if err != nil {
		logger.Error("Failed to load sitemap entries", err)
		return nil, err
	}
	return stores, nil
}

// UpdateRatings writes recomputed aggregates and returns how many stores changed.
func (r *storeRepository) UpdateRatings(stats []RatingStat) (int, error) {
	if len(stats) == 0 {
		return 0, nil
	}

	updated := 0
	now := time.Now()
	err := r.db.Transaction(func(tx *gorm.DB) error {
		for _, s := range stats {
			result := tx.Model(&model.Store{}).
				Where("id = ?", s.StoreID).
				Updates(map[string]interface{}{
					"rating":       s.Average,
					"review_count": s.Count,
					"updated_at":   now,
				})
			if result.Error != nil {
				return result.Error
			}
			updated += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		logger.Error("Failed to update store ratings", err)
		return 0, err
	}
	return updated, nil
}
