package service

import (
	"errors"
	"strings"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
)

const maxReviewComment = 2000

type ReviewInput struct {
	StoreID     uint
	Rating      int
	Comment     string
	AuthorName  string
	AuthorEmail string
}

type ReviewService interface {
	Create(input ReviewInput) (*model.Review, error)
	ListApproved(storeID uint) ([]model.Review, error)
	ListPending() ([]model.Review, error)
	Approve(id uint) (*model.Review, error)
	Reject(id uint) (*model.Review, error)
	BulkApprove(ids []uint) *BulkResult
	BulkReject(ids []uint) *BulkResult
	RecomputeRatings() (int, error)
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	storeRepo  repository.StoreRepository
	feed       FeedPublisher
	metrics    *metrics.DirectoryMetrics
}

func NewReviewService(reviewRepo repository.ReviewRepository, storeRepo repository.StoreRepository, feed FeedPublisher, m *metrics.DirectoryMetrics) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		storeRepo:  storeRepo,
		feed:       feedOrNoop(feed),
		metrics:    m,
	}
}

func (s *reviewService) Create(input ReviewInput) (review *model.Review, err error) {
	defer func() { record(s.metrics, "review", err) }()

	input.Comment = strings.TrimSpace(input.Comment)
	input.AuthorName = strings.TrimSpace(input.AuthorName)
	input.AuthorEmail = strings.TrimSpace(input.AuthorEmail)

	fields := fieldErrors{}
	if input.Rating < 1 || input.Rating > 5 {
		fields["rating"] = "must be between 1 and 5"
	}
	fields.required("author_name", input.AuthorName)
	if input.AuthorEmail != "" && !util.IsValidEmail(input.AuthorEmail) {
		fields["author_email"] = "must be a valid email address"
	}
	if len(input.Comment) > maxReviewComment {
		fields["comment"] = "is too long"
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindByID(input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	review = &model.Review{
		StoreID:     store.ID,
		Rating:      input.Rating,
		Comment:     input.Comment,
		AuthorName:  input.AuthorName,
		AuthorEmail: input.AuthorEmail,
		Status:      model.ReviewStatusPending,
	}
	if err := s.reviewRepo.Create(review); err != nil {
		return nil, err
	}

	s.feed.Publish(EventReviewSubmitted, map[string]interface{}{
		"review_id":  review.ID,
		"store_id":   store.ID,
		"store_name": store.Name,
		"rating":     review.Rating,
	})
	return review, nil
}

func (s *reviewService) ListApproved(storeID uint) ([]model.Review, error) {
	reviews, err := s.reviewRepo.ListApprovedByStore(storeID)
	if err != nil {
		return nil, err
	}
	if reviews == nil {
		reviews = []model.Review{}
	}
	return reviews, nil
}

func (s *reviewService) ListPending() ([]model.Review, error) {
	return s.reviewRepo.ListByStatus(model.ReviewStatusPending)
}

func (s *reviewService) Approve(id uint) (*model.Review, error) {
	return s.moderate(id, model.ReviewStatusApproved)
}

func (s *reviewService) Reject(id uint) (*model.Review, error) {
	return s.moderate(id, model.ReviewStatusRejected)
}

func (s *reviewService) moderate(id uint, status string) (*model.Review, error) {
	review, err := s.reviewRepo.SetStatus(id, status)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrReviewNotFound
		case errors.Is(err, repository.ErrNotPending):
			return nil, ErrReviewAlreadyReviewed
		}
		return nil, err
	}
	logger.Info("Review moderated", map[string]interface{}{
		"review_id": id,
		"status":    status,
	})
	return review, nil
}

func (s *reviewService) BulkApprove(ids []uint) *BulkResult {
	return runBulk(ids, func(id uint) error {
		_, err := s.Approve(id)
		return err
	})
}

func (s *reviewService) BulkReject(ids []uint) *BulkResult {
	return runBulk(ids, func(id uint) error {
		_, err := s.Reject(id)
		return err
	})
}

// RecomputeRatings rewrites rating and review_count for every store with
// approved reviews. Stores without any keep their imported values.
func (s *reviewService) RecomputeRatings() (int, error) {
	stats, err := s.reviewRepo.ApprovedStats()
	if err != nil {
		return 0, err
	}
	updated, err := s.storeRepo.UpdateRatings(stats)
	if err != nil {
		return 0, err
	}
	logger.Info("Store ratings recomputed", map[string]interface{}{
		"stores": updated,
	})
	return updated, nil
}
