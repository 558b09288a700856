package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	verificationCooldown = 24 * time.Hour

	ConfirmedMessage = "Thanks for confirming!"
	ReportedMessage  = "Thanks for the report. We'll review this store."
)

type VerificationInput struct {
	StoreID          uint
	VerificationType string
	Notes            string
	ClientIP         string
}

type VerificationResult struct {
	Message       string `json:"message"`
	Confirmations int64  `json:"confirmations"`
}

type VerificationService interface {
	Submit(input VerificationInput) (*VerificationResult, error)
	Confirmations(storeID uint) (int64, error)
}

type verificationService struct {
	verificationRepo repository.VerificationRepository
	storeRepo        repository.StoreRepository
	ipHashKey        string
	feed             FeedPublisher
	metrics          *metrics.DirectoryMetrics
	now              func() time.Time
}

func NewVerificationService(
	verificationRepo repository.VerificationRepository,
	storeRepo repository.StoreRepository,
	ipHashKey string,
	feed FeedPublisher,
	m *metrics.DirectoryMetrics,
) VerificationService {
	return &verificationService{
		verificationRepo: verificationRepo,
		storeRepo:        storeRepo,
		ipHashKey:        ipHashKey,
		feed:             feedOrNoop(feed),
		metrics:          m,
		now:              time.Now,
	}
}

func (s *verificationService) Submit(input VerificationInput) (result *VerificationResult, err error) {
	defer func() { record(s.metrics, "verification", err) }()

	vt := model.VerificationType(strings.TrimSpace(input.VerificationType))
	if !vt.Valid() {
		return nil, ErrInvalidVerificationType
	}

	store, err := s.storeRepo.FindByID(input.StoreID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	ip := strings.TrimSpace(input.ClientIP)
	if ip == "" {
		ip = "unknown"
	}
	ipHash := util.HashIP(s.ipHashKey, ip)
	now := s.now().UTC()

	// best-effort: two identical requests racing here can both pass
	exists, err := s.verificationRepo.ExistsSince(store.ID, ipHash, now.Add(-verificationCooldown))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrVerificationRateLimited
	}

	flagClosed := vt == model.VerificationReportClosed
	v := &model.StoreVerification{
		StoreID:          store.ID,
		VerificationType: vt,
		SubmitterIP:      ipHash,
		Notes:            strings.TrimSpace(input.Notes),
		CreatedAt:        now,
	}
	if err := s.verificationRepo.Record(v, flagClosed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	logger.Info("Store verification recorded", map[string]interface{}{
		"store_id": store.ID,
		"type":     vt,
	})

	message := ConfirmedMessage
	if flagClosed {
		message = ReportedMessage
		s.feed.Publish(EventStoreFlagged, map[string]interface{}{
			"store_id": store.ID,
			"name":     store.Name,
			"city":     store.City,
			"state":    store.State,
		})
	}

	confirmations, err := s.Confirmations(store.ID)
	if err != nil {
		// the verification is already stored
		confirmations = 0
	}
	return &VerificationResult{Message: message, Confirmations: confirmations}, nil
}

// Confirmations counts still_open reports over the last 90 days.
func (s *verificationService) Confirmations(storeID uint) (int64, error) {
	count, err := s.verificationRepo.CountSince(storeID, model.VerificationStillOpen, s.now().UTC().Add(-confirmationWindow))
	if err != nil {
		logger.Error("Failed to count confirmations", err, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, err
	}
	return count, nil
}
