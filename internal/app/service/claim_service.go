package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
)

const claimTokenBytes = 32

type ClaimInput struct {
	StoreSlug string
	Name      string
	Email     string
	Role      string
	Phone     string
	Tenure    string
	Notes     string
}

type ClaimService interface {
	Submit(ctx context.Context, input ClaimInput) (*model.StoreClaim, error)
	VerifyEmail(token string) (bool, error)
	ListPending() ([]model.StoreClaim, error)
	Approve(id uint) (*model.StoreClaim, error)
	Reject(id uint) (*model.StoreClaim, error)
	BulkApprove(ids []uint) *BulkResult
	BulkReject(ids []uint) *BulkResult
}

type claimService struct {
	claimRepo repository.ClaimRepository
	storeRepo repository.StoreRepository
	mail      mailer.Sender
	mailCfg   MailConfig
	feed      FeedPublisher
	metrics   *metrics.DirectoryMetrics
	now       func() time.Time
}

func NewClaimService(
	claimRepo repository.ClaimRepository,
	storeRepo repository.StoreRepository,
	mail mailer.Sender,
	mailCfg MailConfig,
	feed FeedPublisher,
	m *metrics.DirectoryMetrics,
) ClaimService {
	return &claimService{
		claimRepo: claimRepo,
		storeRepo: storeRepo,
		mail:      mail,
		mailCfg:   mailCfg,
		feed:      feedOrNoop(feed),
		metrics:   m,
		now:       time.Now,
	}
}

func (s *claimService) Submit(ctx context.Context, input ClaimInput) (claim *model.StoreClaim, err error) {
	defer func() { record(s.metrics, "claim", err) }()

	input.StoreSlug = strings.TrimSpace(input.StoreSlug)
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))

	fields := fieldErrors{}
	fields.required("storeSlug", input.StoreSlug)
	fields.required("name", input.Name)
	fields.required("email", input.Email)
	if _, bad := fields["email"]; !bad && !util.IsValidEmail(input.Email) {
		fields["email"] = "must be a valid email address"
	}
	switch input.Role {
	case "", model.ClaimantRoleOwner, model.ClaimantRoleManager, model.ClaimantRoleEmployee:
	default:
		fields["role"] = "must be one of: owner manager employee"
	}
	if err := fields.err(); err != nil {
		return nil, err
	}

	store, err := s.storeRepo.FindBySlug(input.StoreSlug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	if store.IsClaimed {
		return nil, ErrStoreAlreadyClaimed
	}

	token, err := util.GenerateToken(claimTokenBytes)
	if err != nil {
		logger.Error("Failed to generate claim token", err)
		return nil, err
	}

	claim = &model.StoreClaim{
		StoreID:           store.ID,
		ClaimantName:      input.Name,
		ClaimantEmail:     input.Email,
		ClaimantRole:      input.Role,
		ClaimantPhone:     strings.TrimSpace(input.Phone),
		Tenure:            strings.TrimSpace(input.Tenure),
		Notes:             strings.TrimSpace(input.Notes),
		VerificationToken: token,
		Status:            model.ClaimStatusPending,
	}
	if err := s.claimRepo.Create(claim); err != nil {
		return nil, err
	}

	logger.Info("Store claim submitted", map[string]interface{}{
		"claim_id": claim.ID,
		"store_id": store.ID,
	})

	verifyURL := s.mailCfg.APIURL + "/api/v1/claims/verify?token=" + token
	subject, body := mailer.ClaimVerification(input.Name, store.Name, verifyURL)
	deliver(ctx, s.mail, mailer.Message{To: []string{input.Email}, Subject: subject, HTML: body},
		map[string]interface{}{"claim_id": claim.ID})

	s.feed.Publish(EventClaimSubmitted, map[string]interface{}{
		"claim_id":   claim.ID,
		"store_id":   store.ID,
		"store_name": store.Name,
		"claimant":   claim.ClaimantName,
	})

	claim.Store = *store
	return claim, nil
}

// VerifyEmail consumes a claim token. It reports false for a missing, unknown or already used token.
func (s *claimService) VerifyEmail(token string) (bool, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, nil
	}
	ok, err := s.claimRepo.MarkEmailVerified(token)
	if err != nil {
		logger.Error("Failed to verify claim email", err)
		return false, err
	}
	if ok {
		logger.Info("Claim email verified")
	}
	return ok, nil
}

func (s *claimService) ListPending() ([]model.StoreClaim, error) {
	return s.claimRepo.ListByStatus(model.ClaimStatusPending)
}

func (s *claimService) Approve(id uint) (*model.StoreClaim, error) {
	claim, err := s.claimRepo.Approve(id, s.now())
	if err != nil {
		return nil, mapClaimError(err)
	}
	logger.Info("Claim approved", map[string]interface{}{
		"claim_id": claim.ID,
		"store_id": claim.StoreID,
	})
	return claim, nil
}

func (s *claimService) Reject(id uint) (*model.StoreClaim, error) {
	claim, err := s.claimRepo.Reject(id, s.now())
	if err != nil {
		return nil, mapClaimError(err)
	}
	logger.Info("Claim rejected", map[string]interface{}{
		"claim_id": claim.ID,
	})
	return claim, nil
}

func (s *claimService) BulkApprove(ids []uint) *BulkResult {
	return runBulk(ids, func(id uint) error {
		_, err := s.Approve(id)
		return err
	})
}

func (s *claimService) BulkReject(ids []uint) *BulkResult {
	return runBulk(ids, func(id uint) error {
		_, err := s.Reject(id)
		return err
	})
}

func mapClaimError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrClaimNotFound
	case errors.Is(err, repository.ErrNotPending):
		return ErrClaimAlreadyReviewed
	}
	return err
}
