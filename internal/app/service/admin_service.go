package service

import (
	"context"
	"errors"
	"strings"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/storage"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
	"gorm.io/gorm"
)

const (
	adminPageSize   = 25
	dashboardRecent = 10
	ActionApprove   = "approve"
	ActionKeep      = "keep"
	ActionReject    = "reject"
)

type Dashboard struct {
	Total          int64         `json:"total"`
	FlaggedClosed  int64         `json:"flagged_closed"`
	PendingReview  int64         `json:"pending_review"`
	Claimed        int64         `json:"claimed"`
	Unclaimed      int64         `json:"unclaimed"`
	PendingClaims  int64         `json:"pending_claims"`
	PendingReviews int64         `json:"pending_reviews"`
	Flagged        []model.Store `json:"flagged"`
	Recent         []model.Store `json:"recent"`
}

type StoreTablePage struct {
	Stores     []model.Store `json:"stores"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalPages int           `json:"total_pages"`
}

// StoreUpdate is a partial edit. Nil fields are left alone. The slug is not editable.
type StoreUpdate struct {
	Name               *string
	Address            *string
	City               *string
	State              *string
	Zip                *string
	Latitude           *float64
	Longitude          *float64
	Timezone           *string
	Phone              *string
	Website            *string
	Email              *string
	Description        *string
	SpecialtyTags      *[]string
	Services           *[]string
	Supplies           *[]string
	StoreType          *string
	PriceLevel         *int
	VerificationStatus *string
	IsReviewed         *bool
	IsVerified         *bool
	IsActive           *bool
	Hours              *[]HoursInput
}

type AdminService interface {
	Dashboard() (*Dashboard, error)
	ModerationQueue() ([]model.Store, error)
	ModerateStore(id uint, action string) (*model.Store, error)
	ListStores(search string, page int) (*StoreTablePage, error)
	GetStore(id uint) (*model.Store, error)
	UpdateStore(id uint, input StoreUpdate) (*model.Store, error)
	DeleteStore(id uint) error
	BulkDelete(ids []uint) *BulkResult
	BulkSetStatus(ids []uint, status string) (*BulkResult, error)
	PresignPhoto(ctx context.Context, storeID uint, contentType string) (*storage.PresignedURLResponse, error)
	AttachPhoto(storeID uint, url string) (*model.Store, error)
}

type adminService struct {
	storeRepo  repository.StoreRepository
	claimRepo  repository.ClaimRepository
	reviewRepo repository.ReviewRepository
	photos     storage.PhotoStorage
}

// NewAdminService wires the back-office. photos may be nil when S3 is not configured.
func NewAdminService(
	storeRepo repository.StoreRepository,
	claimRepo repository.ClaimRepository,
	reviewRepo repository.ReviewRepository,
	photos storage.PhotoStorage,
) AdminService {
	return &adminService{
		storeRepo:  storeRepo,
		claimRepo:  claimRepo,
		reviewRepo: reviewRepo,
		photos:     photos,
	}
}

func (s *adminService) Dashboard() (*Dashboard, error) {
	d := &Dashboard{}
	counts := []struct {
		dst   *int64
		query interface{}
		args  []interface{}
	}{
		{dst: &d.Total},
		{dst: &d.FlaggedClosed, query: "verification_status = ?", args: []interface{}{model.StatusFlaggedClosed}},
		{dst: &d.PendingReview, query: "verification_status = ?", args: []interface{}{model.StatusPendingReview}},
		{dst: &d.Claimed, query: "is_claimed = ?", args: []interface{}{true}},
		{dst: &d.Unclaimed, query: "is_claimed = ?", args: []interface{}{false}},
	}
	for _, c := range counts {
		n, err := s.storeRepo.Count(c.query, c.args...)
		if err != nil {
			logger.Error("Failed to load dashboard counts", err)
			return nil, err
		}
		*c.dst = n
	}

	var err error
	if d.PendingClaims, err = s.claimRepo.CountByStatus(model.ClaimStatusPending); err != nil {
		return nil, err
	}
	if d.PendingReviews, err = s.reviewRepo.CountByStatus(model.ReviewStatusPending); err != nil {
		return nil, err
	}
	if d.Flagged, err = s.storeRepo.FindByStatuses(model.StatusFlaggedClosed); err != nil {
		return nil, err
	}
	if d.Recent, err = s.storeRepo.Recent(dashboardRecent); err != nil {
		return nil, err
	}
	if d.Flagged == nil {
		d.Flagged = []model.Store{}
	}
	if d.Recent == nil {
		d.Recent = []model.Store{}
	}
	return d, nil
}

func (s *adminService) ModerationQueue() ([]model.Store, error) {
	stores, err := s.storeRepo.FindByStatuses(model.StatusPendingReview, model.StatusFlaggedClosed)
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []model.Store{}
	}
	return stores, nil
}

func (s *adminService) ModerateStore(id uint, action string) (*model.Store, error) {
	var fields map[string]interface{}
	switch action {
	case ActionApprove:
		fields = statusFields(model.StatusActive)
	case ActionKeep:
		fields = statusFields(model.StatusPendingReview)
	case ActionReject:
		fields = statusFields(model.StatusRejected)
	default:
		return nil, ErrInvalidAction
	}

	if err := s.storeRepo.Update(id, fields); err != nil {
		return nil, mapStoreError(err)
	}
	logger.Info("Store moderated", map[string]interface{}{
		"store_id": id,
		"action":   action,
	})
	return s.GetStore(id)
}

// statusFields keeps the flags that follow from a status change in step with it.
func statusFields(status model.VerificationStatus) map[string]interface{} {
	fields := map[string]interface{}{"verification_status": status}
	switch status {
	case model.StatusActive:
		fields["is_reviewed"] = true
		fields["is_active"] = true
	case model.StatusRejected:
		fields["is_active"] = false
	}
	return fields
}

func (s *adminService) ListStores(search string, page int) (*StoreTablePage, error) {
	if page < 1 {
		page = 1
	}
	stores, total, err := s.storeRepo.List(repository.StoreListFilter{
		Search:   search,
		Page:     page,
		PageSize: adminPageSize,
	})
	if err != nil {
		return nil, err
	}
	if stores == nil {
		stores = []model.Store{}
	}
	return &StoreTablePage{
		Stores:     stores,
		Total:      total,
		Page:       page,
		PageSize:   adminPageSize,
		TotalPages: int((total + adminPageSize - 1) / adminPageSize),
	}, nil
}

func (s *adminService) GetStore(id uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(id)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return store, nil
}

func (s *adminService) UpdateStore(id uint, input StoreUpdate) (*model.Store, error) {
	fields, err := updateFields(input)
	if err != nil {
		return nil, err
	}

	var rows []model.StoreHours
	if input.Hours != nil {
		if rows, err = hoursRows(*input.Hours); err != nil {
			return nil, err
		}
	}

	if len(fields) > 0 {
		if err := s.storeRepo.Update(id, fields); err != nil {
			return nil, mapStoreError(err)
		}
	} else if _, err := s.GetStore(id); err != nil {
		return nil, err
	}

	if input.Hours != nil {
		if err := s.storeRepo.ReplaceHours(id, rows); err != nil {
			return nil, err
		}
	}

	logger.Info("Store updated by admin", map[string]interface{}{
		"store_id": id,
		"fields":   len(fields),
		"hours":    input.Hours != nil,
	})
	return s.GetStore(id)
}

func updateFields(in StoreUpdate) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	problems := fieldErrors{}

	setString := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	setList := func(column string, v *[]string) {
		if v != nil {
			fields[column] = model.StringList(compact(*v))
		}
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		problems["name"] = "is required"
	}
	if in.City != nil && strings.TrimSpace(*in.City) == "" {
		problems["city"] = "is required"
	}
	setString("name", in.Name)
	setString("address", in.Address)
	setString("city", in.City)
	setString("zip", in.Zip)
	setString("timezone", in.Timezone)
	setString("phone", in.Phone)
	setString("website", in.Website)
	setString("email", in.Email)
	setString("description", in.Description)
	setList("specialty_tags", in.SpecialtyTags)
	setList("services", in.Services)
	setList("supplies", in.Supplies)

	if in.State != nil {
		st, ok := util.LookupState(*in.State)
		if !ok {
			problems["state"] = "must be a US state"
		} else {
			fields["state"] = st.Abbr
		}
	}
	if in.StoreType != nil {
		switch *in.StoreType {
		case model.StoreTypeIndependent, model.StoreTypeChain:
			fields["store_type"] = *in.StoreType
		default:
			problems["store_type"] = "must be one of: independent chain"
		}
	}
	if in.PriceLevel != nil {
		if *in.PriceLevel < 1 || *in.PriceLevel > 4 {
			problems["price_level"] = "must be between 1 and 4"
		} else {
			fields["price_level"] = *in.PriceLevel
		}
	}
	if in.Latitude != nil {
		fields["latitude"] = *in.Latitude
	}
	if in.Longitude != nil {
		fields["longitude"] = *in.Longitude
	}
	if in.VerificationStatus != nil {
		status := model.VerificationStatus(*in.VerificationStatus)
		if !status.Valid() {
			problems["verification_status"] = "is invalid"
		} else {
			fields["verification_status"] = status
		}
	}
	if in.IsReviewed != nil {
		fields["is_reviewed"] = *in.IsReviewed
	}
	if in.IsVerified != nil {
		fields["is_verified"] = *in.IsVerified
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}

	if err := problems.err(); err != nil {
		return nil, err
	}
	return fields, nil
}

func (s *adminService) DeleteStore(id uint) error {
	if err := s.storeRepo.Delete(id); err != nil {
		return mapStoreError(err)
	}
	logger.Info("Store deleted by admin", map[string]interface{}{
		"store_id": id,
	})
	return nil
}

func (s *adminService) BulkDelete(ids []uint) *BulkResult {
	return runBulk(ids, s.DeleteStore)
}

func (s *adminService) BulkSetStatus(ids []uint, status string) (*BulkResult, error) {
	vs := model.VerificationStatus(status)
	if !vs.Valid() {
		return nil, ErrInvalidStatus
	}
	return runBulk(ids, func(id uint) error {
		if err := s.storeRepo.Update(id, statusFields(vs)); err != nil {
			return mapStoreError(err)
		}
		return nil
	}), nil
}

func (s *adminService) PresignPhoto(ctx context.Context, storeID uint, contentType string) (*storage.PresignedURLResponse, error) {
	if s.photos == nil {
		return nil, ErrStorageUnavailable
	}
	if _, err := s.GetStore(storeID); err != nil {
		return nil, err
	}
	res, err := s.photos.PresignStorePhoto(ctx, storeID, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedContentType) {
			return nil, ErrUnsupportedContentType
		}
		logger.Error("Failed to presign photo upload", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, err
	}
	return res, nil
}

// AttachPhoto records an uploaded photo URL on the store, replacing the no-photos sentinel.
func (s *adminService) AttachPhoto(storeID uint, url string) (*model.Store, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, &ValidationError{Fields: map[string]string{"file_url": "is required"}}
	}
	store, err := s.GetStore(storeID)
	if err != nil {
		return nil, err
	}

	photos := make(model.StringList, 0, len(store.Photos)+1)
	for _, p := range store.Photos {
		if p != util.NoPhotosSentinel && p != url {
			photos = append(photos, p)
		}
	}
	if len(photos) >= util.MaxStorePhotos {
		return nil, &ValidationError{Fields: map[string]string{"file_url": "store already has the maximum number of photos"}}
	}
	photos = append(photos, url)

	if err := s.storeRepo.Update(storeID, map[string]interface{}{"photos": photos}); err != nil {
		return nil, mapStoreError(err)
	}
	return s.GetStore(storeID)
}

func mapStoreError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrStoreNotFound
	}
	return err
}
