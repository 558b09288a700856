package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/model"
	"github.com/lfsdirectory/lfsdirectory-backend/internal/app/repository"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/geocode"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/hours"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/logger"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/mailer"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/metrics"
	"github.com/lfsdirectory/lfsdirectory-backend/pkg/util"
)

// HoursInput is one weekday of a submitted schedule.
type HoursInput struct {
	DayOfWeek int    `json:"day_of_week"`
	OpenTime  string `json:"open_time"`
	CloseTime string `json:"close_time"`
	IsClosed  bool   `json:"is_closed"`
}

type SubmissionInput struct {
	StoreName     string
	StreetAddress string
	City          string
	State         string
	Zip           string
	Phone         string
	Website       string
	Specialties   []string
	Services      []string
	YourName      string
	YourEmail     string
	IsOwner       string // "yes" or "no"
	Notes         string
	Hours         []HoursInput
}

type SubmissionResult struct {
	StoreName string `json:"storeName"`
	City      string `json:"city"`
	State     string `json:"state"`
}

type QuickAddInput struct {
	Name        string
	Address     string
	City        string
	State       string
	Zip         string
	Phone       string
	Website     string
	Specialties []string
}

type SubmissionService interface {
	Submit(ctx context.Context, input SubmissionInput) (*SubmissionResult, error)
	QuickAdd(ctx context.Context, input QuickAddInput) (*model.Store, error)
}

type submissionService struct {
	storeRepo repository.StoreRepository
	geocoder  geocode.Geocoder
	mail      mailer.Sender
	mailCfg   MailConfig
	feed      FeedPublisher
	metrics   *metrics.DirectoryMetrics
	now       func() time.Time
}

// NewSubmissionService wires store creation. geocoder may be nil, in which case
// new stores are saved without coordinates.
func NewSubmissionService(
	storeRepo repository.StoreRepository,
	geocoder geocode.Geocoder,
	mail mailer.Sender,
	mailCfg MailConfig,
	feed FeedPublisher,
	m *metrics.DirectoryMetrics,
) SubmissionService {
	return &submissionService{
		storeRepo: storeRepo,
		geocoder:  geocoder,
		mail:      mail,
		mailCfg:   mailCfg,
		feed:      feedOrNoop(feed),
		metrics:   m,
		now:       time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, input SubmissionInput) (result *SubmissionResult, err error) {
	defer func() { record(s.metrics, "submission", err) }()

	input = trimSubmission(input)
	if err := validateSubmission(input); err != nil {
		return nil, err
	}
	rows, err := hoursRows(input.Hours)
	if err != nil {
		return nil, err
	}

	stateAbbr := util.NormalizeState(input.State)
	address := fmt.Sprintf("%s, %s, %s %s", input.StreetAddress, input.City, stateAbbr, input.Zip)

	store := &model.Store{
		Slug:               util.SubmissionSlug(input.StoreName, input.City, stateAbbr, s.now()),
		Name:               input.StoreName,
		Address:            address,
		City:               input.City,
		State:              stateAbbr,
		Zip:                input.Zip,
		Phone:              input.Phone,
		Website:            input.Website,
		Description:        input.Notes,
		SpecialtyTags:      model.StringList(input.Specialties),
		Services:           model.StringList(nonNil(input.Services)),
		StoreType:          model.StoreTypeIndependent,
		ListingTier:        model.ListingTierFree,
		VerificationStatus: model.StatusPendingReview,
		SubmitterName:      input.YourName,
		SubmitterEmail:     input.YourEmail,
		SubmittedByOwner:   input.IsOwner == "yes",
		Hours:              rows,
	}
	s.locate(ctx, store)

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to save submitted store", err, map[string]interface{}{
			"store_name": input.StoreName,
		})
		return nil, err
	}

	logger.Info("Store submitted", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
		"state":    stateAbbr,
	})

	subject, body := mailer.SubmissionConfirmation(input.YourName, input.StoreName, store.SubmittedByOwner)
	deliver(ctx, s.mail, mailer.Message{To: []string{input.YourEmail}, Subject: subject, HTML: body},
		map[string]interface{}{"store_id": store.ID})

	if s.mailCfg.AdminNotify != "" {
		subject, body = mailer.SubmissionAdminNotice(input.StoreName, input.City, stateAbbr,
			input.YourName, input.YourEmail, s.mailCfg.SiteURL+"/admin/pending")
		deliver(ctx, s.mail, mailer.Message{To: []string{s.mailCfg.AdminNotify}, Subject: subject, HTML: body},
			map[string]interface{}{"store_id": store.ID})
	}

	s.feed.Publish(EventStoreSubmitted, map[string]interface{}{
		"store_id": store.ID,
		"name":     store.Name,
		"city":     store.City,
		"state":    store.State,
	})

	return &SubmissionResult{StoreName: store.Name, City: store.City, State: stateAbbr}, nil
}

func (s *submissionService) QuickAdd(ctx context.Context, input QuickAddInput) (*model.Store, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.City = strings.TrimSpace(input.City)
	input.State = strings.TrimSpace(input.State)

	fields := fieldErrors{}
	fields.required("storeName", input.Name)
	fields.required("city", input.City)
	fields.required("state", input.State)
	if err := fields.err(); err != nil {
		return nil, err
	}

	stateAbbr := util.NormalizeState(input.State)
	store := &model.Store{
		Slug:               util.QuickAddSlug(fmt.Sprintf("%s-%s-%s", input.Name, input.City, stateAbbr), s.now()),
		Name:               input.Name,
		Address:            strings.TrimSpace(input.Address),
		City:               input.City,
		State:              stateAbbr,
		Zip:                strings.TrimSpace(input.Zip),
		Phone:              strings.TrimSpace(input.Phone),
		Website:            strings.TrimSpace(input.Website),
		SpecialtyTags:      model.StringList(nonNil(input.Specialties)),
		StoreType:          model.StoreTypeIndependent,
		ListingTier:        model.ListingTierFree,
		VerificationStatus: model.StatusPendingReview,
	}
	s.locate(ctx, store)

	if err := s.storeRepo.Create(store); err != nil {
		logger.Error("Failed to quick-add store", err, map[string]interface{}{
			"name": input.Name,
		})
		return nil, err
	}

	logger.Info("Store quick-added", map[string]interface{}{
		"store_id": store.ID,
		"slug":     store.Slug,
	})
	return store, nil
}

// locate fills coordinates from the address. Failures leave them empty.
func (s *submissionService) locate(ctx context.Context, store *model.Store) {
	if s.geocoder == nil {
		return
	}
	query := store.Address
	if query == "" {
		query = fmt.Sprintf("%s, %s", store.City, store.State)
	}
	loc, err := s.geocoder.Geocode(ctx, query)
	if err != nil {
		logger.Warn("Could not geocode new store", map[string]interface{}{
			"query": query,
			"error": err.Error(),
		})
		return
	}
	store.Latitude = &loc.Lat
	store.Longitude = &loc.Lng
}

func trimSubmission(in SubmissionInput) SubmissionInput {
	for _, p := range []*string{
		&in.StoreName, &in.StreetAddress, &in.City, &in.State, &in.Zip,
		&in.Phone, &in.Website, &in.YourName, &in.YourEmail, &in.IsOwner, &in.Notes,
	} {
		*p = strings.TrimSpace(*p)
	}
	in.Specialties = compact(in.Specialties)
	in.Services = compact(in.Services)
	return in
}

func validateSubmission(in SubmissionInput) error {
	fields := fieldErrors{}
	fields.required("storeName", in.StoreName)
	fields.required("streetAddress", in.StreetAddress)
	fields.required("city", in.City)
	fields.required("state", in.State)
	fields.required("zip", in.Zip)
	fields.required("yourName", in.YourName)
	fields.required("yourEmail", in.YourEmail)

	if _, bad := fields["yourEmail"]; !bad && !util.IsValidEmail(in.YourEmail) {
		fields["yourEmail"] = "must be a valid email address"
	}
	if _, bad := fields["zip"]; !bad && !util.IsValidZip(in.Zip) {
		fields["zip"] = "must be a 5-digit ZIP code"
	}
	if _, bad := fields["state"]; !bad {
		if _, ok := util.LookupState(in.State); !ok {
			fields["state"] = "must be a US state"
		}
	}
	if len(in.Specialties) == 0 {
		fields["specialties"] = "select at least one specialty"
	}
	return fields.err()
}

// hoursRows converts a submitted weekly schedule into rows. Days left blank are
// skipped so they read as "call for hours".
func hoursRows(in []HoursInput) ([]model.StoreHours, error) {
	if len(in) == 0 {
		return nil, nil
	}
	fields := fieldErrors{}
	seen := make(map[int]bool, len(in))
	rows := make([]model.StoreHours, 0, len(in))
	for _, h := range in {
		key := fmt.Sprintf("hours[%d]", h.DayOfWeek)
		if h.DayOfWeek < 0 || h.DayOfWeek > 6 {
			fields[key] = "day_of_week must be between 0 and 6"
			continue
		}
		if seen[h.DayOfWeek] {
			fields[key] = "duplicate day"
			continue
		}
		seen[h.DayOfWeek] = true

		open, closeAt := strings.TrimSpace(h.OpenTime), strings.TrimSpace(h.CloseTime)
		if h.IsClosed {
			rows = append(rows, model.StoreHours{DayOfWeek: h.DayOfWeek, IsClosed: true})
			continue
		}
		if open == "" && closeAt == "" {
			continue
		}
		o, okOpen := hours.ParseClock(open)
		c, okClose := hours.ParseClock(closeAt)
		if !okOpen || !okClose {
			fields[key] = "times must be HH:MM"
			continue
		}
		if c <= o {
			fields[key] = "close_time must be after open_time"
			continue
		}
		rows = append(rows, model.StoreHours{DayOfWeek: h.DayOfWeek, OpenTime: open, CloseTime: closeAt})
	}
	if err := fields.err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
