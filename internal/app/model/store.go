package model

import (
	"database/sql/driver"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a text[] column on PostgreSQL. Other dialects store the same
// array literal ("{a,b}") in a text column so tests can run on sqlite.
type StringList []string

func (s StringList) Value() (driver.Value, error) {
	return pq.StringArray(s).Value()
}

func (s *StringList) Scan(value interface{}) error {
	return (*pq.StringArray)(s).Scan(value)
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// VerificationStatus is the moderation state of a listing.
type VerificationStatus string

const (
	StatusActive        VerificationStatus = "active"
	StatusPendingReview VerificationStatus = "pending_review"
	StatusFlaggedClosed VerificationStatus = "flagged_closed"
	StatusRejected      VerificationStatus = "rejected"
	StatusUnverified    VerificationStatus = "unverified"
)

func (s VerificationStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPendingReview, StatusFlaggedClosed, StatusRejected, StatusUnverified:
		return true
	}
	return false
}

const (
	StoreTypeIndependent = "independent"
	StoreTypeChain       = "chain"

	ListingTierFree = "free"
)

type Store struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Slug string `gorm:"uniqueIndex;not null" json:"slug"` // set once at creation
	Name string `gorm:"not null;index" json:"name"`

	Address   string   `gorm:"type:text" json:"address"`
	City      string   `gorm:"not null;index" json:"city"`
	State     string   `gorm:"type:varchar(2);not null;index" json:"state"`
	Zip       string   `gorm:"type:varchar(10)" json:"zip"`
	Latitude  *float64 `gorm:"index" json:"latitude"`
	Longitude *float64 `gorm:"index" json:"longitude"`
	Timezone  string   `gorm:"type:varchar(64)" json:"timezone,omitempty"` // IANA name, empty means the server default

	Phone   string `gorm:"type:varchar(30)" json:"phone"`
	Website string `json:"website"`
	Email   string `json:"email"`

	Description   string     `gorm:"type:text" json:"description"`
	SpecialtyTags StringList `json:"specialty_tags"`
	Services      StringList `json:"services"`
	Supplies      StringList `json:"supplies"`
	StoreType     string     `gorm:"type:varchar(20);default:'independent'" json:"store_type"`
	PriceLevel    *int       `json:"price_level,omitempty"` // 1..4
	ListingTier   string     `gorm:"type:varchar(20);default:'free'" json:"listing_tier"`

	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	VerificationStatus VerificationStatus `gorm:"type:varchar(20);default:'pending_review';index" json:"verification_status"`
	IsReviewed         bool               `gorm:"default:false;index" json:"is_reviewed"`
	IsClaimed          bool               `gorm:"default:false;index" json:"is_claimed"`
	IsVerified         bool               `gorm:"default:false" json:"is_verified"`
	IsActive           bool               `gorm:"default:false;index" json:"is_active"`
	ClaimedAt          *time.Time         `json:"claimed_at,omitempty"`
	LastVerifiedAt     *time.Time         `json:"last_verified_at,omitempty"`

	// Google Places photo resource names or uploaded photo URLs. "__none" means checked, no photos.
	Photos StringList `json:"photos"`

	SubmitterName    string `json:"-"`
	SubmitterEmail   string `json:"-"`
	SubmittedByOwner bool   `gorm:"default:false" json:"submitted_by_owner"`

	Hours []StoreHours `gorm:"foreignKey:StoreID" json:"hours,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Store) TableName() string {
	return "stores"
}

// IsChain reports whether the store was recorded as a chain location.
func (s *Store) IsChain() bool {
	return s.StoreType == StoreTypeChain
}
