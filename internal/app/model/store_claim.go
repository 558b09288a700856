package model

import "time"

const (
	ClaimStatusPending  = "pending"
	ClaimStatusApproved = "approved"
	ClaimStatusRejected = "rejected"
)

const (
	ClaimantRoleOwner    = "owner"
	ClaimantRoleManager  = "manager"
	ClaimantRoleEmployee = "employee"
)

// StoreClaim is an ownership request. It leaves pending exactly once.
type StoreClaim struct {
	ID      uint  `gorm:"primarykey" json:"id"`
	StoreID uint  `gorm:"not null;index" json:"store_id"`
	Store   Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"store,omitempty"`

	ClaimantName  string `gorm:"not null" json:"claimant_name"`
	ClaimantEmail string `gorm:"not null" json:"claimant_email"`
	ClaimantRole  string `gorm:"type:varchar(20)" json:"claimant_role"`
	ClaimantPhone string `gorm:"type:varchar(30)" json:"claimant_phone"`
	Tenure        string `json:"tenure,omitempty"`
	Notes         string `gorm:"type:text" json:"notes,omitempty"`

	VerificationToken string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"-"`
	EmailVerified     bool       `gorm:"default:false" json:"email_verified"`
	Status            string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	ReviewedAt        *time.Time `json:"reviewed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoreClaim) TableName() string {
	return "store_claims"
}
