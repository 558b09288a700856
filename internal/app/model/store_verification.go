package model

import "time"

// VerificationType is the kind of community signal.
type VerificationType string

const (
	VerificationStillOpen    VerificationType = "still_open"
	VerificationReportClosed VerificationType = "report_closed"
	VerificationVisited      VerificationType = "visited"
)

func (t VerificationType) Valid() bool {
	switch t {
	case VerificationStillOpen, VerificationReportClosed, VerificationVisited:
		return true
	}
	return false
}

// StoreVerification is an append-only community event. SubmitterIP holds a keyed hash.
type StoreVerification struct {
	ID               uint             `gorm:"primarykey" json:"id"`
	StoreID          uint             `gorm:"not null;index:idx_verif_store_ip" json:"store_id"`
	VerificationType VerificationType `gorm:"type:varchar(20);not null;index" json:"verification_type"`
	SubmitterIP      string           `gorm:"type:varchar(64);not null;index:idx_verif_store_ip" json:"-"`
	Notes            string           `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt        time.Time        `gorm:"index" json:"created_at"`
}

func (StoreVerification) TableName() string {
	return "store_verifications"
}
