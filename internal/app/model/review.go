package model

import "time"

const (
	ReviewStatusPending  = "pending"
	ReviewStatusApproved = "approved"
	ReviewStatusRejected = "rejected"
)

// Review is a visitor review. Only approved reviews count toward Store.Rating.
type Review struct {
	ID      uint  `gorm:"primarykey" json:"id"`
	StoreID uint  `gorm:"not null;index" json:"store_id"`
	Store   Store `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE" json:"store,omitempty"`

	Rating      int    `gorm:"not null" json:"rating"` // 1..5
	Comment     string `gorm:"type:text" json:"comment"`
	AuthorName  string `gorm:"not null" json:"author_name"`
	AuthorEmail string `json:"-"`
	Status      string `gorm:"type:varchar(20);default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Review) TableName() string {
	return "reviews"
}
