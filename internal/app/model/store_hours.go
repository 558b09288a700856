package model

import (
	"time"

	"github.com/lfsdirectory/lfsdirectory-backend/pkg/hours"
)

// StoreHours is one weekday row. A missing row means "call for hours",
// which is different from IsClosed.
type StoreHours struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	StoreID   uint   `gorm:"not null;uniqueIndex:idx_store_hours_day" json:"store_id"`
	DayOfWeek int    `gorm:"not null;uniqueIndex:idx_store_hours_day" json:"day_of_week"` // 0 = Sunday
	OpenTime  string `gorm:"type:varchar(8)" json:"open_time"`                             // "HH:MM"
	CloseTime string `gorm:"type:varchar(8)" json:"close_time"`
	IsClosed  bool   `gorm:"default:false" json:"is_closed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (StoreHours) TableName() string {
	return "store_hours"
}

// ToDays converts rows to the form the hours package evaluates.
func ToDays(rows []StoreHours) []hours.Day {
	days := make([]hours.Day, 0, len(rows))
	for _, r := range rows {
		days = append(days, hours.Day{
			Weekday:   r.DayOfWeek,
			OpenTime:  r.OpenTime,
			CloseTime: r.CloseTime,
			IsClosed:  r.IsClosed,
		})
	}
	return days
}
