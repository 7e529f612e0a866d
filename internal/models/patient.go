package models

import "time"

// Patient is identified by the chat account that booked, or by phone for
// bookings made elsewhere. There is no login.
type Patient struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	TelegramID *int64 `gorm:"uniqueIndex" json:"telegram_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Phone string `gorm:"size:20;index" json:"phone"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
