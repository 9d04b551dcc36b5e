package models

import "time"

// Todo is shared by every authenticated user; there is no owner column.
type Todo struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Task      string    `gorm:"type:varchar(100);not null" json:"task"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
