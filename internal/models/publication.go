package models

import "time"

type Publication struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"unique;not null" json:"title"`
	CreatorID int       `gorm:"index;not null" json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
