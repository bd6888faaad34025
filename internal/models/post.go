package models

import "time"

type Post struct {
	ID            int       `gorm:"primaryKey" json:"id"`
	Title         string    `gorm:"not null" json:"title"`
	Text          string    `json:"text"`
	Points        int       `gorm:"not null;default:0" json:"points"`
	CreatorID     int       `gorm:"index;not null" json:"creator_id"`
	PublicationID *int      `gorm:"index" json:"publication_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
