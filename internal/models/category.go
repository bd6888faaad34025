package models

import "time"

type Category struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Points    int       `gorm:"not null;default:0" json:"points"`
	Viewed    int       `gorm:"not null;default:0" json:"viewed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostCategory links a post to a category.
type PostCategory struct {
	PostID     int       `gorm:"primaryKey" json:"post_id"`
	CategoryID int       `gorm:"primaryKey" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}
