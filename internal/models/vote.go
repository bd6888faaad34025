package models

import "time"

// Vote is one user's current directional opinion on one post. The pair
// (user_id, post_id) is the primary key; no row means no vote cast.
// Rows are never deleted: casting the same direction twice is a no-op and
// casting the opposite direction flips Value in place.
type Vote struct {
	UserID    int       `gorm:"primaryKey" json:"user_id"`
	PostID    int       `gorm:"primaryKey;index:idx_vote_post" json:"post_id"`
	Value     int       `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
