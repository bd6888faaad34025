package handlers

import (
	"gorm.io/gorm"
)

// Handler combines all handler types
type Handler struct {
	Post *PostHandler
	Vote *VoteHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		Post: NewPostHandler(db),
		Vote: NewVoteHandler(db),
	}
}
