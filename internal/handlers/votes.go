package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/logger"
	"github.com/tribune-social/backend/internal/middleware"
	"github.com/tribune-social/backend/internal/models"
	"github.com/tribune-social/backend/internal/vote"
)

type VoteHandler struct {
	db     *gorm.DB
	engine *vote.Engine
}

func NewVoteHandler(db *gorm.DB) *VoteHandler {
	return &VoteHandler{db: db, engine: vote.NewEngine(db)}
}

// VotePost casts the authenticated user's vote on a post (PROTECTED).
// Casting the same direction twice is a no-op; casting the opposite
// direction flips the vote and moves the post's points by two.
func (h *VoteHandler) VotePost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Value int `json:"value" binding:"required,oneof=-1 1"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Value must be -1 or 1"})
		return
	}

	if err := h.engine.Cast(c.Request.Context(), userID, postID, vote.Direction(input.Value)); err != nil {
		if errors.Is(err, vote.ErrPostNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		logger.Get().Error("casting vote",
			zap.Int("user_id", userID),
			zap.Int("post_id", postID),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to vote"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// GetMyVotes lists the caller's votes, resolving each voted post through
// the post loader (PROTECTED).
func (h *VoteHandler) GetMyVotes(c *gin.Context) {
	userID, ok := middleware.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var votes []models.Vote
	if err := h.db.Where("user_id = ?", userID).Order("updated_at desc").Find(&votes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
		return
	}

	l := middleware.GetLoaders(c)
	thunks := make([]func() (*models.Post, error), len(votes))
	for i, v := range votes {
		thunks[i] = l.Posts.LoadThunk(v.PostID)
	}

	responses := []gin.H{}
	for i, v := range votes {
		post, err := thunks[i]()
		if err != nil {
			logger.Get().Error("resolving voted posts", zap.Int("user_id", userID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch votes"})
			return
		}
		responses = append(responses, gin.H{
			"post_id":    v.PostID,
			"value":      v.Value,
			"post":       post,
			"updated_at": v.UpdatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}
