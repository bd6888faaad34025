package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/loader"
	"github.com/tribune-social/backend/internal/logger"
	"github.com/tribune-social/backend/internal/middleware"
	"github.com/tribune-social/backend/internal/models"
)

const (
	defaultPostLimit = 20
	maxPostLimit     = 50
)

type PostHandler struct {
	db *gorm.DB
}

func NewPostHandler(db *gorm.DB) *PostHandler {
	return &PostHandler{db: db}
}

// GetPosts returns the most recent posts. Creator, publication and the
// caller's vote status are resolved through the request's loaders, so
// the whole page costs one query per entity type.
func (h *PostHandler) GetPosts(c *gin.Context) {
	limit := defaultPostLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > maxPostLimit {
		limit = maxPostLimit
	}

	var posts []models.Post
	if err := h.db.Order("created_at desc").Limit(limit).Find(&posts).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	responses, err := h.renderPosts(c, posts)
	if err != nil {
		logger.Get().Error("resolving posts", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch posts"})
		return
	}

	// If no posts, return empty array not null
	if responses == nil {
		responses = []gin.H{}
	}

	c.JSON(http.StatusOK, responses)
}

// GetPost returns a single post by ID
func (h *PostHandler) GetPost(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var post models.Post
	if err := h.db.First(&post, postID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}

	responses, err := h.renderPosts(c, []models.Post{post})
	if err != nil {
		logger.Get().Error("resolving post", zap.Int("post_id", postID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch post"})
		return
	}

	c.JSON(http.StatusOK, responses[0])
}

// GetPostCategories returns the categories a post belongs to.
func (h *PostHandler) GetPostCategories(c *gin.Context) {
	postID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post id"})
		return
	}

	var links []models.PostCategory
	if err := h.db.Where("post_id = ?", postID).Find(&links).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
		return
	}

	l := middleware.GetLoaders(c)
	thunks := make([]func() (*models.Category, error), len(links))
	for i, link := range links {
		thunks[i] = l.Categories.LoadThunk(link.CategoryID)
	}

	categories := []*models.Category{}
	for _, thunk := range thunks {
		category, err := thunk()
		if err != nil {
			logger.Get().Error("resolving categories", zap.Int("post_id", postID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		if category != nil {
			categories = append(categories, category)
		}
	}

	c.JSON(http.StatusOK, categories)
}

// renderPosts builds the response items for a page of posts. All thunks
// are requested before any is resolved; that is what lets the loaders
// collapse the page into one bulk query per entity type.
func (h *PostHandler) renderPosts(c *gin.Context, posts []models.Post) ([]gin.H, error) {
	l := middleware.GetLoaders(c)
	userID, authed := middleware.CurrentUserID(c)

	creators := make([]func() (*models.User, error), len(posts))
	publications := make([]func() (*models.Publication, error), len(posts))
	votes := make([]func() (*models.Vote, error), len(posts))
	for i, post := range posts {
		creators[i] = l.Users.LoadThunk(post.CreatorID)
		if post.PublicationID != nil {
			publications[i] = l.Publications.LoadThunk(*post.PublicationID)
		}
		if authed {
			votes[i] = l.Votes.LoadThunk(loader.VoteKey{UserID: userID, PostID: post.ID})
		}
	}

	var responses []gin.H
	for i, post := range posts {
		creator, err := creators[i]()
		if err != nil {
			return nil, err
		}

		resp := gin.H{
			"id":          post.ID,
			"title":       post.Title,
			"text":        post.Text,
			"points":      post.Points,
			"creator_id":  post.CreatorID,
			"creator":     creator,
			"vote_status": nil,
			"created_at":  post.CreatedAt,
			"updated_at":  post.UpdatedAt,
		}

		if publications[i] != nil {
			publication, err := publications[i]()
			if err != nil {
				return nil, err
			}
			resp["publication"] = publication
		}

		if votes[i] != nil {
			v, err := votes[i]()
			if err != nil {
				return nil, err
			}
			if v != nil {
				resp["vote_status"] = v.Value
			}
		}

		responses = append(responses, resp)
	}
	return responses, nil
}
