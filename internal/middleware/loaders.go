package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/loader"
)

const loadersKey = "loaders"

// Loaders installs a fresh loader bundle for every request. Bundles are
// never reused: cached entities go stale between requests and a shared
// vote cache would leak one user's rows into another user's response.
func Loaders(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loadersKey, loader.NewLoaders(db))
		c.Next()
	}
}

// GetLoaders returns the request's loader bundle.
func GetLoaders(c *gin.Context) *loader.Loaders {
	v, _ := c.Get(loadersKey)
	l, _ := v.(*loader.Loaders)
	return l
}
