package loader

import (
	"time"

	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/models"
)

const (
	defaultWait     = 2 * time.Millisecond
	defaultMaxBatch = 100
)

// VoteKey identifies one user's vote on one post.
type VoteKey struct {
	UserID int
	PostID int
}

// Loaders bundles the per-request entity loaders. A fresh bundle must be
// created for every inbound request: resolved values go stale across
// requests and one user's vote rows must never leak into another
// request's response.
type Loaders struct {
	Users        *Loader[int, *models.User]
	Posts        *Loader[int, *models.Post]
	Categories   *Loader[int, *models.Category]
	Publications *Loader[int, *models.Publication]
	Votes        *Loader[VoteKey, *models.Vote]
}

func NewLoaders(db *gorm.DB) *Loaders {
	return &Loaders{
		Users:        NewUserLoader(db),
		Posts:        NewPostLoader(db),
		Categories:   NewCategoryLoader(db),
		Publications: NewPublicationLoader(db),
		Votes:        NewVoteLoader(db),
	}
}

// NewUserLoader batches creator lookups over a page of posts into one
// SELECT ... WHERE id IN (...).
func NewUserLoader(db *gorm.DB) *Loader[int, *models.User] {
	return New(Config[int, *models.User]{
		Wait:     defaultWait,
		MaxBatch: defaultMaxBatch,
		Fetch: func(ids []int) ([]*models.User, []error) {
			var rows []*models.User
			if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
				return nil, []error{err}
			}
			byID := make(map[int]*models.User, len(rows))
			for _, u := range rows {
				byID[u.ID] = u
			}
			users := make([]*models.User, len(ids))
			for i, id := range ids {
				users[i] = byID[id]
			}
			return users, nil
		},
	})
}

func NewPostLoader(db *gorm.DB) *Loader[int, *models.Post] {
	return New(Config[int, *models.Post]{
		Wait:     defaultWait,
		MaxBatch: defaultMaxBatch,
		Fetch: func(ids []int) ([]*models.Post, []error) {
			var rows []*models.Post
			if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
				return nil, []error{err}
			}
			byID := make(map[int]*models.Post, len(rows))
			for _, p := range rows {
				byID[p.ID] = p
			}
			posts := make([]*models.Post, len(ids))
			for i, id := range ids {
				posts[i] = byID[id]
			}
			return posts, nil
		},
	})
}

func NewCategoryLoader(db *gorm.DB) *Loader[int, *models.Category] {
	return New(Config[int, *models.Category]{
		Wait:     defaultWait,
		MaxBatch: defaultMaxBatch,
		Fetch: func(ids []int) ([]*models.Category, []error) {
			var rows []*models.Category
			if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
				return nil, []error{err}
			}
			byID := make(map[int]*models.Category, len(rows))
			for _, cat := range rows {
				byID[cat.ID] = cat
			}
			categories := make([]*models.Category, len(ids))
			for i, id := range ids {
				categories[i] = byID[id]
			}
			return categories, nil
		},
	})
}

func NewPublicationLoader(db *gorm.DB) *Loader[int, *models.Publication] {
	return New(Config[int, *models.Publication]{
		Wait:     defaultWait,
		MaxBatch: defaultMaxBatch,
		Fetch: func(ids []int) ([]*models.Publication, []error) {
			var rows []*models.Publication
			if err := db.Where("id IN ?", ids).Find(&rows).Error; err != nil {
				return nil, []error{err}
			}
			byID := make(map[int]*models.Publication, len(rows))
			for _, pub := range rows {
				byID[pub.ID] = pub
			}
			publications := make([]*models.Publication, len(ids))
			for i, id := range ids {
				publications[i] = byID[id]
			}
			return publications, nil
		},
	})
}

// NewVoteLoader batches the voteStatus lookups for a page of posts into
// one SELECT over (user_id, post_id) tuples. A key with no row resolves
// to nil, which the handler layer renders as a null vote status.
func NewVoteLoader(db *gorm.DB) *Loader[VoteKey, *models.Vote] {
	return New(Config[VoteKey, *models.Vote]{
		Wait:     defaultWait,
		MaxBatch: defaultMaxBatch,
		Fetch: func(keys []VoteKey) ([]*models.Vote, []error) {
			pairs := make([][]interface{}, len(keys))
			for i, key := range keys {
				pairs[i] = []interface{}{key.UserID, key.PostID}
			}
			var rows []*models.Vote
			if err := db.Where("(user_id, post_id) IN ?", pairs).Find(&rows).Error; err != nil {
				return nil, []error{err}
			}
			byKey := make(map[VoteKey]*models.Vote, len(rows))
			for _, v := range rows {
				byKey[VoteKey{UserID: v.UserID, PostID: v.PostID}] = v
			}
			votes := make([]*models.Vote, len(keys))
			for i, key := range keys {
				votes[i] = byKey[key]
			}
			return votes, nil
		},
	})
}
