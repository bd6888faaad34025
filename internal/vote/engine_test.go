package vote

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/models"
	"github.com/tribune-social/backend/internal/testdb"
)

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := testdb.New(t)
	return NewEngine(db), db
}

func seedUser(t *testing.T, db *gorm.DB, name string) models.User {
	t.Helper()
	user := models.User{Username: name, Email: name + "@example.com"}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, creatorID int) models.Post {
	t.Helper()
	post := models.Post{Title: "a post", Text: "body", CreatorID: creatorID}
	require.NoError(t, db.Create(&post).Error)
	return post
}

func postPoints(t *testing.T, db *gorm.DB, postID int) int {
	t.Helper()
	var post models.Post
	require.NoError(t, db.First(&post, postID).Error)
	return post.Points
}

func voteRows(t *testing.T, db *gorm.DB, postID int) []models.Vote {
	t.Helper()
	var votes []models.Vote
	require.NoError(t, db.Where("post_id = ?", postID).Find(&votes).Error)
	return votes
}

func TestCastFirstVote(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "alice")
	post := seedPost(t, db, user.ID)

	assert.Equal(t, 0, postPoints(t, db, post.ID), "a post with no votes scores zero")

	require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Up))

	assert.Equal(t, 1, postPoints(t, db, post.ID))
	rows := voteRows(t, db, post.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].Value)
}

func TestCastIsIdempotent(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "bob")
	post := seedPost(t, db, user.ID)

	for i := 0; i < 3; i++ {
		require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Up))
	}

	assert.Equal(t, 1, postPoints(t, db, post.ID), "repeated same-direction casts apply once")
	assert.Len(t, voteRows(t, db, post.ID), 1)
}

func TestCastFlipAppliesDoubleDelta(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "carol")
	post := seedPost(t, db, user.ID)

	require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Up))
	require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Down))

	assert.Equal(t, -1, postPoints(t, db, post.ID), "up then down nets -1")
	rows := voteRows(t, db, post.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, -1, rows[0].Value)

	require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Up))
	assert.Equal(t, 1, postPoints(t, db, post.ID), "down then up nets +2")
}

func TestCastUnknownPostRollsBack(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "dave")

	err := engine.Cast(ctx, user.ID, 99999, Up)
	assert.ErrorIs(t, err, ErrPostNotFound)

	assert.Empty(t, voteRows(t, db, 99999), "no vote row survives a failed cast")
}

func TestCastInvalidDirection(t *testing.T) {
	// validation happens before the store is touched
	engine := NewEngine(nil)

	err := engine.Cast(context.Background(), 1, 1, Direction(0))
	assert.Error(t, err)
}

func TestConcurrentDistinctUsers(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()

	creator := seedUser(t, db, "creator")
	post := seedPost(t, db, creator.ID)

	const voters = 20
	users := make([]models.User, voters)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("voter%d", i))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, user := range users {
		g.Go(func() error {
			return engine.Cast(gctx, user.ID, post.ID, Up)
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, voters, postPoints(t, db, post.ID))
	assert.Len(t, voteRows(t, db, post.ID), voters)
}

func TestConcurrentSameUserSameDirection(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "erin")
	post := seedPost(t, db, user.ID)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			return engine.Cast(gctx, user.ID, post.ID, Up)
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, 1, postPoints(t, db, post.ID), "racing first votes must not double-count")
	assert.Len(t, voteRows(t, db, post.ID), 1)
}

func TestConcurrentFlipsSerialize(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()
	user := seedUser(t, db, "frank")
	post := seedPost(t, db, user.ID)

	require.NoError(t, engine.Cast(ctx, user.ID, post.ID, Up))

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			return engine.Cast(gctx, user.ID, post.ID, Down)
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, -1, postPoints(t, db, post.ID), "the -2 flip delta applies exactly once")
	rows := voteRows(t, db, post.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, -1, rows[0].Value)
}

// The incremental points column must always equal a from-scratch sum of
// the vote rows, whatever sequence of casts produced it.
func TestPointsMatchVoteSum(t *testing.T) {
	engine, db := newTestEngine(t)
	ctx := context.Background()

	creator := seedUser(t, db, "seed")
	post := seedPost(t, db, creator.ID)

	rng := rand.New(rand.NewSource(42))
	users := make([]models.User, 5)
	for i := range users {
		users[i] = seedUser(t, db, fmt.Sprintf("rand%d", i))
	}

	for i := 0; i < 50; i++ {
		user := users[rng.Intn(len(users))]
		dir := Up
		if rng.Intn(2) == 0 {
			dir = Down
		}
		require.NoError(t, engine.Cast(ctx, user.ID, post.ID, dir))
	}

	var sum int
	require.NoError(t, db.Model(&models.Vote{}).
		Where("post_id = ?", post.ID).
		Select("COALESCE(SUM(value), 0)").
		Scan(&sum).Error)

	assert.Equal(t, sum, postPoints(t, db, post.ID))
}
