package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tribune-social/backend/internal/models"
	"github.com/tribune-social/backend/internal/testdb"
)

func newTestLoaders(t *testing.T) (*Loaders, *gorm.DB) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	db := testdb.New(t)
	return NewLoaders(db), db
}

func TestUserLoaderAlignsAndFillsGaps(t *testing.T) {
	loaders, db := newTestLoaders(t)

	ada := models.User{Username: "ada", Email: "ada@example.com"}
	grace := models.User{Username: "grace", Email: "grace@example.com"}
	require.NoError(t, db.Create(&ada).Error)
	require.NoError(t, db.Create(&grace).Error)

	users, errs := loaders.Users.LoadAll([]int{grace.ID, 99999, ada.ID, grace.ID})
	for _, err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, users, 4)
	assert.Equal(t, "grace", users[0].Username)
	assert.Nil(t, users[1], "a missing id resolves to nil, not an error")
	assert.Equal(t, "ada", users[2].Username)
	assert.Equal(t, "grace", users[3].Username)
}

func TestVoteLoaderCompositeKeys(t *testing.T) {
	loaders, db := newTestLoaders(t)

	user := models.User{Username: "voter", Email: "voter@example.com"}
	require.NoError(t, db.Create(&user).Error)
	post := models.Post{Title: "t", CreatorID: user.ID}
	other := models.Post{Title: "u", CreatorID: user.ID}
	require.NoError(t, db.Create(&post).Error)
	require.NoError(t, db.Create(&other).Error)
	require.NoError(t, db.Create(&models.Vote{UserID: user.ID, PostID: post.ID, Value: 1}).Error)

	votes, errs := loaders.Votes.LoadAll([]VoteKey{
		{UserID: user.ID, PostID: post.ID},
		{UserID: user.ID, PostID: other.ID},
	})
	for _, err := range errs {
		require.NoError(t, err)
	}

	require.Len(t, votes, 2)
	require.NotNil(t, votes[0])
	assert.Equal(t, 1, votes[0].Value)
	assert.Nil(t, votes[1], "no row means no vote cast")
}

func TestPostCategoryPublicationLoaders(t *testing.T) {
	loaders, db := newTestLoaders(t)

	user := models.User{Username: "author", Email: "author@example.com"}
	require.NoError(t, db.Create(&user).Error)
	publication := models.Publication{Title: "the weekly", CreatorID: user.ID}
	require.NoError(t, db.Create(&publication).Error)
	category := models.Category{Title: "go"}
	require.NoError(t, db.Create(&category).Error)
	post := models.Post{Title: "t", CreatorID: user.ID, PublicationID: &publication.ID}
	require.NoError(t, db.Create(&post).Error)

	gotPost, err := loaders.Posts.Load(post.ID)
	require.NoError(t, err)
	require.NotNil(t, gotPost)
	assert.Equal(t, post.Title, gotPost.Title)

	gotCategory, err := loaders.Categories.Load(category.ID)
	require.NoError(t, err)
	require.NotNil(t, gotCategory)
	assert.Equal(t, "go", gotCategory.Title)

	gotPublication, err := loaders.Publications.Load(publication.ID)
	require.NoError(t, err)
	require.NotNil(t, gotPublication)
	assert.Equal(t, "the weekly", gotPublication.Title)

	missing, err := loaders.Publications.Load(12345)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
