package vote

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tribune-social/backend/internal/models"
)

// ErrPostNotFound is returned when a vote targets a post id with no row
// behind it. The points update affecting zero rows rolls the whole cast
// back, so a vote row is never left pointing at a missing post.
var ErrPostNotFound = errors.New("post not found")

// Engine applies vote casts. The vote row mutation and the points
// adjustment always commit together or not at all.
type Engine struct {
	db *gorm.DB
}

func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// Cast applies one vote by userID on postID. Two casts racing on the
// same (user, post) pair can both take the insert path; the loser's
// unique-key violation means another writer created the row first, so
// the whole transaction is rerun once against the now-existing row.
func (e *Engine) Cast(ctx context.Context, userID, postID int, requested Direction) error {
	if !requested.Valid() {
		return fmt.Errorf("invalid vote direction %d", requested)
	}

	err := e.cast(ctx, userID, postID, requested)
	if isUniqueViolation(err) {
		err = e.cast(ctx, userID, postID, requested)
	}
	return err
}

func (e *Engine) cast(ctx context.Context, userID, postID int, requested Direction) error {
	return e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current models.Vote
		hasVote := true
		// Lock the row so concurrent casts by the same user on the same
		// post serialize on it instead of double-applying a flip delta.
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ? AND post_id = ?", userID, postID).
			Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			hasVote = false
		} else if err != nil {
			return fmt.Errorf("loading current vote: %w", err)
		}

		change := Decide(current.Value, hasVote, requested)
		switch change.Action {
		case ActionNone:
			return nil
		case ActionInsert:
			row := models.Vote{UserID: userID, PostID: postID, Value: change.Value}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("inserting vote: %w", err)
			}
		case ActionUpdate:
			if err := tx.Model(&models.Vote{}).
				Where("user_id = ? AND post_id = ?", userID, postID).
				Update("value", change.Value).Error; err != nil {
				return fmt.Errorf("updating vote: %w", err)
			}
		}

		// Relative adjustment, never an absolute overwrite: concurrent
		// casts on the same post must not lose each other's contribution.
		res := tx.Model(&models.Post{}).
			Where("id = ?", postID).
			UpdateColumn("points", gorm.Expr("points + ?", change.Delta))
		if res.Error != nil {
			return fmt.Errorf("adjusting post points: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrPostNotFound
		}
		return nil
	})
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
