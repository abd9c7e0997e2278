package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
)

type reviewRow struct {
	ID        int64  `db:"id"`
	BookID    int64  `db:"book_id"`
	UserID    int64  `db:"user_id"`
	UserLogin string `db:"login"`
	Rating    int    `db:"rating"`
	Text      string `db:"text"`
	CreatedAt string `db:"created_at"`
}

// ListReviews returns a book's reviews, oldest first, with each reviewer's login.
func (s *Store) ListReviews(ctx context.Context, bookID int64) ([]*domain.Review, error) {
	var rows []reviewRow
	err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, `
		SELECT r.id, r.book_id, r.user_id, u.login, r.rating, r.text, r.created_at
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.book_id = ?
		ORDER BY r.created_at, r.id`, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for book %d: %w", bookID, err)
	}

	reviews := make([]*domain.Review, 0, len(rows))
	for _, r := range rows {
		created, err := parseTime(r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("parse created_at: %w", err)
		}
		reviews = append(reviews, &domain.Review{
			ID:        r.ID,
			BookID:    r.BookID,
			UserID:    r.UserID,
			UserLogin: r.UserLogin,
			Rating:    r.Rating,
			Text:      r.Text,
			CreatedAt: created,
		})
	}
	return reviews, nil
}

// CreateReview inserts a review and sets its ID. Several reviews by the same
// user on one book are allowed.
func (s *Store) CreateReview(ctx context.Context, r *domain.Review) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}

	res, err := s.conn(ctx).ExecContext(ctx, `
		INSERT INTO reviews (book_id, user_id, rating, text, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.BookID, r.UserID, r.Rating, r.Text, formatTime(r.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}

	r.ID, err = res.LastInsertId()
	return err
}

// DeleteReview removes a review of the given book. Deleting a missing review
// is not an error.
func (s *Store) DeleteReview(ctx context.Context, bookID, reviewID int64) error {
	_, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM reviews WHERE id = ? AND book_id = ?`, reviewID, bookID)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", reviewID, err)
	}
	return nil
}
