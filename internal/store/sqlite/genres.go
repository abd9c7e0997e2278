package sqlite

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
)

type genreRow struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
	Slug string `db:"slug"`
}

func toGenres(rows []genreRow) []domain.Genre {
	genres := make([]domain.Genre, len(rows))
	for i, r := range rows {
		genres[i] = domain.Genre{ID: r.ID, Name: r.Name, Slug: r.Slug}
	}
	return genres
}

// CreateGenre inserts a genre and sets its ID.
func (s *Store) CreateGenre(ctx context.Context, g *domain.Genre) error {
	res, err := s.conn(ctx).ExecContext(ctx, `INSERT INTO genres (name, slug) VALUES (?, ?)`, g.Name, g.Slug)
	if err != nil {
		return mapError(err)
	}
	g.ID, err = res.LastInsertId()
	return err
}

// ListGenres returns all genres ordered by name.
func (s *Store) ListGenres(ctx context.Context) ([]domain.Genre, error) {
	var rows []genreRow
	if err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, `SELECT id, name, slug FROM genres ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return toGenres(rows), nil
}

// GetGenresForBook returns the genres linked to a book, ordered by name.
func (s *Store) GetGenresForBook(ctx context.Context, bookID int64) ([]domain.Genre, error) {
	var rows []genreRow
	err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, `
		SELECT g.id, g.name, g.slug
		FROM genres g
		JOIN books_genres bg ON bg.genre_id = g.id
		WHERE bg.book_id = ?
		ORDER BY g.name`, bookID)
	if err != nil {
		return nil, fmt.Errorf("genres for book %d: %w", bookID, err)
	}
	return toGenres(rows), nil
}

// replaceBookGenres drops every link for the book and inserts genreIDs.
// Must run inside a transaction.
func (s *Store) replaceBookGenres(ctx context.Context, bookID int64, genreIDs []int64) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM books_genres WHERE book_id = ?`, bookID); err != nil {
		return fmt.Errorf("clear genres: %w", err)
	}
	if len(genreIDs) == 0 {
		return nil
	}

	insert := sq.Insert("books_genres").
		Columns("book_id", "genre_id").
		Options("OR IGNORE").
		PlaceholderFormat(sq.Question)
	for _, gid := range genreIDs {
		insert = insert.Values(bookID, gid)
	}

	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("build genre insert: %w", err)
	}
	if _, err := s.conn(ctx).ExecContext(ctx, query, args...); err != nil {
		return mapError(err)
	}
	return nil
}
