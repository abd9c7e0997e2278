package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/store"
)

const bookColumns = `id, title, description, year, publisher, author, pages, cover_id, created_at, updated_at`

// genreSeparator joins genre names in GROUP_CONCAT; it cannot appear in a name.
const genreSeparator = "\x1f"

type bookRow struct {
	ID          int64          `db:"id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Year        int            `db:"year"`
	Publisher   string         `db:"publisher"`
	Author      string         `db:"author"`
	Pages       int            `db:"pages"`
	CoverID     sql.NullString `db:"cover_id"`
	CreatedAt   string         `db:"created_at"`
	UpdatedAt   string         `db:"updated_at"`
}

func (r bookRow) toDomain() (*domain.Book, error) {
	created, err := parseTime(r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	updated, err := parseTime(r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &domain.Book{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Year:        r.Year,
		Publisher:   r.Publisher,
		Author:      r.Author,
		Pages:       r.Pages,
		CoverID:     r.CoverID.String,
		CreatedAt:   created,
		UpdatedAt:   updated,
	}, nil
}

type bookSummaryRow struct {
	ID          int64   `db:"id"`
	Title       string  `db:"title"`
	Year        int     `db:"year"`
	Author      string  `db:"author"`
	Genres      string  `db:"genres"`
	AvgRating   float64 `db:"avg_rating"`
	ReviewCount int     `db:"review_count"`
}

// CountBooks returns the number of books in the catalog.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var n int
	if err := sqlx.GetContext(ctx, s.conn(ctx), &n, `SELECT COUNT(*) FROM books`); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// ListBooks returns one page of book summaries, newest year first.
// A page past the end yields an empty slice.
func (s *Store) ListBooks(ctx context.Context, page store.Page) ([]*domain.BookSummary, error) {
	query, args, err := sq.Select(
		"b.id", "b.title", "b.year", "b.author",
		`COALESCE((SELECT GROUP_CONCAT(g.name, char(31))
			FROM books_genres bg JOIN genres g ON g.id = bg.genre_id
			WHERE bg.book_id = b.id), '') AS genres`,
		`COALESCE((SELECT AVG(r.rating) FROM reviews r WHERE r.book_id = b.id), 0) AS avg_rating`,
		`(SELECT COUNT(*) FROM reviews r WHERE r.book_id = b.id) AS review_count`,
	).
		From("books b").
		OrderBy("b.year DESC", "b.id DESC").
		Limit(uint64(page.Size)).
		Offset(uint64(page.Offset)).
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list query: %w", err)
	}

	var rows []bookSummaryRow
	if err := sqlx.SelectContext(ctx, s.conn(ctx), &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	books := make([]*domain.BookSummary, 0, len(rows))
	for _, r := range rows {
		var genres []string
		if r.Genres != "" {
			genres = strings.Split(r.Genres, genreSeparator)
			sort.Strings(genres)
		}
		books = append(books, &domain.BookSummary{
			ID:          r.ID,
			Title:       r.Title,
			Year:        r.Year,
			Author:      r.Author,
			Genres:      genres,
			AvgRating:   r.AvgRating,
			ReviewCount: r.ReviewCount,
		})
	}
	return books, nil
}

// GetBook returns a book with its genres.
func (s *Store) GetBook(ctx context.Context, id int64) (*domain.Book, error) {
	var row bookRow
	if err := sqlx.GetContext(ctx, s.conn(ctx), &row, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id); err != nil {
		return nil, mapError(err)
	}

	book, err := row.toDomain()
	if err != nil {
		return nil, err
	}

	book.Genres, err = s.GetGenresForBook(ctx, id)
	if err != nil {
		return nil, err
	}
	return book, nil
}

// CreateBook inserts a book and links it to genreIDs in one transaction.
// On any failure neither the book nor its links are kept.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book, genreIDs []int64) error {
	now := time.Now()
	return s.RunInTx(ctx, func(ctx context.Context) error {
		res, err := s.conn(ctx).ExecContext(ctx, `
			INSERT INTO books (title, description, year, publisher, author, pages, cover_id, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			book.Title, book.Description, book.Year, book.Publisher, book.Author, book.Pages,
			nullString(book.CoverID), formatTime(now), formatTime(now),
		)
		if err != nil {
			return fmt.Errorf("insert book: %w", mapError(err))
		}

		id, err := res.LastInsertId()
		if err != nil {
			return err
		}

		if err := s.replaceBookGenres(ctx, id, genreIDs); err != nil {
			return fmt.Errorf("link genres: %w", err)
		}

		book.ID = id
		book.CreatedAt = now
		book.UpdatedAt = now
		return nil
	})
}

// UpdateBook rewrites a book's fields and replaces its genre links with genreIDs.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book, genreIDs []int64) error {
	now := time.Now()
	return s.RunInTx(ctx, func(ctx context.Context) error {
		query, args, err := sq.Update("books").
			SetMap(map[string]any{
				"title":       book.Title,
				"description": book.Description,
				"year":        book.Year,
				"publisher":   book.Publisher,
				"author":      book.Author,
				"pages":       book.Pages,
				"cover_id":    nullString(book.CoverID),
				"updated_at":  formatTime(now),
			}).
			Where(sq.Eq{"id": book.ID}).
			PlaceholderFormat(sq.Question).
			ToSql()
		if err != nil {
			return fmt.Errorf("build update: %w", err)
		}

		res, err := s.conn(ctx).ExecContext(ctx, query, args...)
		if err != nil {
			return fmt.Errorf("update book %d: %w", book.ID, mapError(err))
		}
		if err := requireAffected(res); err != nil {
			return err
		}

		if err := s.replaceBookGenres(ctx, book.ID, genreIDs); err != nil {
			return fmt.Errorf("link genres: %w", err)
		}

		book.UpdatedAt = now
		return nil
	})
}

// DeleteBook removes a book. Genre links and reviews go with it through
// cascading foreign keys. Deleting a missing book is not an error.
func (s *Store) DeleteBook(ctx context.Context, id int64) error {
	if _, err := s.conn(ctx).ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	return nil
}
