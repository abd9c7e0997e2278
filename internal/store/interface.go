// Package store defines the persistence interface for the bookshelf catalog.
package store

import (
	"context"
	"time"

	"github.com/listenupapp/bookshelf/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error

	// RunInTx runs fn in a single transaction. Store calls made with the
	// context passed to fn join that transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	UpdatePasswordHash(ctx context.Context, userID int64, hash string) error
	ListUsers(ctx context.Context) ([]*domain.User, error)

	// Genres
	CreateGenre(ctx context.Context, genre *domain.Genre) error
	ListGenres(ctx context.Context) ([]domain.Genre, error)
	GetGenresForBook(ctx context.Context, bookID int64) ([]domain.Genre, error)

	// Books
	CountBooks(ctx context.Context) (int, error)
	ListBooks(ctx context.Context, page Page) ([]*domain.BookSummary, error)
	GetBook(ctx context.Context, id int64) (*domain.Book, error)
	CreateBook(ctx context.Context, book *domain.Book, genreIDs []int64) error
	UpdateBook(ctx context.Context, book *domain.Book, genreIDs []int64) error
	DeleteBook(ctx context.Context, id int64) error

	// Reviews
	ListReviews(ctx context.Context, bookID int64) ([]*domain.Review, error)
	CreateReview(ctx context.Context, review *domain.Review) error
	DeleteReview(ctx context.Context, bookID, reviewID int64) error

	// Action log
	RecordAction(ctx context.Context, entry *domain.ActionLogEntry) error
	ListActions(ctx context.Context, limit int) ([]*domain.ActionLogEntry, error)

	// Sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, id string) (*domain.Session, error)
	TouchSession(ctx context.Context, id string, seen time.Time) error
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context) (int, error)
}
