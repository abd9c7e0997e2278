package service

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"

	"github.com/listenupapp/bookshelf/internal/content"
	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/policy"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// User-facing messages shared with the web layer.
const (
	MsgBookNotFound     = "Book not found"
	MsgRejectedMarkup   = "The description contains markup that is not allowed. The book was not saved."
	MsgSaveFailed       = "An error occurred while saving. Please check the form and try again."
	MsgInsufficientRole = "You do not have sufficient rights to access this page"
)

// CatalogService manages books.
type CatalogService struct {
	store     store.Store
	validator *validation.Validator
	sanitizer *content.Sanitizer
	renderer  *content.Renderer
	pageSize  int
	logger    *slog.Logger
}

// NewCatalogService creates a new catalog service.
func NewCatalogService(
	store store.Store,
	validator *validation.Validator,
	sanitizer *content.Sanitizer,
	renderer *content.Renderer,
	pageSize int,
	logger *slog.Logger,
) *CatalogService {
	return &CatalogService{
		store:     store,
		validator: validator,
		sanitizer: sanitizer,
		renderer:  renderer,
		pageSize:  pageSize,
		logger:    logger,
	}
}

// Listing is one page of the catalog.
type Listing struct {
	Books []*domain.BookSummary
	Page  store.Page
}

// List returns the requested page, newest year first. Pages past the end are
// returned empty rather than rejected.
func (s *CatalogService) List(ctx context.Context, page int) (*Listing, error) {
	total, err := s.store.CountBooks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count books: %w", err)
	}

	p := store.NewPage(page, total, s.pageSize)
	books, err := s.store.ListBooks(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return &Listing{Books: books, Page: p}, nil
}

// ReviewView is a review ready for display.
type ReviewView struct {
	*domain.Review
	HTML template.HTML
}

// BookView is everything the detail page shows.
type BookView struct {
	Book        *domain.Book
	Description template.HTML
	Reviews     []ReviewView
	// OwnReview is the viewer's first review of the book, if any.
	OwnReview *ReviewView
}

// View loads a book with its reviews. viewer may be nil.
func (s *CatalogService) View(ctx context.Context, id int64, viewer *domain.User) (*BookView, error) {
	book, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	description, err := s.renderer.Render(book.Description)
	if err != nil {
		return nil, fmt.Errorf("render description: %w", err)
	}

	reviews, err := s.store.ListReviews(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	view := &BookView{
		Book:        book,
		Description: description,
		Reviews:     make([]ReviewView, len(reviews)),
	}
	for i, r := range reviews {
		view.Reviews[i] = ReviewView{Review: r, HTML: s.renderer.Trusted(r.Text)}
	}

	if viewer != nil {
		if own := domain.FindByAuthor(reviews, viewer.ID); own != nil {
			view.OwnReview = &ReviewView{Review: own, HTML: s.renderer.Trusted(own.Text)}
		}
	}

	return view, nil
}

// Get returns a book with its genres and its description as Markdown source.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgBookNotFound)
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}
	return book, nil
}

// Genres returns every genre for the book form.
func (s *CatalogService) Genres(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.store.ListGenres(ctx)
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}
	return genres, nil
}

// BookRequest is a submitted book form. ParseErrors holds fields that could
// not be decoded.
type BookRequest struct {
	validation.BookInput
	ParseErrors map[string]string
}

// Create validates and stores a new book.
func (s *CatalogService) Create(ctx context.Context, actor *domain.User, req BookRequest) (*domain.Book, error) {
	if !policy.Allowed(actor, policy.Create, nil) {
		return nil, domainerrors.Forbidden(MsgInsufficientRole)
	}

	book, err := s.prepare(req)
	if err != nil {
		return nil, err
	}

	if err := s.store.CreateBook(ctx, book, req.GenreIDs); err != nil {
		return nil, s.writeError(err, "create", book)
	}

	if s.logger != nil {
		s.logger.Info("book created", "book_id", book.ID, "user_id", actor.ID, "title", book.Title)
	}
	return book, nil
}

// Update validates and stores changes to a book, replacing its genre set.
func (s *CatalogService) Update(ctx context.Context, actor *domain.User, id int64, req BookRequest) (*domain.Book, error) {
	if !policy.Allowed(actor, policy.Update, nil) {
		return nil, domainerrors.Forbidden(MsgInsufficientRole)
	}

	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	book, err := s.prepare(req)
	if err != nil {
		return nil, err
	}
	book.ID = id
	book.CoverID = existing.CoverID
	book.CreatedAt = existing.CreatedAt

	if err := s.store.UpdateBook(ctx, book, req.GenreIDs); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgBookNotFound)
		}
		return nil, s.writeError(err, "update", book)
	}

	if s.logger != nil {
		s.logger.Info("book updated", "book_id", id, "user_id", actor.ID)
	}
	return book, nil
}

// Delete removes a book along with its genre links and reviews.
func (s *CatalogService) Delete(ctx context.Context, actor *domain.User, id int64) error {
	if !policy.Allowed(actor, policy.Delete, nil) {
		return domainerrors.Forbidden(MsgInsufficientRole)
	}

	if err := s.store.DeleteBook(ctx, id); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "An error occurred while deleting the book")
	}

	if s.logger != nil {
		s.logger.Info("book deleted", "book_id", id, "user_id", actor.ID)
	}
	return nil
}

// prepare validates the form and checks the description against the
// sanitizer. A description the sanitizer would alter is refused outright.
func (s *CatalogService) prepare(req BookRequest) (*domain.Book, error) {
	if err := s.validator.ValidateWith(req.BookInput, req.ParseErrors); err != nil {
		return nil, err
	}

	description, ok := s.sanitizer.Clean(req.Description)
	if !ok {
		if s.logger != nil {
			s.logger.Warn("rejected book description", "title", req.Title)
		}
		return nil, domainerrors.RejectedContent("description", MsgRejectedMarkup)
	}

	return &domain.Book{
		Title:       req.Title,
		Description: description,
		Year:        req.Year,
		Publisher:   req.Publisher,
		Author:      req.Author,
		Pages:       req.Pages,
	}, nil
}

// writeError maps a failed transactional write to a domain error.
func (s *CatalogService) writeError(err error, op string, book *domain.Book) error {
	if errors.Is(err, store.ErrInvalidReference) {
		return domainerrors.ValidationWithDetails("validation failed", map[string]string{
			"genre_ids": "contains an unknown genre",
		})
	}

	if s.logger != nil {
		s.logger.Error("book write failed", "op", op, "book_id", book.ID, "error", err)
	}
	return domainerrors.Wrap(err, domainerrors.CodeInternal, MsgSaveFailed)
}
