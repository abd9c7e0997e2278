package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/listenupapp/bookshelf/internal/content"
	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/policy"
	"github.com/listenupapp/bookshelf/internal/store"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// ReviewService manages reviews.
type ReviewService struct {
	store     store.Store
	validator *validation.Validator
	renderer  *content.Renderer
	logger    *slog.Logger
}

// NewReviewService creates a new review service.
func NewReviewService(
	store store.Store,
	validator *validation.Validator,
	renderer *content.Renderer,
	logger *slog.Logger,
) *ReviewService {
	return &ReviewService{
		store:     store,
		validator: validator,
		renderer:  renderer,
		logger:    logger,
	}
}

// ReviewRequest is a submitted review form.
type ReviewRequest struct {
	validation.ReviewInput
	ParseErrors map[string]string
}

// Create stores a review by actor. The Markdown text is rendered to HTML
// before storage; the rating is kept as submitted.
func (s *ReviewService) Create(ctx context.Context, actor *domain.User, bookID int64, req ReviewRequest) (*domain.Review, error) {
	if !policy.Allowed(actor, policy.WriteReview, nil) {
		return nil, domainerrors.Unauthorized("Please log in to access this page")
	}

	if err := s.validator.ValidateWith(req.ReviewInput, req.ParseErrors); err != nil {
		return nil, err
	}

	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgBookNotFound)
		}
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}

	rendered, err := s.renderer.RenderString(content.Normalize(req.Text))
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, MsgSaveFailed)
	}

	review := &domain.Review{
		BookID:    bookID,
		UserID:    actor.ID,
		UserLogin: actor.Login,
		Rating:    req.Rating,
		Text:      rendered,
	}

	err = s.store.RunInTx(ctx, func(ctx context.Context) error {
		return s.store.CreateReview(ctx, review)
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return nil, domainerrors.NotFound(MsgBookNotFound)
		}
		if s.logger != nil {
			s.logger.Error("review write failed", "book_id", bookID, "user_id", actor.ID, "error", err)
		}
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, MsgSaveFailed)
	}

	if s.logger != nil {
		s.logger.Info("review created", "review_id", review.ID, "book_id", bookID, "user_id", actor.ID)
	}
	return review, nil
}

// Delete removes a review of the given book.
func (s *ReviewService) Delete(ctx context.Context, actor *domain.User, bookID, reviewID int64) error {
	if !policy.Allowed(actor, policy.DeleteReview, nil) {
		return domainerrors.Forbidden(MsgInsufficientRole)
	}

	if err := s.store.DeleteReview(ctx, bookID, reviewID); err != nil {
		return domainerrors.Wrap(err, domainerrors.CodeInternal, "An error occurred while deleting the review")
	}

	if s.logger != nil {
		s.logger.Info("review deleted", "review_id", reviewID, "book_id", bookID, "user_id", actor.ID)
	}
	return nil
}

// Draft is what the review form starts from.
type Draft struct {
	Book   *domain.Book
	Rating int
	Text   string // Markdown
}

// Draft loads the book being reviewed and, when the viewer already reviewed
// it, their review converted back to Markdown.
func (s *ReviewService) Draft(ctx context.Context, bookID int64, viewer *domain.User) (*Draft, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, domainerrors.NotFound(MsgBookNotFound)
		}
		return nil, fmt.Errorf("get book %d: %w", bookID, err)
	}

	draft := &Draft{Book: book, Rating: 5}
	if viewer == nil {
		return draft, nil
	}

	reviews, err := s.store.ListReviews(ctx, bookID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	if own := domain.FindByAuthor(reviews, viewer.ID); own != nil {
		text, err := content.ToMarkdown(own.Text)
		if err != nil {
			if s.logger != nil {
				s.logger.Warn("review to markdown failed", "review_id", own.ID, "error", err)
			}
			text = ""
		}
		draft.Rating = own.Rating
		draft.Text = text
	}
	return draft, nil
}
