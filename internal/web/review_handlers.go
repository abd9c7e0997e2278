package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/listenupapp/bookshelf/internal/domain"
	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// Flash messages for review actions.
const (
	MsgReviewSaved   = "Your review was saved"
	MsgReviewDeleted = "The review was deleted"
)

type reviewForm struct {
	Book   *domain.Book
	Values url.Values
	Errors map[string]string
}

func (s *Server) handleReviewForm(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	draft, err := s.reviews.Draft(r.Context(), id, currentUser(r.Context()))
	if err != nil {
		s.flashAndRedirect(w, r, err, "/")
		return
	}

	values := url.Values{}
	values.Set("rating", strconv.Itoa(draft.Rating))
	values.Set("text", draft.Text)

	s.render(w, r, http.StatusOK, "review_form.html", "Review: "+draft.Book.Title, &reviewForm{
		Book:   draft.Book,
		Values: values,
		Errors: map[string]string{},
	})
}

func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}

	in, parseErrors := validation.DecodeReviewForm(r.PostForm)
	_, err := s.reviews.Create(r.Context(), currentUser(r.Context()), id, service.ReviewRequest{
		ReviewInput: in,
		ParseErrors: parseErrors,
	})
	if err == nil {
		s.flashes.add(w, r, FlashSuccess, MsgReviewSaved)
		http.Redirect(w, r, bookURL(id), http.StatusFound)
		return
	}

	de, ok := asDomainError(err)
	if !ok || de.Code != domainerrors.CodeValidation && de.Code != domainerrors.CodeInternal {
		s.flashAndRedirect(w, r, err, bookURL(id))
		return
	}

	book, getErr := s.catalog.Get(r.Context(), id)
	if getErr != nil {
		s.flashAndRedirect(w, r, getErr, "/")
		return
	}

	form := &reviewForm{Book: book, Values: r.PostForm, Errors: de.Fields()}
	if de.Code == domainerrors.CodeInternal {
		s.flashes.add(w, r, FlashDanger, de.Message)
	}
	s.render(w, r, de.HTTPStatus(), "review_form.html", "Review: "+book.Title, form)
}

func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	bookID, ok := pathID(r, "id")
	if !ok {
		s.flashAndRedirect(w, r, domainerrors.NotFound(service.MsgBookNotFound), "/")
		return
	}
	reviewID, ok := pathID(r, "review_id")
	if !ok {
		http.Redirect(w, r, bookURL(bookID), http.StatusFound)
		return
	}

	if err := s.reviews.Delete(r.Context(), currentUser(r.Context()), bookID, reviewID); err != nil {
		s.flashAndRedirect(w, r, err, bookURL(bookID))
		return
	}

	s.flashes.add(w, r, FlashSuccess, MsgReviewDeleted)
	http.Redirect(w, r, bookURL(bookID), http.StatusFound)
}
