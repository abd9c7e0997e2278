package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	domainerrors "github.com/listenupapp/bookshelf/internal/errors"
)

// pathID parses a numeric route parameter. Routes constrain these to digits,
// so a failure means the value overflowed.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func bookURL(id int64) string {
	return "/" + strconv.FormatInt(id, 10) + "/view"
}

// asDomainError returns the first coded error in err's chain.
func asDomainError(err error) (*domainerrors.Error, bool) {
	var de *domainerrors.Error
	if domainerrors.As(err, &de) {
		return de, true
	}
	return nil, false
}

// flashAndRedirect reports err as a flash on the listing. Errors without a
// code are logged and shown generically.
func (s *Server) flashAndRedirect(w http.ResponseWriter, r *http.Request, err error, target string) {
	de, ok := asDomainError(err)
	if !ok {
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		de = domainerrors.Internal("An unexpected error occurred")
	}
	s.flashes.add(w, r, de.Code.FlashCategory(), de.Message)
	http.Redirect(w, r, target, http.StatusFound)
}
