package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/listenupapp/bookshelf/internal/color"
	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/policy"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageNames are the templates rendered inside layout.html.
var pageNames = []string{
	"index.html",
	"view.html",
	"book_form.html",
	"review_form.html",
	"auth.html",
	"error.html",
}

var templateFuncs = template.FuncMap{
	"ratingLabel":   ratingLabel,
	"ratingOptions": domain.RatingOptions,
	"join":          strings.Join,
	"itoa":          strconv.Itoa,
	"avatarColor":   color.ForLogin,
	"initials":      color.Initials,
	"can": func(user *domain.User, action string) bool {
		return policy.AllowedName(user, action, nil)
	},
	"hasValue": func(values []string, id int64) bool {
		return slices.Contains(values, strconv.FormatInt(id, 10))
	},
}

func ratingLabel(value int) string {
	for _, opt := range domain.RatingOptions() {
		if opt.Value == value {
			return opt.Label
		}
	}
	return strconv.Itoa(value)
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		pages[name] = t
	}
	return pages, nil
}

// pageData is what every template receives.
type pageData struct {
	Title     string
	User      *domain.User
	Flashes   []Flash
	CSRFToken string
	Path      string
	Data      any
}

// render executes a page inside the layout. Flashes are consumed here.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, page, title string, data any) {
	t, ok := s.pages[page]
	if !ok {
		s.logger.Error("unknown template", "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	user := currentUser(r.Context())
	pd := pageData{
		Title:     title,
		User:      user,
		Flashes:   s.flashes.consume(w, r),
		CSRFToken: s.csrfToken(user),
		Path:      r.URL.Path,
		Data:      data,
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", pd); err != nil {
		s.logger.Error("render failed", "page", page, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type errorData struct {
	Status  int
	Message string
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, message string) {
	s.render(w, r, status, "error.html", http.StatusText(status), errorData{Status: status, Message: message})
}
