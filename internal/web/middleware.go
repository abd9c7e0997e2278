package web

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/listenupapp/bookshelf/internal/domain"
	"github.com/listenupapp/bookshelf/internal/policy"
	"github.com/listenupapp/bookshelf/internal/service"
)

const sessionCookie = "session"

// MsgLoginRequired is shown when an anonymous visitor hits a protected page.
const MsgLoginRequired = "Please log in to access this page"

// requestID tags each request with an id for logs and the action log. An
// incoming X-Request-Id header is kept, otherwise a UUID is generated. The id
// is stored under chi's key so middleware.GetReqID and the request logger
// see it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(middleware.RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(middleware.RequestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveSession loads the user behind the session cookie into the request
// context. Requests without a valid session continue anonymously.
func (s *Server) resolveSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := withPending(r.Context())

		if token, ok := cookieValue(r, sessionCookie); ok {
			user, session, err := s.auth.Resolve(ctx, token)
			if err != nil {
				s.logger.Debug("discarding session cookie", "error", err)
				s.clearSessionCookie(w)
			} else {
				ctx = withIdentity(ctx, user, session)
			}
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// recordAction appends every non-static request to the action log.
func (s *Server) recordAction(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/static/") && r.URL.Path != "/health" {
			var userID *int64
			if user := currentUser(r.Context()); user != nil {
				userID = &user.ID
			}
			s.audit.Record(r.Context(), userID, r.URL.Path, middleware.GetReqID(r.Context()))
		}
		next.ServeHTTP(w, r)
	})
}

// requireLogin sends anonymous visitors to the login page. GET requests
// come back to the same page after login.
func (s *Server) requireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if currentUser(r.Context()) != nil {
			next.ServeHTTP(w, r)
			return
		}

		target := "/auth"
		if r.Method == http.MethodGet {
			target += "?next=" + url.QueryEscape(r.URL.RequestURI())
		}
		s.flashes.add(w, r, FlashWarning, MsgLoginRequired)
		http.Redirect(w, r, target, http.StatusFound)
	})
}

// requirePrivilege checks the policy for action before the handler runs.
// It must follow requireLogin. A denied request goes back to the listing
// with a warning.
func (s *Server) requirePrivilege(action policy.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := currentUser(r.Context())

			if !policy.Allowed(actor, action, s.targetUser(r)) {
				attrs := []any{"action", action.String(), "path", r.URL.Path}
				if actor != nil {
					attrs = append(attrs, "user_id", actor.ID, "role", actor.Role.String())
				}
				s.logger.Info("access denied", attrs...)
				s.flashes.add(w, r, FlashWarning, service.MsgInsufficientRole)
				http.Redirect(w, r, "/", http.StatusFound)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// targetUser loads the user named by a {user_id} route parameter. No current
// route has one, so this is nil in practice.
func (s *Server) targetUser(r *http.Request) *domain.User {
	raw := chi.URLParam(r, "user_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil
	}
	user, err := s.auth.User(r.Context(), id)
	if err != nil {
		return nil
	}
	return user
}

func (s *Server) setSessionCookie(w http.ResponseWriter, token string, session *domain.Session) {
	c := &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	// Without remember me the cookie ends with the browser session.
	if session.Remember {
		c.Expires = session.ExpiresAt
		c.MaxAge = int(time.Until(session.ExpiresAt).Seconds())
	}
	http.SetCookie(w, c)
}

func (s *Server) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// clientIP returns the request's remote address without the port.
// middleware.RealIP has already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// localRedirect returns next when it is a path on this site, else "/".
func localRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	return next
}
