package web

import (
	"net/http"

	"github.com/listenupapp/bookshelf/internal/service"
	"github.com/listenupapp/bookshelf/internal/validation"
)

// MsgLoggedIn confirms a successful login.
const MsgLoggedIn = "You have successfully logged in"

type loginForm struct {
	Login    string
	Remember bool
	Next     string
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	next := r.URL.Query().Get("next")
	if currentUser(r.Context()) != nil {
		http.Redirect(w, r, localRedirect(next), http.StatusFound)
		return
	}
	s.render(w, r, http.StatusOK, "auth.html", "Log in", loginForm{Next: next})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	in := validation.DecodeLoginForm(r.PostForm)
	next := r.PostFormValue("next")

	result, err := s.auth.Login(r.Context(), service.LoginRequest{
		LoginInput: in,
		IPAddress:  clientIP(r),
		UserAgent:  r.UserAgent(),
	})
	if err != nil {
		de, ok := asDomainError(err)
		if !ok {
			s.logger.Error("login failed", "error", err)
			s.renderError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}
		s.flashes.add(w, r, FlashDanger, de.Message)
		s.render(w, r, de.HTTPStatus(), "auth.html", "Log in", loginForm{
			Login:    in.Login,
			Remember: in.Remember,
			Next:     next,
		})
		return
	}

	s.setSessionCookie(w, result.Token, result.Session)
	s.flashes.add(w, r, FlashSuccess, MsgLoggedIn)
	http.Redirect(w, r, localRedirect(next), http.StatusFound)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if token, ok := cookieValue(r, sessionCookie); ok {
		if err := s.auth.Logout(r.Context(), token); err != nil {
			s.logger.Warn("logout failed", "error", err)
		}
	}
	if session := currentSession(r.Context()); session != nil {
		s.logger.Info("user logged out", "user_id", session.UserID, "session_id", session.ID)
	}
	s.clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}
