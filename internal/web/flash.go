package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"aidanwoods.dev/go-paseto"
)

const (
	flashCookie = "flash"
	flashTTL    = 5 * time.Minute
)

// Flash categories, matching the alert styles in the layout.
const (
	FlashSuccess = "success"
	FlashInfo    = "info"
	FlashWarning = "warning"
	FlashDanger  = "danger"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// flashes keeps messages in an encrypted, short-lived cookie so they survive
// a redirect without server-side state.
type flashes struct {
	key    paseto.V4SymmetricKey
	secure bool
}

func newFlashes(key []byte, secure bool) (*flashes, error) {
	k, err := paseto.V4SymmetricKeyFromBytes(key)
	if err != nil {
		return nil, fmt.Errorf("flash key: %w", err)
	}
	return &flashes{key: k, secure: secure}, nil
}

// pending collects the flashes of one request: those carried in by the
// cookie plus any added while handling it.
type pending struct {
	loaded bool
	items  []Flash
}

func withPending(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKeyFlashes, &pending{})
}

// load returns the request's pending bag with the incoming cookie merged in.
// Requests outside resolveSession get a throwaway bag.
func (f *flashes) load(r *http.Request) *pending {
	p, ok := r.Context().Value(contextKeyFlashes).(*pending)
	if !ok {
		p = &pending{}
	}
	if !p.loaded {
		p.loaded = true
		if c, err := r.Cookie(flashCookie); err == nil && c.Value != "" {
			p.items = append(f.decode(c.Value), p.items...)
		}
	}
	return p
}

// add queues a message and rewrites the flash cookie on w, so it survives
// a redirect.
func (f *flashes) add(w http.ResponseWriter, r *http.Request, category, message string) {
	p := f.load(r)
	p.items = append(p.items, Flash{Category: category, Message: message})

	token := paseto.NewToken()
	token.SetExpiration(time.Now().Add(flashTTL))
	//nolint:errcheck // Token.Set only errors on unmarshalable values
	_ = token.Set("flashes", p.items)

	dropSetCookie(w.Header(), flashCookie)
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    token.V4Encrypt(f.key, nil),
		Path:     "/",
		MaxAge:   int(flashTTL.Seconds()),
		HttpOnly: true,
		Secure:   f.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// consume returns every pending flash and clears the cookie.
func (f *flashes) consume(w http.ResponseWriter, r *http.Request) []Flash {
	_, hadCookie := cookieValue(r, flashCookie)
	p := f.load(r)
	out := p.items
	p.items = nil

	dropSetCookie(w.Header(), flashCookie)
	if hadCookie || len(out) > 0 {
		http.SetCookie(w, &http.Cookie{
			Name:     flashCookie,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   f.secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return out
}

func cookieValue(r *http.Request, name string) (string, bool) {
	c, err := r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

func (f *flashes) decode(value string) []Flash {
	parser := paseto.NewParser()
	parser.AddRule(paseto.NotExpired())
	token, err := parser.ParseV4Local(f.key, value, nil)
	if err != nil {
		return nil
	}

	var claims struct {
		Flashes []Flash `json:"flashes"`
	}
	if err := json.Unmarshal(token.ClaimsJSON(), &claims); err != nil {
		return nil
	}
	return claims.Flashes
}

// dropSetCookie removes queued Set-Cookie headers for name.
func dropSetCookie(h http.Header, name string) {
	cookies := h.Values("Set-Cookie")
	if len(cookies) == 0 {
		return
	}
	h.Del("Set-Cookie")
	for _, c := range cookies {
		if !strings.HasPrefix(c, name+"=") {
			h.Add("Set-Cookie", c)
		}
	}
}
