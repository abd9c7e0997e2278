package domain

import "time"

// Session is a signed-in browser. The cookie carries an encrypted token
// naming the session; the row here is what makes logout and expiry work.
type Session struct {
	ID         string
	UserID     int64
	Remember   bool
	CreatedAt  time.Time
	ExpiresAt  time.Time
	LastSeenAt time.Time
	IPAddress  string
	UserAgent  string
}

// Touch updates the session's last seen timestamp.
func (s *Session) Touch() {
	s.LastSeenAt = time.Now()
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}
