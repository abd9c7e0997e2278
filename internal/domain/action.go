package domain

import "time"

// ActionLogEntry records one incoming request. UserID is nil for anonymous visitors.
type ActionLogEntry struct {
	ID        int64
	UserID    *int64
	Path      string
	RequestID string
	CreatedAt time.Time
}
