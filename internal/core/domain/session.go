package domain

import "time"

// FlashKind is the category of a one-shot notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
)

// Flash is a notice shown on the next rendered page only.
type Flash struct {
	Kind FlashKind `json:"kind"`
	Text string    `json:"text"`
}

// Session is the server-side record behind a session cookie.
// UserID is empty for anonymous sessions that only carry flashes.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}
