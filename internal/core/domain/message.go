package domain

import "time"

// Author is the slice of a User resolved alongside a message.
type Author struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (a *Author) FullName() string {
	if a == nil {
		return "Unknown"
	}
	return a.FirstName + " " + a.LastName
}

// Message is a single board post.
type Message struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Text       string    `json:"text"`
	Edited     bool      `json:"edited"`
	AuthorID   string    `json:"author_id"`
	Author     *Author   `json:"author,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}

// NewMessage builds an unedited message stamped with now.
func NewMessage(title, text, authorID string, now time.Time) *Message {
	now = now.UTC()
	return &Message{
		Title:      title,
		Text:       text,
		AuthorID:   authorID,
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Revise replaces title and text, marks the message edited and restamps it.
func (m *Message) Revise(title, text string, now time.Time) {
	m.Title = title
	m.Text = text
	m.Edited = true
	m.ModifiedAt = now.UTC()
}
