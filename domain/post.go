package domain

import (
	"fmt"
	"strings"
	"time"
)

// ScopeKind selects the container type a post belongs to.
type ScopeKind int

const (
	ScopeCircle ScopeKind = iota
	ScopeEvent
)

// Scope identifies the container of a post: exactly one circle or event.
type Scope struct {
	Kind ScopeKind
	ID   string
}

// CircleScope returns the scope for a circle board.
func CircleScope(circleID string) Scope {
	return Scope{Kind: ScopeCircle, ID: circleID}
}

// EventScope returns the scope for an event board.
func EventScope(eventID string) Scope {
	return Scope{Kind: ScopeEvent, ID: eventID}
}

// Post is a single entry on a circle or event discussion board.
//
// Threads are exactly two levels deep: a post with an empty ParentID is a
// root post shown in the main feed, everything else is a reply attached to
// that root. A reply aimed at another reply still hangs off the root via
// ParentID and carries the target in ReplyToID for display only.
type Post struct {
	ID         string
	Scope      Scope
	AuthorID   string
	Author     string // Display name, filled by the UI layer
	ParentID   string
	ReplyToID  string
	Text       string
	ImageURL   string
	Likes      []string
	ReplyCount int
	CreatedAt  time.Time
	IsOwn      bool
}

// NewRoot builds an unsaved root post. At least one of text and imageURL
// must be non-empty.
func NewRoot(scope Scope, authorID, text, imageURL string) (Post, error) {
	text = strings.TrimSpace(text)
	if text == "" && imageURL == "" {
		return Post{}, fmt.Errorf("%w: post needs text or an image", ErrValidation)
	}
	return Post{
		Scope:    scope,
		AuthorID: authorID,
		Text:     text,
		ImageURL: imageURL,
	}, nil
}

// NewReply builds an unsaved reply to root. When the reply targets another
// reply of the same thread, pass it as replyTo; the post still attaches to
// the root so counting and cascade deletion stay two levels deep.
func NewReply(root Post, authorID, text, imageURL string, replyTo *Post) (Post, error) {
	if !root.IsRoot() {
		return Post{}, fmt.Errorf("%w: replies attach to root posts only", ErrValidation)
	}
	p, err := NewRoot(root.Scope, authorID, text, imageURL)
	if err != nil {
		return Post{}, err
	}
	p.ParentID = root.ID
	if replyTo != nil && replyTo.ID != root.ID {
		if replyTo.ParentID != root.ID {
			return Post{}, fmt.Errorf("%w: reply target belongs to another thread", ErrValidation)
		}
		p.ReplyToID = replyTo.ID
	}
	return p, nil
}

// IsRoot reports whether the post appears in the main feed.
func (p Post) IsRoot() bool {
	return p.ParentID == ""
}

// LikedBy reports whether userID is in the post's like set.
func (p Post) LikedBy(userID string) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// ToggleLike adds or removes userID from the like set with set semantics:
// adding an existing id or removing a missing one is a no-op.
func (p *Post) ToggleLike(userID string) {
	for i, id := range p.Likes {
		if id == userID {
			p.Likes = append(p.Likes[:i], p.Likes[i+1:]...)
			return
		}
	}
	p.Likes = append(p.Likes, userID)
}
