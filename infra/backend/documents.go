package backend

import (
	"time"

	"meetify/domain"
)

// boardPostDoc is the wire shape of a boardPosts document. Exactly one
// of CircleID and EventID is set; an absent ParentID marks a root post.
type boardPostDoc struct {
	ID         string    `json:"id,omitempty"`
	UserID     string    `json:"userId"`
	Text       string    `json:"text,omitempty"`
	CircleID   string    `json:"circleId,omitempty"`
	EventID    string    `json:"eventId,omitempty"`
	ParentID   string    `json:"parentId,omitempty"`
	ReplyToID  string    `json:"replyToId,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	CreatedAt  time.Time `json:"createdAt,omitempty"`
	Likes      []string  `json:"likes"`
	ReplyCount int       `json:"replyCount"`
}

func postToDoc(p domain.Post) boardPostDoc {
	doc := boardPostDoc{
		ID:         p.ID,
		UserID:     p.AuthorID,
		Text:       p.Text,
		ParentID:   p.ParentID,
		ReplyToID:  p.ReplyToID,
		ImageURL:   p.ImageURL,
		Likes:      p.Likes,
		ReplyCount: p.ReplyCount,
	}
	if doc.Likes == nil {
		doc.Likes = []string{}
	}
	switch p.Scope.Kind {
	case domain.ScopeEvent:
		doc.EventID = p.Scope.ID
	default:
		doc.CircleID = p.Scope.ID
	}
	return doc
}

func docToPost(d boardPostDoc, viewerID string) domain.Post {
	scope := domain.CircleScope(d.CircleID)
	if d.EventID != "" {
		scope = domain.EventScope(d.EventID)
	}
	count := d.ReplyCount
	if count < 0 {
		// The counter is a denormalized hint and can drift below zero
		// after racing decrements; it is never shown negative.
		count = 0
	}
	return domain.Post{
		ID:         d.ID,
		Scope:      scope,
		AuthorID:   d.UserID,
		ParentID:   d.ParentID,
		ReplyToID:  d.ReplyToID,
		Text:       d.Text,
		ImageURL:   d.ImageURL,
		Likes:      d.Likes,
		ReplyCount: count,
		CreatedAt:  d.CreatedAt,
		IsOwn:      viewerID != "" && d.UserID == viewerID,
	}
}

// scopeFilter returns the equality filter selecting one board.
func scopeFilter(scope domain.Scope) map[string]string {
	if scope.Kind == domain.ScopeEvent {
		return map[string]string{"eventId": scope.ID}
	}
	return map[string]string{"circleId": scope.ID}
}

type circleDoc struct {
	ID             string    `json:"id,omitempty"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	Private        bool      `json:"private"`
	Lat            float64   `json:"lat,omitempty"`
	Lng            float64   `json:"lng,omitempty"`
	Admins         []string  `json:"admins"`
	Members        []string  `json:"members"`
	PendingMembers []string  `json:"pendingMembers"`
	CreatedAt      time.Time `json:"createdAt,omitempty"`
}

func circleToDoc(c domain.Circle) circleDoc {
	return circleDoc{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Private:        c.Private,
		Lat:            c.Location.Lat,
		Lng:            c.Location.Lng,
		Admins:         orEmpty(c.Admins),
		Members:        orEmpty(c.Members),
		PendingMembers: orEmpty(c.PendingMembers),
	}
}

func docToCircle(d circleDoc) domain.Circle {
	return domain.Circle{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		Private:        d.Private,
		Location:       domain.Point{Lat: d.Lat, Lng: d.Lng},
		Admins:         d.Admins,
		Members:        d.Members,
		PendingMembers: d.PendingMembers,
		CreatedAt:      d.CreatedAt,
	}
}

type eventDoc struct {
	ID          string    `json:"id,omitempty"`
	CircleID    string    `json:"circleId"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatorID   string    `json:"creatorId"`
	Admins      []string  `json:"admins"`
	Attendees   []string  `json:"attendees"`
	Lat         float64   `json:"lat,omitempty"`
	Lng         float64   `json:"lng,omitempty"`
	StartsAt    time.Time `json:"startsAt"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func eventToDoc(e domain.CircleEvent) eventDoc {
	return eventDoc{
		ID:          e.ID,
		CircleID:    e.CircleID,
		Name:        e.Name,
		Description: e.Description,
		CreatorID:   e.CreatorID,
		Admins:      orEmpty(e.Admins),
		Attendees:   orEmpty(e.Attendees),
		Lat:         e.Location.Lat,
		Lng:         e.Location.Lng,
		StartsAt:    e.StartsAt,
	}
}

func docToEvent(d eventDoc) domain.CircleEvent {
	return domain.CircleEvent{
		ID:          d.ID,
		CircleID:    d.CircleID,
		Name:        d.Name,
		Description: d.Description,
		CreatorID:   d.CreatorID,
		Admins:      d.Admins,
		Attendees:   d.Attendees,
		Location:    domain.Point{Lat: d.Lat, Lng: d.Lng},
		StartsAt:    d.StartsAt,
		CreatedAt:   d.CreatedAt,
	}
}

type notificationDoc struct {
	ID          string    `json:"id,omitempty"`
	RecipientID string    `json:"recipientId"`
	ActorID     string    `json:"actorId"`
	Kind        string    `json:"kind"`
	TargetID    string    `json:"targetId,omitempty"`
	Message     string    `json:"message,omitempty"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

func notificationToDoc(n domain.Notification) notificationDoc {
	return notificationDoc{
		ID:          n.ID,
		RecipientID: n.RecipientID,
		ActorID:     n.ActorID,
		Kind:        string(n.Kind),
		TargetID:    n.TargetID,
		Message:     n.Message,
		Read:        n.Read,
	}
}

func docToNotification(d notificationDoc) domain.Notification {
	return domain.Notification{
		ID:          d.ID,
		RecipientID: d.RecipientID,
		ActorID:     d.ActorID,
		Kind:        domain.NotificationKind(d.Kind),
		TargetID:    d.TargetID,
		Message:     d.Message,
		Read:        d.Read,
		CreatedAt:   d.CreatedAt,
	}
}

func orEmpty(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
