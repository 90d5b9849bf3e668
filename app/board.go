package app

import (
	"context"

	"meetify/domain"
)

// BoardService reads and writes discussion board posts for one scope
// (a circle or an event).
type BoardService interface {
	// FetchRootPosts returns root posts in the scope, newest first.
	// cursor is opaque: pass "" for the first page and the returned
	// cursor for the next one. An empty returned cursor means the
	// feed is exhausted.
	FetchRootPosts(ctx context.Context, scope domain.Scope, cursor string, pageSize int) ([]domain.Post, string, error)

	// FetchReplies returns every reply of parentID, oldest first.
	FetchReplies(ctx context.Context, scope domain.Scope, parentID string) ([]domain.Post, error)

	// CreatePost stores a draft built with domain.NewRoot or
	// domain.NewReply and returns the stored post with server id
	// and timestamp.
	CreatePost(ctx context.Context, draft domain.Post) (domain.Post, error)

	// DeletePost removes a post. Deleting a root post removes its
	// replies in the same batch. Only the author may delete.
	DeletePost(ctx context.Context, postID, requestorID string) error

	// ToggleLike adds or removes userID from the like set and
	// returns the new liked state.
	ToggleLike(ctx context.Context, postID, userID string, currentlyLiked bool) (bool, error)

	// UploadImage stores image bytes in object storage and returns
	// the public URL for embedding in a post.
	UploadImage(ctx context.Context, name string, data []byte) (string, error)
}
