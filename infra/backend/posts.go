package backend

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"meetify/app"
	"meetify/domain"
)

// Primary writes (create, delete) get a short transient-retry budget;
// a blip must not lose the user's action.
const writeAttempts = 3

// boardService implements app.BoardService against the boardPosts
// collection.
type boardService struct {
	client *Client
	rec    *reconciler
	notify app.Notifier
	log    *logrus.Logger
	userID string
}

// NewBoardService creates a BoardService for the given viewer.
func NewBoardService(client *Client, notifier app.Notifier, log *logrus.Logger, userID string) *boardService {
	return &boardService{
		client: client,
		rec:    &reconciler{client: client, log: log},
		notify: notifier,
		log:    log,
		userID: userID,
	}
}

type postPage struct {
	Documents []boardPostDoc `json:"documents"`
}

func (s *boardService) FetchRootPosts(ctx context.Context, scope domain.Scope, cursor string, pageSize int) ([]domain.Post, string, error) {
	var page postPage
	err := s.client.queryDocs(ctx, collPosts, docQuery{
		eq:         scopeFilter(scope),
		orderBy:    "createdAt",
		descending: true,
		limit:      pageSize,
		startAfter: cursor,
	}, &page)
	if err != nil {
		return nil, "", fmt.Errorf("fetching board: %w", err)
	}

	next := ""
	if len(page.Documents) == pageSize {
		// Cursor is the last raw document, replies included, so no
		// document is skipped on the next page.
		next = page.Documents[len(page.Documents)-1].ID
	}

	// The query layer cannot combine "parentId is absent" with the
	// createdAt range ordering, so replies are dropped client-side.
	roots := lo.Filter(page.Documents, func(d boardPostDoc, _ int) bool {
		return d.ParentID == ""
	})

	posts := make([]domain.Post, 0, len(roots))
	for _, d := range roots {
		posts = append(posts, docToPost(d, s.userID))
	}
	return posts, next, nil
}

func (s *boardService) FetchReplies(ctx context.Context, scope domain.Scope, parentID string) ([]domain.Post, error) {
	eq := scopeFilter(scope)
	eq["parentId"] = parentID

	var page postPage
	err := s.client.queryDocs(ctx, collPosts, docQuery{
		eq:      eq,
		orderBy: "createdAt",
	}, &page)
	if err != nil {
		return nil, fmt.Errorf("fetching replies: %w", err)
	}

	// Viewing a thread is the drift-repair point for the parent's
	// denormalized counter.
	s.rec.repair(ctx, parentID, len(page.Documents))

	replies := make([]domain.Post, 0, len(page.Documents))
	for _, d := range page.Documents {
		replies = append(replies, docToPost(d, s.userID))
	}
	return replies, nil
}

func (s *boardService) CreatePost(ctx context.Context, draft domain.Post) (domain.Post, error) {
	if draft.Text == "" && draft.ImageURL == "" {
		return domain.Post{}, fmt.Errorf("%w: post needs text or an image", domain.ErrValidation)
	}

	doc := postToDoc(draft)
	doc.ReplyCount = 0

	var created boardPostDoc
	err := retryTransient(ctx, writeAttempts, func() error {
		return s.client.createDoc(ctx, collPosts, doc, &created)
	})
	if err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}

	if draft.ParentID != "" {
		attempts := uint64(rootIncrementAttempts)
		if draft.ReplyToID != "" {
			attempts = nestedIncrementAttempts
		}
		// Best effort: the reply exists either way, and the repair
		// path fixes the counter next time the thread is opened.
		if err := s.rec.bumpReplyCount(ctx, draft.ParentID, 1, attempts); err != nil {
			s.log.WithError(err).WithField("parent", draft.ParentID).Warn("reply count increment failed")
		}
		s.notifyReply(ctx, draft.ParentID, created)
	}

	return docToPost(created, s.userID), nil
}

// notifyReply queues a notification for the parent post's author.
// Failures anywhere on this path are swallowed: notifying is a
// secondary side effect of posting.
func (s *boardService) notifyReply(ctx context.Context, parentID string, reply boardPostDoc) {
	var parent boardPostDoc
	if err := s.client.getDoc(ctx, collPosts, parentID, &parent); err != nil {
		s.log.WithError(err).WithField("parent", parentID).Warn("reply notification: parent fetch failed")
		return
	}
	if parent.UserID == reply.UserID {
		return
	}
	s.notify.Notify(domain.Notification{
		RecipientID: parent.UserID,
		ActorID:     reply.UserID,
		Kind:        domain.NotifReply,
		TargetID:    parentID,
		Message:     "New reply to your post",
	})
}

func (s *boardService) DeletePost(ctx context.Context, postID, requestorID string) error {
	var doc boardPostDoc
	if err := s.client.getDoc(ctx, collPosts, postID, &doc); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}
	if doc.UserID != requestorID {
		return fmt.Errorf("%w: only the author can delete a post", domain.ErrPermission)
	}

	if doc.ParentID == "" {
		// Root post: remove it and every direct reply in one atomic
		// batch. The reply list is re-derived here, never taken from
		// the replyCount hint.
		eq := map[string]string{"parentId": postID}
		var page postPage
		if err := s.client.queryDocs(ctx, collPosts, docQuery{eq: eq}, &page); err != nil {
			return fmt.Errorf("deleting post: listing replies: %w", err)
		}
		ids := make([]string, 0, len(page.Documents)+1)
		ids = append(ids, postID)
		for _, d := range page.Documents {
			ids = append(ids, d.ID)
		}
		err := retryTransient(ctx, writeAttempts, func() error {
			return s.client.batchDelete(ctx, collPosts, ids)
		})
		if err != nil {
			return fmt.Errorf("deleting post: %w", err)
		}
		return nil
	}

	err := retryTransient(ctx, writeAttempts, func() error {
		return s.client.deleteDoc(ctx, collPosts, postID)
	})
	if err != nil {
		return fmt.Errorf("deleting reply: %w", err)
	}
	// Best-effort decrement; negative drift is clamped on read and
	// repaired on the next thread view.
	if err := s.rec.bumpReplyCount(ctx, doc.ParentID, -1, nestedIncrementAttempts); err != nil {
		s.log.WithError(err).WithField("parent", doc.ParentID).Warn("reply count decrement failed")
	}
	return nil
}

func (s *boardService) ToggleLike(ctx context.Context, postID, userID string, currentlyLiked bool) (bool, error) {
	p := patch{ArrayUnion: map[string][]string{"likes": {userID}}}
	if currentlyLiked {
		p = patch{ArrayRemove: map[string][]string{"likes": {userID}}}
	}
	if err := s.client.patchDoc(ctx, collPosts, postID, p); err != nil {
		return currentlyLiked, fmt.Errorf("toggling like: %w", err)
	}
	return !currentlyLiked, nil
}

func (s *boardService) UploadImage(ctx context.Context, name string, data []byte) (string, error) {
	url, err := s.client.uploadObject(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("uploading image: %w", err)
	}
	return url, nil
}
