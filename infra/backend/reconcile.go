package backend

import (
	"context"

	"github.com/sirupsen/logrus"
)

// Reply-count increment retry budget. Replies to a root post get one
// more attempt than nested replies; past the budget the counter is
// allowed to drift and the repair path catches up later.
const (
	rootIncrementAttempts   = 3
	nestedIncrementAttempts = 2
)

// reconciler keeps the denormalized replyCount field on parent posts
// in step with the actual reply documents. The backend has no
// transactional join, so the counter is a hint: incremented on write,
// recomputed and corrected whenever a thread is opened.
type reconciler struct {
	client *Client
	log    *logrus.Logger
}

// bumpReplyCount applies an atomic increment to the parent's counter,
// retrying transient failures within the given attempt budget.
func (r *reconciler) bumpReplyCount(ctx context.Context, parentID string, delta int, attempts uint64) error {
	return retryTransient(ctx, attempts, func() error {
		return r.client.patchDoc(ctx, collPosts, parentID, patch{
			Increment: map[string]int{"replyCount": delta},
		})
	})
}

// repair issues a corrective write when the stored counter disagrees
// with a freshly fetched reply list. Concurrent repairs race
// last-write-wins; the counter is display-only so that is acceptable.
// All failures are logged and swallowed.
func (r *reconciler) repair(ctx context.Context, parentID string, replyCount int) {
	var doc boardPostDoc
	if err := r.client.getDoc(ctx, collPosts, parentID, &doc); err != nil {
		r.log.WithError(err).WithField("post", parentID).Warn("reply count repair: parent fetch failed")
		return
	}
	if doc.ReplyCount == replyCount {
		return
	}
	err := r.client.patchDoc(ctx, collPosts, parentID, patch{
		Set: map[string]any{"replyCount": replyCount},
	})
	if err != nil {
		r.log.WithError(err).WithField("post", parentID).Warn("reply count repair: corrective write failed")
		return
	}
	r.log.WithFields(logrus.Fields{
		"post": parentID,
		"from": doc.ReplyCount,
		"to":   replyCount,
	}).Debug("reply count repaired")
}
