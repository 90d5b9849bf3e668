package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoot(t *testing.T) {
	p, err := NewRoot(CircleScope("c1"), "u1", "  hello  ", "")
	require.NoError(t, err)
	assert.Equal(t, "hello", p.Text)
	assert.True(t, p.IsRoot())

	_, err = NewRoot(CircleScope("c1"), "u1", "   ", "")
	assert.ErrorIs(t, err, ErrValidation)

	// Image-only posts are valid.
	p, err = NewRoot(EventScope("e1"), "u1", "", "https://img.example/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, EventScope("e1"), p.Scope)
}

func TestNewReply_AttachesToRoot(t *testing.T) {
	root := Post{ID: "p1", Scope: CircleScope("c1")}
	r, err := NewReply(root, "u2", "hi", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "p1", r.ParentID)
	assert.Empty(t, r.ReplyToID)
	assert.False(t, r.IsRoot())
}

func TestNewReply_ToAnotherReplyStaysTwoLevels(t *testing.T) {
	root := Post{ID: "p1", Scope: CircleScope("c1")}
	sibling := Post{ID: "p2", ParentID: "p1", Scope: CircleScope("c1")}

	r, err := NewReply(root, "u2", "hi", "", &sibling)
	require.NoError(t, err)
	assert.Equal(t, "p1", r.ParentID, "nested replies still hang off the root")
	assert.Equal(t, "p2", r.ReplyToID)
}

func TestNewReply_RejectsNonRootParent(t *testing.T) {
	reply := Post{ID: "p2", ParentID: "p1", Scope: CircleScope("c1")}
	_, err := NewReply(reply, "u2", "hi", "", nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewReply_RejectsForeignThreadTarget(t *testing.T) {
	root := Post{ID: "p1", Scope: CircleScope("c1")}
	stranger := Post{ID: "p9", ParentID: "other-root", Scope: CircleScope("c1")}
	_, err := NewReply(root, "u2", "hi", "", &stranger)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestToggleLike_SetSemantics(t *testing.T) {
	p := Post{}
	p.ToggleLike("u1")
	p.ToggleLike("u2")
	assert.True(t, p.LikedBy("u1"))
	assert.True(t, p.LikedBy("u2"))
	assert.Len(t, p.Likes, 2)

	p.ToggleLike("u1")
	assert.False(t, p.LikedBy("u1"))
	assert.Equal(t, []string{"u2"}, p.Likes)

	p.ToggleLike("u2")
	assert.Empty(t, p.Likes)
}
