package board

import (
	"errors"
	"testing"
	"time"
)

func TestPostsLoaded_StaleSequenceIgnored(t *testing.T) {
	m := newTestModel()
	m.reqSeq = 2

	updated, _ := m.Update(PostsLoadedMsg{
		Posts:  posts("a", "b"),
		ReqSeq: 1,
	})
	if len(updated.items) != 0 {
		t.Fatalf("expected stale load ignored, got %d items", len(updated.items))
	}
	if updated.phase != phaseLoading {
		t.Fatalf("expected phase unchanged, got %v", updated.phase)
	}
}

func TestPageLoaded_DeduplicatesByID(t *testing.T) {
	m := loaded(newTestModel(),
		makePost("a", time.Now(), "u2"),
		makePost("b", time.Now(), "u2"),
	)
	m.hasMore = true

	updated, _ := m.Update(PageLoadedMsg{
		Posts:    posts("b", "c"),
		Next:     "c",
		RawCount: 2,
		ReqSeq:   m.reqSeq,
	})

	if len(updated.items) != 3 {
		t.Fatalf("expected 3 unique items, got %d", len(updated.items))
	}
	seen := map[string]bool{}
	for _, it := range updated.items {
		if seen[it.Post.ID] {
			t.Fatalf("duplicate id %q after pagination", it.Post.ID)
		}
		seen[it.Post.ID] = true
	}
}

func TestPageLoaded_EmptyPageEndsFeed(t *testing.T) {
	m := loaded(newTestModel(), makePost("a", time.Now(), "u2"))
	m.hasMore = true

	updated, _ := m.Update(PageLoadedMsg{ReqSeq: m.reqSeq})
	if updated.hasMore {
		t.Fatal("expected feed exhausted after empty page")
	}
}

func TestRefresh_KeepsPendingEntries(t *testing.T) {
	m := newTestModel()
	localID := LocalID()
	m, _ = m.Update(AddOptimisticPostMsg{Post: makePost(localID, time.Now(), "u1")})
	m.phase = phaseRefreshing

	updated, _ := m.Update(PostsLoadedMsg{
		Posts:   posts("x", "y"),
		Refresh: true,
		ReqSeq:  m.reqSeq,
	})

	if len(updated.items) != 3 {
		t.Fatalf("expected pending entry kept through refresh, got %d items", len(updated.items))
	}
	if updated.items[0].Post.ID != localID {
		t.Fatalf("expected pending entry at top, got %q", updated.items[0].Post.ID)
	}
}

func TestRefresh_DoesNotResurrectInFlightDelete(t *testing.T) {
	m := loaded(newTestModel(), makePost("a", time.Now(), "u1"), makePost("b", time.Now(), "u2"))
	m.items[0].Post.IsOwn = true
	m, _ = m.deleteSelected(m.items[0])
	m.phase = phaseRefreshing

	// The refresh raced the delete and still contains "a".
	updated, _ := m.Update(PostsLoadedMsg{
		Posts:   posts("a", "b"),
		Refresh: true,
		ReqSeq:  m.reqSeq,
	})

	for _, it := range updated.items {
		if it.Post.ID == "a" {
			t.Fatal("expected in-flight delete to stay removed through refresh")
		}
	}
}

func TestBackgroundRefreshError_KeepsFeedOnScreen(t *testing.T) {
	m := loaded(newTestModel(), makePost("a", time.Now(), "u2"))
	m.phase = phaseRefreshing

	updated, _ := m.Update(PostsErrorMsg{Err: errors.New("blip"), Refresh: true, ReqSeq: m.reqSeq})
	if updated.phase != phaseLoaded {
		t.Fatalf("expected feed kept after refresh failure, got phase %v", updated.phase)
	}
	if len(updated.items) != 1 {
		t.Fatalf("expected items untouched, got %d", len(updated.items))
	}
}

func TestRefreshTick_SkippedWhileBusy(t *testing.T) {
	m := loaded(newTestModel(), makePost("a", time.Now(), "u2"))
	m.pendingOps = 1
	before := m.reqSeq

	updated, cmd := m.Update(RefreshTickMsg{})
	if updated.reqSeq != before {
		t.Fatal("expected no refresh issued while a mutation is in flight")
	}
	if cmd == nil {
		t.Fatal("expected the timer to be rearmed even when skipped")
	}
}

func TestRefreshTick_RunsWhenIdle(t *testing.T) {
	m := loaded(newTestModel(), makePost("a", time.Now(), "u2"))
	before := m.reqSeq

	updated, cmd := m.Update(RefreshTickMsg{})
	if updated.reqSeq != before+1 {
		t.Fatal("expected a refresh request when idle")
	}
	if updated.phase != phaseRefreshing {
		t.Fatalf("expected refreshing phase, got %v", updated.phase)
	}
	if cmd == nil {
		t.Fatal("expected refresh command")
	}
}
