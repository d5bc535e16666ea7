// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"testing"
	"time"

	"github.com/pdiddy/scholar-query/pkg/types"
)

// recv waits for one snapshot with a timeout so a broken notifier fails
// the test instead of hanging it.
func recv(t *testing.T, ch <-chan []types.Search) []types.Search {
	t.Helper()
	select {
	case snap, ok := <-ch:
		if !ok {
			t.Fatal("channel closed unexpectedly")
		}
		return snap
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateSearch(t, s, ownerA, "existing")

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatalf("SubscribeSearches() error: %v", err)
	}
	defer cancel()

	snap := recv(t, ch)
	if len(snap) != 1 || snap[0].Query != "existing" {
		t.Errorf("initial snapshot = %+v, want the existing record", snap)
	}
}

func TestCreateInsertsAtHeadOfSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateSearch(t, s, ownerA, "older")

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch) // initial

	mustCreateSearch(t, s, ownerA, "newer")

	snap := recv(t, ch)
	if len(snap) != 2 {
		t.Fatalf("len = %d, want 2", len(snap))
	}
	if snap[0].Query != "newer" {
		t.Errorf("head = %q, want the new record at the head", snap[0].Query)
	}
}

func TestDeleteRemovesFromSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := mustCreateSearch(t, s, ownerA, "doomed")
	kept := mustCreateSearch(t, s, ownerA, "kept")

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch) // initial

	if err := s.DeleteSearch(ctx, ownerA, rec.ID); err != nil {
		t.Fatal(err)
	}

	snap := recv(t, ch)
	if len(snap) != 1 || snap[0].ID != kept.ID {
		t.Errorf("snapshot = %+v, want only the kept record", snap)
	}
}

func TestClearYieldsEmptySnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	mustCreateSearch(t, s, ownerA, "a")
	mustCreateSearch(t, s, ownerA, "b")

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch) // initial

	if err := s.ClearSearches(ctx, ownerA); err != nil {
		t.Fatal(err)
	}

	snap := recv(t, ch)
	if len(snap) != 0 {
		t.Errorf("snapshot after clear = %+v, want empty", snap)
	}
}

func TestMultipleSubscribers(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch1, cancel1, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel1()
	ch2, cancel2, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel2()

	recv(t, ch1)
	recv(t, ch2)

	mustCreateSearch(t, s, ownerA, "shared")

	if snap := recv(t, ch1); len(snap) != 1 {
		t.Errorf("subscriber 1 snapshot len = %d, want 1", len(snap))
	}
	if snap := recv(t, ch2); len(snap) != 1 {
		t.Errorf("subscriber 2 snapshot len = %d, want 1", len(snap))
	}
}

func TestSubscriberScopedToOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch) // initial (empty)

	// A write by another installation does not disturb this subscriber.
	mustCreateSearch(t, s, ownerB, "other-device")
	mustCreateSearch(t, s, ownerA, "mine")

	snap := recv(t, ch)
	if len(snap) != 1 || snap[0].Query != "mine" {
		t.Errorf("snapshot = %+v, want only this owner's record", snap)
	}
}

func TestLaggingSubscriberGetsLatestState(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch) // initial

	// Two writes without a read in between: the pending snapshot is
	// replaced, never delivered out of order.
	mustCreateSearch(t, s, ownerA, "first")
	mustCreateSearch(t, s, ownerA, "second")

	snap := recv(t, ch)
	if len(snap) != 2 {
		t.Errorf("lagging subscriber snapshot len = %d, want the latest state (2)", len(snap))
	}
}

func TestCancelClosesChannel(t *testing.T) {
	s := newTestStore(t)

	ch, cancel, err := s.SubscribeSearches(context.Background(), ownerA)
	if err != nil {
		t.Fatal(err)
	}
	recv(t, ch) // initial
	cancel()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after cancel")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after cancel")
	}

	// Further writes must not panic with the subscriber gone.
	mustCreateSearch(t, s, ownerA, "after-cancel")
}

func TestContextCancelUnsubscribes(t *testing.T) {
	s := newTestStore(t)
	ctx, cancelCtx := context.WithCancel(context.Background())

	ch, cancel, err := s.SubscribeSearches(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()
	recv(t, ch)

	cancelCtx()

	select {
	case _, ok := <-ch:
		if ok {
			t.Error("expected closed channel after context cancellation")
		}
	case <-time.After(2 * time.Second):
		t.Error("channel not closed after context cancellation")
	}
}

func TestSubscribeFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ch, cancel, err := s.SubscribeFavorites(ctx, ownerA)
	if err != nil {
		t.Fatal(err)
	}
	defer cancel()

	select {
	case snap := <-ch:
		if len(snap) != 0 {
			t.Errorf("initial snapshot len = %d, want 0", len(snap))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial snapshot")
	}

	if _, err := s.CreateFavorite(ctx, ownerA, "fav", "", sampleCriteria()); err != nil {
		t.Fatal(err)
	}

	select {
	case snap := <-ch:
		if len(snap) != 1 || snap[0].Name != "fav" {
			t.Errorf("snapshot = %+v, want the new favorite", snap)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for favorite snapshot")
	}
}
