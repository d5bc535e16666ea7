// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"sync"

	"github.com/pdiddy/scholar-query/internal/device"
	"github.com/pdiddy/scholar-query/pkg/types"
)

// Subscriptions deliver the full current list, newest first, after every
// change -- a replacement snapshot, not a diff. Channels are buffered
// with capacity one: when a subscriber lags, the pending snapshot is
// replaced by the fresh one, so a consumer may skip intermediate states
// but never receives a state older than the last one it read.

type searchSub struct {
	owner device.Identity
	ch    chan []types.Search
}

type favoriteSub struct {
	owner device.Identity
	ch    chan []types.Favorite
}

type subscribers struct {
	mu        sync.Mutex
	nextID    int
	searches  map[int]*searchSub
	favorites map[int]*favoriteSub
	closed    bool
}

// SubscribeSearches registers a subscriber for the owner's history. The
// current snapshot is delivered immediately, then a new snapshot after
// every change. The returned cancel func (or ctx cancellation) closes
// the channel and deregisters the subscriber.
func (s *Store) SubscribeSearches(ctx context.Context, owner device.Identity) (<-chan []types.Search, func(), error) {
	initial, err := s.Searches(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	sub := &searchSub{owner: owner, ch: make(chan []types.Search, 1)}
	id := s.subs.addSearch(sub)
	s.subs.pushSearchTo(id, initial)

	var once sync.Once
	cancel := func() {
		once.Do(func() { s.subs.removeSearch(id) })
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel, nil
}

// SubscribeFavorites registers a subscriber for the owner's favorites
// with the same snapshot-replacement contract as SubscribeSearches.
func (s *Store) SubscribeFavorites(ctx context.Context, owner device.Identity) (<-chan []types.Favorite, func(), error) {
	initial, err := s.Favorites(ctx, owner)
	if err != nil {
		return nil, nil, err
	}

	sub := &favoriteSub{owner: owner, ch: make(chan []types.Favorite, 1)}
	id := s.subs.addFavorite(sub)
	s.subs.pushFavoriteTo(id, initial)

	var once sync.Once
	cancel := func() {
		once.Do(func() { s.subs.removeFavorite(id) })
	}
	go func() {
		<-ctx.Done()
		cancel()
	}()

	return sub.ch, cancel, nil
}

// notifySearches delivers a fresh snapshot to every search subscriber
// watching owner. A failed snapshot query skips notification; the next
// successful change re-synchronizes subscribers.
func (s *Store) notifySearches(ctx context.Context, owner device.Identity) {
	if !s.subs.hasSearchSubs(owner) {
		return
	}
	snapshot, err := s.Searches(ctx, owner)
	if err != nil {
		return
	}
	s.subs.pushSearches(owner, snapshot)
}

func (s *Store) notifyFavorites(ctx context.Context, owner device.Identity) {
	if !s.subs.hasFavoriteSubs(owner) {
		return
	}
	snapshot, err := s.Favorites(ctx, owner)
	if err != nil {
		return
	}
	s.subs.pushFavorites(owner, snapshot)
}

// push replaces any undelivered snapshot with the fresh one.
func (sub *searchSub) push(snapshot []types.Search) {
	for {
		select {
		case sub.ch <- snapshot:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (sub *favoriteSub) push(snapshot []types.Favorite) {
	for {
		select {
		case sub.ch <- snapshot:
			return
		default:
			select {
			case <-sub.ch:
			default:
			}
		}
	}
}

func (t *subscribers) addSearch(sub *searchSub) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.searches == nil {
		t.searches = make(map[int]*searchSub)
	}
	t.nextID++
	t.searches[t.nextID] = sub
	return t.nextID
}

func (t *subscribers) addFavorite(sub *favoriteSub) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.favorites == nil {
		t.favorites = make(map[int]*favoriteSub)
	}
	t.nextID++
	t.favorites[t.nextID] = sub
	return t.nextID
}

func (t *subscribers) removeSearch(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.searches[id]; ok {
		delete(t.searches, id)
		close(sub.ch)
	}
}

func (t *subscribers) removeFavorite(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.favorites[id]; ok {
		delete(t.favorites, id)
		close(sub.ch)
	}
}

func (t *subscribers) hasSearchSubs(owner device.Identity) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.searches {
		if sub.owner == owner {
			return true
		}
	}
	return false
}

func (t *subscribers) hasFavoriteSubs(owner device.Identity) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.favorites {
		if sub.owner == owner {
			return true
		}
	}
	return false
}

// pushSearches holds the lock while pushing so a channel is never closed
// mid-send.
func (t *subscribers) pushSearches(owner device.Identity, snapshot []types.Search) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.searches {
		if sub.owner == owner {
			sub.push(snapshot)
		}
	}
}

func (t *subscribers) pushFavorites(owner device.Identity, snapshot []types.Favorite) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, sub := range t.favorites {
		if sub.owner == owner {
			sub.push(snapshot)
		}
	}
}

func (t *subscribers) pushSearchTo(id int, snapshot []types.Search) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.searches[id]; ok {
		sub.push(snapshot)
	}
}

func (t *subscribers) pushFavoriteTo(id int, snapshot []types.Favorite) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if sub, ok := t.favorites[id]; ok {
		sub.push(snapshot)
	}
}

func (t *subscribers) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	t.closed = true
	for id, sub := range t.searches {
		delete(t.searches, id)
		close(sub.ch)
	}
	for id, sub := range t.favorites {
		delete(t.favorites, id)
		close(sub.ch)
	}
}
