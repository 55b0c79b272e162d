// Package state holds the fetched photo collection and the session's favorite
// photo ids, and notifies observers when either changes.
package state

import (
	"slices"
	"strings"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
)

type photoObserver struct {
	id int
	fn func([]Photo)
}

type favoriteObserver struct {
	id int
	fn func([]int)
}

// PhotoState is the single source of truth for fetched photos and favorites.
// Favorites are tracked by id only and may reference photos that are no
// longer part of the current collection.
type PhotoState struct {
	mu        sync.RWMutex
	photos    []Photo
	favorites mapset.Set[int]

	// held from mutation through dispatch so observers see snapshots in
	// mutation order
	photoNotifyMu    sync.Mutex
	favoriteNotifyMu sync.Mutex

	obsMu             sync.Mutex
	nextObserverID    int
	photoObservers    []photoObserver
	favoriteObservers []favoriteObserver
}

func New() *PhotoState {
	return &PhotoState{
		photos:    []Photo{},
		favorites: mapset.NewThreadUnsafeSet[int](),
	}
}

// Photos returns a snapshot of the current collection in fetch order.
func (s *PhotoState) Photos() []Photo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.photos)
}

// Favorites returns a snapshot of the favorite ids.
func (s *PhotoState) Favorites() mapset.Set[int] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Clone()
}

// FavoriteIDs returns the favorite ids in ascending order.
func (s *PhotoState) FavoriteIDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favoriteIDsLocked()
}

func (s *PhotoState) favoriteIDsLocked() []int {
	ids := s.favorites.ToSlice()
	slices.Sort(ids)
	return ids
}

func (s *PhotoState) IsFavorite(id int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.favorites.Contains(id)
}

// FindPhotoByID returns the photo with the given id from the current
// collection. The boolean is false when no photo matches.
func (s *PhotoState) FindPhotoByID(id int) (Photo, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.photos {
		if p.ID == id {
			return p, true
		}
	}
	return Photo{}, false
}

// SetPhotos replaces the whole collection. Favorites are left untouched.
func (s *PhotoState) SetPhotos(photos []Photo) {
	next := slices.Clone(photos)
	if next == nil {
		next = []Photo{}
	}

	s.photoNotifyMu.Lock()
	defer s.photoNotifyMu.Unlock()

	s.mu.Lock()
	s.photos = next
	s.mu.Unlock()

	s.notifyPhotos(slices.Clone(next))
}

// ToggleFavorite removes id from the favorites if present and adds it
// otherwise. It returns whether id is a favorite afterwards.
func (s *PhotoState) ToggleFavorite(id int) bool {
	s.favoriteNotifyMu.Lock()
	defer s.favoriteNotifyMu.Unlock()

	s.mu.Lock()
	favorite := !s.favorites.Contains(id)
	if favorite {
		s.favorites.Add(id)
	} else {
		s.favorites.Remove(id)
	}
	ids := s.favoriteIDsLocked()
	s.mu.Unlock()

	s.notifyFavorites(ids)
	return favorite
}

// SubscribePhotos registers fn to be called with a snapshot after every
// SetPhotos. Observers may read the state but must not mutate it. The
// returned func removes the observer.
func (s *PhotoState) SubscribePhotos(fn func([]Photo)) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObserverID
	s.nextObserverID++
	s.photoObservers = append(s.photoObservers, photoObserver{id: id, fn: fn})

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.photoObservers = slices.DeleteFunc(s.photoObservers, func(o photoObserver) bool {
			return o.id == id
		})
	}
}

// SubscribeFavorites registers fn to be called with the sorted favorite ids
// after every ToggleFavorite. The returned func removes the observer.
func (s *PhotoState) SubscribeFavorites(fn func([]int)) (cancel func()) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()

	id := s.nextObserverID
	s.nextObserverID++
	s.favoriteObservers = append(s.favoriteObservers, favoriteObserver{id: id, fn: fn})

	return func() {
		s.obsMu.Lock()
		defer s.obsMu.Unlock()
		s.favoriteObservers = slices.DeleteFunc(s.favoriteObservers, func(o favoriteObserver) bool {
			return o.id == id
		})
	}
}

func (s *PhotoState) notifyPhotos(photos []Photo) {
	s.obsMu.Lock()
	observers := slices.Clone(s.photoObservers)
	s.obsMu.Unlock()

	for _, o := range observers {
		o.fn(photos)
	}
}

func (s *PhotoState) notifyFavorites(ids []int) {
	s.obsMu.Lock()
	observers := slices.Clone(s.favoriteObservers)
	s.obsMu.Unlock()

	for _, o := range observers {
		o.fn(ids)
	}
}

// Filter keeps the photos whose title contains query, ignoring case. With
// favoritesOnly set, photos that are not in favorites are dropped as well.
func Filter(photos []Photo, favorites mapset.Set[int], query string, favoritesOnly bool) []Photo {
	query = strings.ToLower(query)

	filtered := make([]Photo, 0, len(photos))
	for _, p := range photos {
		if query != "" && !strings.Contains(strings.ToLower(p.Title), query) {
			continue
		}
		if favoritesOnly && (favorites == nil || !favorites.Contains(p.ID)) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}
