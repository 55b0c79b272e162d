package state

import (
	"sync"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePhotos() []Photo {
	return []Photo{
		{ID: 1, AlbumID: 1, Title: "accusamus beatae", URL: "u1", ThumbnailURL: "t1"},
		{ID: 2, AlbumID: 1, Title: "reprehenderit est", URL: "u2", ThumbnailURL: "t2"},
		{ID: 3, AlbumID: 2, Title: "officia porro BEATAE", URL: "u3", ThumbnailURL: "t3"},
	}
}

func TestNew_Empty(t *testing.T) {
	s := New()
	assert.Empty(t, s.Photos())
	assert.NotNil(t, s.Photos())
	assert.Equal(t, 0, s.Favorites().Cardinality())
	assert.Empty(t, s.FavoriteIDs())
}

func TestToggleFavorite_AddThenRemove(t *testing.T) {
	s := New()

	assert.True(t, s.ToggleFavorite(1))
	assert.Equal(t, []int{1}, s.Favorites().ToSlice())

	assert.False(t, s.ToggleFavorite(1))
	assert.Equal(t, 0, s.Favorites().Cardinality())
}

func TestToggleFavorite_FlipsOncePerCall(t *testing.T) {
	s := New()
	s.ToggleFavorite(7)
	before := s.IsFavorite(7)

	for i := 1; i <= 6; i++ {
		got := s.ToggleFavorite(7)
		if i%2 == 0 {
			assert.Equal(t, before, got, "after %d toggles", i)
		} else {
			assert.Equal(t, !before, got, "after %d toggles", i)
		}
		assert.Equal(t, got, s.IsFavorite(7))
	}
}

func TestToggleFavorite_UnknownPhotoID(t *testing.T) {
	s := New()
	s.SetPhotos(samplePhotos())

	assert.True(t, s.ToggleFavorite(999))
	assert.Equal(t, []int{999}, s.FavoriteIDs())
}

func TestSetPhotos_ReturnsSameSequence(t *testing.T) {
	s := New()
	photos := samplePhotos()
	s.SetPhotos(photos)
	assert.Equal(t, photos, s.Photos())

	s.SetPhotos(photos[1:2])
	assert.Equal(t, photos[1:2], s.Photos())

	s.SetPhotos(nil)
	assert.Equal(t, []Photo{}, s.Photos())
}

func TestSetPhotos_SnapshotsDoNotAlias(t *testing.T) {
	s := New()
	photos := samplePhotos()
	s.SetPhotos(photos)

	photos[0].Title = "changed by caller"
	assert.Equal(t, "accusamus beatae", s.Photos()[0].Title)

	snap := s.Photos()
	snap[1].Title = "changed by reader"
	assert.Equal(t, "reprehenderit est", s.Photos()[1].Title)

	favs := s.Favorites()
	favs.Add(42)
	assert.False(t, s.IsFavorite(42))
}

func TestFindPhotoByID(t *testing.T) {
	s := New()
	p := Photo{ID: 1, AlbumID: 1, Title: "a"}
	s.SetPhotos([]Photo{p})

	got, ok := s.FindPhotoByID(1)
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, ok = s.FindPhotoByID(2)
	assert.False(t, ok)
}

func TestSetPhotos_KeepsFavorites(t *testing.T) {
	s := New()
	s.ToggleFavorite(1)
	s.ToggleFavorite(2)

	s.SetPhotos([]Photo{})
	assert.Equal(t, []int{1, 2}, s.FavoriteIDs())
}

func TestObservers(t *testing.T) {
	s := New()

	var gotPhotos [][]Photo
	var gotFavorites [][]int
	cancelPhotos := s.SubscribePhotos(func(p []Photo) { gotPhotos = append(gotPhotos, p) })
	cancelFavs := s.SubscribeFavorites(func(ids []int) { gotFavorites = append(gotFavorites, ids) })

	s.SetPhotos(samplePhotos())
	s.ToggleFavorite(3)
	s.ToggleFavorite(1)

	require.Len(t, gotPhotos, 1)
	assert.Len(t, gotPhotos[0], 3)
	assert.Equal(t, [][]int{{3}, {1, 3}}, gotFavorites)

	cancelPhotos()
	cancelPhotos()
	cancelFavs()
	s.SetPhotos(nil)
	s.ToggleFavorite(1)
	assert.Len(t, gotPhotos, 1)
	assert.Len(t, gotFavorites, 2)
}

func TestObservers_RegistrationOrder(t *testing.T) {
	s := New()
	var order []string
	s.SubscribeFavorites(func([]int) { order = append(order, "first") })
	s.SubscribeFavorites(func([]int) { order = append(order, "second") })

	s.ToggleFavorite(5)
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestObserver_CanReadStateDuringNotify(t *testing.T) {
	s := New()
	var seen bool
	s.SubscribeFavorites(func([]int) { seen = s.IsFavorite(4) })

	s.ToggleFavorite(4)
	assert.True(t, seen)
}

func TestObservers_ConcurrentTogglesDeliveredInOrder(t *testing.T) {
	s := New()

	var snapshots [][]int
	s.SubscribeFavorites(func(ids []int) { snapshots = append(snapshots, ids) })

	const workers, rounds = 8, 200
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for range rounds {
				s.ToggleFavorite(id)
			}
		}(w)
	}
	wg.Wait()

	require.Len(t, snapshots, workers*rounds)
	for i := 1; i < len(snapshots); i++ {
		diff := len(snapshots[i]) - len(snapshots[i-1])
		assert.True(t, diff == 1 || diff == -1, "snapshot %d changed by %d", i, diff)
	}
	assert.Equal(t, s.FavoriteIDs(), snapshots[len(snapshots)-1])
}

func TestFilter(t *testing.T) {
	photos := samplePhotos()
	favs := mapset.NewSet(2, 3)

	tests := []struct {
		name          string
		query         string
		favoritesOnly bool
		want          []int
	}{
		{"no filter", "", false, []int{1, 2, 3}},
		{"case insensitive", "beatae", false, []int{1, 3}},
		{"favorites only", "", true, []int{2, 3}},
		{"query and favorites", "BeAtAe", true, []int{3}},
		{"no match", "zzz", false, []int{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(photos, favs, tt.query, tt.favoritesOnly)
			ids := make([]int, 0, len(got))
			for _, p := range got {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestFilter_NilFavorites(t *testing.T) {
	assert.Empty(t, Filter(samplePhotos(), nil, "", true))
}
