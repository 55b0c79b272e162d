package templates

import (
	"bytes"
	"context"
	"testing"

	"github.com/a-h/templ"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/util"
)

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestPhotoList_Empty(t *testing.T) {
	html := renderString(t, PhotoList(nil, nil))
	assert.Contains(t, html, NoItemsAvailable)
}

func TestPhotoList_RendersRows(t *testing.T) {
	photos := []state.Photo{
		{ID: 1, Title: "accusamus beatae", ThumbnailURL: "https://dummyimage.com/150/1"},
		{ID: 2, Title: "<b>bold</b>", ThumbnailURL: "javascript:alert(1)"},
	}
	html := renderString(t, PhotoList(photos, mapset.NewSet(2)))

	assert.Contains(t, html, `href="/ui/photos/1/accusamus-beatae"`)
	assert.Contains(t, html, `src="https://dummyimage.com/150/1"`)
	assert.Contains(t, html, "&lt;b&gt;bold&lt;/b&gt;")
	assert.NotContains(t, html, "<b>bold</b>")
	assert.NotContains(t, html, "javascript:alert")
	assert.Contains(t, html, `class="favorite-btn favorite-off" title="Favorite" hx-put="/photos/1/favorite"`)
	assert.Contains(t, html, `class="favorite-btn favorite-on" title="Favorite" hx-put="/photos/2/favorite"`)
}

func TestPhotoDetail(t *testing.T) {
	p := state.Photo{ID: 3, Title: "officia porro", URL: "https://dummyimage.com/600/3"}

	html := renderString(t, PhotoDetail(p, false))
	assert.Contains(t, html, AddFavButton)
	assert.Contains(t, html, `hx-confirm="Add to Favorites?"`)
	assert.Contains(t, html, `alt="Photo Image"`)
	assert.Contains(t, html, BackButton)

	html = renderString(t, PhotoDetail(p, true))
	assert.Contains(t, html, RemoveFavButton)
	assert.Contains(t, html, `hx-confirm="Remove from Favorites?"`)
}

func TestPhotoBoard(t *testing.T) {
	html := renderString(t, Page("photoboard", PhotoBoard(`"quoted"`, util.ViewFavorites, nil, nil)))

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, `value="&#34;quoted&#34;"`)
	assert.Contains(t, html, AllPhotosButton)
	assert.Contains(t, html, `class="view-btn active" hx-get="/ui/photos?view=favorites"`)
	assert.Contains(t, html, NoItemsAvailable)
}

func TestNotFound(t *testing.T) {
	assert.Contains(t, renderString(t, NotFound(42)), "Photo not found (42)")
}

func TestDetailURL_EmptyTitle(t *testing.T) {
	assert.Equal(t, "/ui/photos/5", detailURL(state.Photo{ID: 5}))
}
