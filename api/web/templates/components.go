// Package templates renders the html pages and htmx fragments of the photo
// board.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/util"
)

const (
	SearchLabel       = "Search"
	FavoritesButton   = "Favorites"
	AllPhotosButton   = "All photos"
	BackButton        = "Back"
	ImageContentDesc  = "Photo Image"
	NoItemsAvailable  = "No items available"
	RemoveFavButton   = "Remove from Favorites"
	AddFavButton      = "Add to Favorites"
	RemoveFavQuestion = "Remove from Favorites?"
	AddFavQuestion    = "Add to Favorites?"
)

const htmxScript = "https://unpkg.com/htmx.org@1.9.12"

// htmlWriter keeps the first write error so components can print freely.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) printf(format string, args ...any) {
	if h.err != nil {
		return
	}
	_, h.err = fmt.Fprintf(h.w, format, args...)
}

func (h *htmlWriter) render(ctx context.Context, c templ.Component) {
	if h.err != nil {
		return
	}
	h.err = c.Render(ctx, h.w)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

func safeURL(s string) string {
	return templ.EscapeString(string(templ.URL(s)))
}

// Page wraps body in a complete html document.
func Page(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
		h.printf("  <meta charset=\"utf-8\" />\n  <title>%s</title>\n", esc(title))
		h.printf("  <script src=\"%s\"></script>\n</head>\n<body>\n", htmxScript)
		h.render(ctx, body)
		h.printf("\n</body>\n</html>\n")
		return h.err
	})
}

// PhotoBoard is the list screen: search box, view switch and photo list.
func PhotoBoard(query, view string, photos []state.Photo, favorites mapset.Set[int]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf("<div class=\"photo-board\">\n")
		h.printf("  <input id=\"search\" type=\"search\" name=\"q\" placeholder=\"%s\" aria-label=\"%s\" value=\"%s\" "+
			"hx-get=\"%s\" hx-trigger=\"keyup changed delay:300ms\" hx-target=\"#photo-list\" hx-include=\"#view\" />\n",
			SearchLabel, SearchLabel, esc(query), "/ui/photos")
		h.printf("  <input id=\"view\" type=\"hidden\" name=\"view\" value=\"%s\" />\n", esc(view))
		h.printf("  <div class=\"view-switch\">\n")
		h.printf("    %s\n", viewButton(util.ViewAll, AllPhotosButton, view))
		h.printf("    %s\n", viewButton(util.ViewFavorites, FavoritesButton, view))
		h.printf("  </div>\n")
		h.printf("  <div id=\"photo-list\">\n")
		h.render(ctx, PhotoList(photos, favorites))
		h.printf("\n  </div>\n</div>")
		return h.err
	})
}

func viewButton(view, label, current string) string {
	class := "view-btn"
	if view == current {
		class += " active"
	}
	return fmt.Sprintf(
		"<button class=\"%s\" hx-get=\"%s\" hx-include=\"#search\" hx-target=\"#photo-list\" "+
			"hx-on:click=\"document.getElementById('view').value='%s'\">%s</button>",
		class, safeURL(listURL(view)), view, label,
	)
}

// PhotoList renders the photo rows, or the empty message when there are none.
func PhotoList(photos []state.Photo, favorites mapset.Set[int]) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		if len(photos) == 0 {
			h.printf("<div class=\"no-items\">%s</div>", NoItemsAvailable)
			return h.err
		}

		h.printf("<div class=\"photo-rows\">\n")
		for _, p := range photos {
			h.render(ctx, PhotoItem(p, favorites != nil && favorites.Contains(p.ID)))
		}
		h.printf("</div>")
		return h.err
	})
}

func PhotoItem(photo state.Photo, favorite bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf("  <div class=\"photo-item\" id=\"photo-%d\">\n", photo.ID)
		h.printf("    <a href=\"%s\">\n", safeURL(detailURL(photo)))
		h.printf("      <img src=\"%s\" alt=\"\" class=\"photo-thumbnail\" width=\"50\" height=\"50\" />\n", safeURL(photo.ThumbnailURL))
		h.printf("      <span class=\"photo-title\">%s</span>\n", esc(photo.Title))
		h.printf("    </a>\n    ")
		h.render(ctx, FavoriteButton(photo.ID, favorite))
		h.printf("\n  </div>\n")
		return h.err
	})
}

// FavoriteButton toggles the favorite without asking, as used in the list.
func FavoriteButton(id int, favorite bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		star, mode := "&#9734;", "off"
		if favorite {
			star, mode = "&#9733;", "on"
		}
		h.printf("<button class=\"favorite-btn favorite-%s\" title=\"Favorite\" hx-put=\"%s\" hx-swap=\"outerHTML\">%s</button>",
			mode, safeURL(favoriteURL(id)), star)
		return h.err
	})
}

// DetailFavoriteButton toggles the favorite after a confirmation prompt.
func DetailFavoriteButton(id int, favorite bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		label, question := AddFavButton, AddFavQuestion
		if favorite {
			label, question = RemoveFavButton, RemoveFavQuestion
		}
		h.printf("<button class=\"detail-favorite-btn\" hx-put=\"%s?detail=true\" hx-swap=\"outerHTML\" hx-confirm=\"%s\">%s</button>",
			safeURL(favoriteURL(id)), question, label)
		return h.err
	})
}

// PhotoDetail is the detail screen of a single photo.
func PhotoDetail(photo state.Photo, favorite bool) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf("<div class=\"photo-detail\">\n")
		h.printf("  <a class=\"back-btn\" href=\"/\">%s</a>\n", BackButton)
		h.printf("  <img src=\"%s\" alt=\"%s\" class=\"photo-full\" />\n", safeURL(photo.URL), ImageContentDesc)
		h.printf("  <h2 class=\"photo-title\">%s</h2>\n  ", esc(photo.Title))
		h.render(ctx, DetailFavoriteButton(photo.ID, favorite))
		h.printf("\n</div>")
		return h.err
	})
}

// NotFound tells the user the requested photo is not in the current list.
func NotFound(id int) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.printf("<div class=\"toast\">Photo not found (%d)</div>\n", id)
		h.printf("<a class=\"back-btn\" href=\"/\">%s</a>", BackButton)
		return h.err
	})
}
