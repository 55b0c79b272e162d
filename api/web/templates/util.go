package templates

import (
	"fmt"

	"github.com/gosimple/slug"

	"github.com/aouyang1/photoboard/state"
)

func detailURL(photo state.Photo) string {
	if s := slug.Make(photo.Title); s != "" {
		return fmt.Sprintf("/ui/photos/%d/%s", photo.ID, s)
	}
	return fmt.Sprintf("/ui/photos/%d", photo.ID)
}

func favoriteURL(id int) string {
	return fmt.Sprintf("/photos/%d/favorite", id)
}

func listURL(view string) string {
	return "/ui/photos?view=" + view
}
