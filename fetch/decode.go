package fetch

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/tidwall/gjson"

	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/util"
)

var (
	ErrInvalidJSON  = errors.New("photo payload is not valid JSON")
	ErrNotArray     = errors.New("photo payload is not a JSON array")
	ErrInvalidPhoto = errors.New("invalid photo record")
	ErrNoPhotos     = errors.New("photo payload contains no photos")
)

// Decode parses a JSON array of photo records and returns at most limit
// photos, in payload order. A limit <= 0 keeps every record. Any malformed
// record within the limit fails the whole decode, and so does an empty array.
func Decode(data []byte, limit int) ([]state.Photo, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, ErrNotArray
	}

	items := root.Array()
	if len(items) == 0 {
		return nil, ErrNoPhotos
	}
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	photos := make([]state.Photo, 0, len(items))
	for i, item := range items {
		p, err := decodePhoto(item)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		photos = append(photos, p)
	}
	return photos, nil
}

func decodePhoto(item gjson.Result) (state.Photo, error) {
	if !item.IsObject() {
		return state.Photo{}, fmt.Errorf("%w: not an object", ErrInvalidPhoto)
	}

	id, err := intField(item, "id")
	if err != nil {
		return state.Photo{}, err
	}
	albumID, err := intField(item, "albumId")
	if err != nil {
		return state.Photo{}, err
	}
	title, err := stringField(item, "title")
	if err != nil {
		return state.Photo{}, err
	}
	url, err := stringField(item, "url")
	if err != nil {
		return state.Photo{}, err
	}
	thumbnailURL, err := stringField(item, "thumbnailUrl")
	if err != nil {
		return state.Photo{}, err
	}

	return state.Photo{
		ID:           id,
		AlbumID:      albumID,
		Title:        title,
		URL:          util.RewriteImageURL(url),
		ThumbnailURL: util.RewriteImageURL(thumbnailURL),
	}, nil
}

func intField(item gjson.Result, key string) (int, error) {
	v := item.Get(key)
	switch v.Type {
	case gjson.Number:
		return int(v.Int()), nil
	case gjson.String:
		n, err := strconv.Atoi(v.Str)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not an integer", ErrInvalidPhoto, key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: missing integer %q", ErrInvalidPhoto, key)
	}
}

func stringField(item gjson.Result, key string) (string, error) {
	v := item.Get(key)
	switch v.Type {
	case gjson.String, gjson.Number, gjson.True, gjson.False:
		return v.String(), nil
	default:
		return "", fmt.Errorf("%w: missing string %q", ErrInvalidPhoto, key)
	}
}
