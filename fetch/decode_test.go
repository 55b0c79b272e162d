package fetch

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aouyang1/photoboard/state"
)

func payload(n int) []byte {
	records := make([]string, n)
	for i := range records {
		id := i + 1
		records[i] = fmt.Sprintf(
			`{"albumId": %d, "id": %d, "title": "title %d", "url": "https://via.placeholder.com/600/%d", "thumbnailUrl": "https://via.placeholder.com/150/%d"}`,
			id/50+1, id, id, id, id,
		)
	}
	return []byte("[" + strings.Join(records, ",") + "]")
}

func TestDecode_DefaultLimit(t *testing.T) {
	photos, err := Decode(payload(50), DefaultLimit)
	require.NoError(t, err)
	require.Len(t, photos, 20)

	assert.Equal(t, state.Photo{
		ID:           1,
		AlbumID:      1,
		Title:        "title 1",
		URL:          "https://dummyimage.com/600/1",
		ThumbnailURL: "https://dummyimage.com/150/1",
	}, photos[0])
	assert.Equal(t, 20, photos[19].ID)
}

func TestDecode_FewerThanLimit(t *testing.T) {
	photos, err := Decode(payload(3), DefaultLimit)
	require.NoError(t, err)
	assert.Len(t, photos, 3)
}

func TestDecode_NoLimit(t *testing.T) {
	photos, err := Decode(payload(30), 0)
	require.NoError(t, err)
	assert.Len(t, photos, 30)
}

func TestDecode_EmptyArray(t *testing.T) {
	photos, err := Decode([]byte(`[]`), DefaultLimit)
	assert.ErrorIs(t, err, ErrNoPhotos)
	assert.Nil(t, photos)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"invalid json", `[{"id": 1`, ErrInvalidJSON},
		{"object payload", `{"id": 1}`, ErrNotArray},
		{"record not object", `[1, 2]`, ErrInvalidPhoto},
		{"missing id", `[{"albumId": 1, "title": "a", "url": "u", "thumbnailUrl": "t"}]`, ErrInvalidPhoto},
		{"bad id", `[{"id": "x", "albumId": 1, "title": "a", "url": "u", "thumbnailUrl": "t"}]`, ErrInvalidPhoto},
		{"null title", `[{"id": 1, "albumId": 1, "title": null, "url": "u", "thumbnailUrl": "t"}]`, ErrInvalidPhoto},
		{"missing thumbnail", `[{"id": 1, "albumId": 1, "title": "a", "url": "u"}]`, ErrInvalidPhoto},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data), DefaultLimit)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestDecode_MalformedBeyondLimitIgnored(t *testing.T) {
	data := `[{"id": 1, "albumId": 1, "title": "a", "url": "u", "thumbnailUrl": "t"}, {"id": null}]`
	photos, err := Decode([]byte(data), 1)
	require.NoError(t, err)
	assert.Len(t, photos, 1)
}

func TestDecode_NumericStringID(t *testing.T) {
	data := `[{"id": "7", "albumId": 2, "title": "a", "url": "u", "thumbnailUrl": "t"}]`
	photos, err := Decode([]byte(data), 0)
	require.NoError(t, err)
	assert.Equal(t, 7, photos[0].ID)
}
