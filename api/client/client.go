package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/aouyang1/photoboard/api/models"
)

var ErrPhotoNotFound = errors.New("photo not found")

type PhotoClient struct {
	baseURL string
	client  *http.Client
}

func NewPhotoClient(baseURL string) *PhotoClient {
	return &PhotoClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 3 * time.Minute},
	}
}

// do sends the request and decodes a 200 response into out.
func (pc *PhotoClient) do(method, path string, out any) (int, error) {
	req, err := http.NewRequest(method, pc.baseURL+path, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := pc.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp models.ErrorResponse
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return resp.StatusCode, fmt.Errorf("server error: %s", errResp.Error)
		}
		return resp.StatusCode, fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
	}
	return resp.StatusCode, nil
}

// ListPhotos returns the photos whose title contains query, optionally only
// favorites.
func (pc *PhotoClient) ListPhotos(query string, favoritesOnly bool) (*models.PhotoListResponse, error) {
	params := url.Values{}
	if query != "" {
		params.Set("q", query)
	}
	if favoritesOnly {
		params.Set("favorites", "true")
	}

	path := "/photos"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var listResp models.PhotoListResponse
	if _, err := pc.do(http.MethodGet, path, &listResp); err != nil {
		return nil, err
	}
	return &listResp, nil
}

func (pc *PhotoClient) GetPhoto(id int) (*models.PhotoResponse, error) {
	var photoResp models.PhotoResponse
	status, err := pc.do(http.MethodGet, "/photos/"+strconv.Itoa(id), &photoResp)
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %d", ErrPhotoNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &photoResp, nil
}

// ToggleFavorite flips the favorite flag of id and returns the new value.
func (pc *PhotoClient) ToggleFavorite(id int) (bool, error) {
	var favResp models.FavoriteResponse
	if _, err := pc.do(http.MethodPut, fmt.Sprintf("/photos/%d/favorite", id), &favResp); err != nil {
		return false, err
	}

	slog.Debug("favorite toggled", "photo_id", id, "favorite", favResp.Favorite)
	return favResp.Favorite, nil
}

func (pc *PhotoClient) Favorites() ([]int, error) {
	var favResp models.FavoritesResponse
	if _, err := pc.do(http.MethodGet, "/favorites", &favResp); err != nil {
		return nil, err
	}
	return favResp.Favorites, nil
}

// Refresh asks the server to fetch the photo list again. force skips the
// server side payload cache.
func (pc *PhotoClient) Refresh(force bool) (*models.RefreshResponse, error) {
	path := "/refresh"
	if force {
		path += "?force=true"
	}

	var refreshResp models.RefreshResponse
	if _, err := pc.do(http.MethodPost, path, &refreshResp); err != nil {
		return nil, err
	}
	return &refreshResp, nil
}
