// Package api is the main api web server
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize/english"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/zeebo/xxh3"

	"github.com/aouyang1/photoboard/api/models"
	"github.com/aouyang1/photoboard/api/web/templates"
	"github.com/aouyang1/photoboard/event"
	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/store"
	"github.com/aouyang1/photoboard/util"
)

const (
	maxPhotoLimit     = 5000
	defaultFetchLimit = 20
	maxFetchLimit     = 500
	shutdownTimeout   = 10 * time.Second
)

type WebServer struct {
	router *gin.Engine
	db     *store.Database
	state  *state.PhotoState

	refreshManager *RefreshManager
	upgrader       websocket.Upgrader

	cancelObservers []func()
}

func NewWebServer(db *store.Database, st *state.PhotoState, refreshManager *RefreshManager) *WebServer {
	router := gin.Default()

	ws := &WebServer{
		router:         router,
		db:             db,
		state:          st,
		refreshManager: refreshManager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}

	ws.publishStateChanges()
	ws.setupRoutes()

	return ws
}

// publishStateChanges forwards photo state notifications to the event hub.
func (ws *WebServer) publishStateChanges() {
	ws.cancelObservers = append(ws.cancelObservers,
		ws.state.SubscribePhotos(func(photos []state.Photo) {
			event.Publish(event.PhotosUpdated, event.Data{"count": len(photos)})
		}),
		ws.state.SubscribeFavorites(func(ids []int) {
			event.Publish(event.FavoritesChanged, event.Data{"favorites": ids})
		}),
	)
}

func (ws *WebServer) setupRoutes() {
	// UI routes
	ws.router.GET("/", ws.handleIndex)
	ws.router.GET("/ui/photos", ws.handleUIPhotos)
	ws.router.GET("/ui/photos/:id", ws.handleUIPhotoDetail)
	ws.router.GET("/ui/photos/:id/:slug", ws.handleUIPhotoDetail)
	ws.router.GET("/ws", ws.handleEvents)

	// API routes
	ws.router.GET("/photos", ws.handleListPhotos)
	ws.router.GET("/photos/:id", ws.handleGetPhoto)
	ws.router.PUT("/photos/:id/favorite", ws.handleToggleFavorite)
	ws.router.GET("/favorites", ws.handleListFavorites)
	ws.router.POST("/refresh", ws.handleRefresh)
	ws.router.GET("/fetches", ws.handleListFetches)
	ws.router.GET("/settings", ws.handleGetSettings)
	ws.router.PUT("/settings", ws.handleUpdateSettings)
}

func (ws *WebServer) Handler() http.Handler {
	return ws.router
}

// Start refreshes photos in the background and serves http on addr until ctx
// is canceled.
func (ws *WebServer) Start(ctx context.Context, addr string) error {
	go ws.refreshManager.Run(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: ws.router,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting web server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to start web server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("shutting down web server")
		return srv.Shutdown(shutdownCtx)
	}
}

// Close detaches the server from the photo state.
func (ws *WebServer) Close() {
	for _, cancel := range ws.cancelObservers {
		cancel()
	}
	ws.cancelObservers = nil
}

func parsePhotoID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid photo id: %s", c.Param("id"))})
		return 0, false
	}
	return id, true
}

func photoNotFound(id int) string {
	return fmt.Sprintf("Photo not found (%d)", id)
}

func renderHTML(c *gin.Context, status int, component templ.Component) {
	var buf bytes.Buffer
	if err := component.Render(c.Request.Context(), &buf); err != nil {
		slog.Error("failed to render html", "path", c.Request.URL.Path, "error", err)
		c.String(http.StatusInternalServerError, "Failed to render page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

// filteredPhotos applies the q and view/favorites query parameters. The
// returned favorites are the snapshot the filter used.
func (ws *WebServer) filteredPhotos(query string, favoritesOnly bool) ([]state.Photo, mapset.Set[int]) {
	favorites := ws.state.Favorites()
	return state.Filter(ws.state.Photos(), favorites, query, favoritesOnly), favorites
}

// etagMatches reports whether an If-None-Match header names etag. Weak
// validators compare equal to their strong form.
func etagMatches(header, etag string) bool {
	for candidate := range strings.SplitSeq(header, ",") {
		candidate = strings.TrimPrefix(strings.TrimSpace(candidate), "W/")
		if candidate == "*" || candidate == etag {
			return true
		}
	}
	return false
}

func (ws *WebServer) handleListPhotos(c *gin.Context) {
	favoritesOnly, err := strconv.ParseBool(c.DefaultQuery("favorites", "false"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid favorites parameter"})
		return
	}

	photos, favorites := ws.filteredPhotos(c.Query("q"), favoritesOnly)
	favoriteIDs := favorites.ToSlice()
	slices.Sort(favoriteIDs)

	body, err := json.Marshal(models.PhotoListResponse{
		Photos:    photos,
		Total:     len(photos),
		Favorites: favoriteIDs,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to encode photos: %v", err)})
		return
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Header("ETag", etag)
	if etagMatches(c.GetHeader("If-None-Match"), etag) {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (ws *WebServer) handleGetPhoto(c *gin.Context) {
	id, ok := parsePhotoID(c)
	if !ok {
		return
	}

	photo, found := ws.state.FindPhotoByID(id)
	if !found {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: photoNotFound(id)})
		return
	}

	c.JSON(http.StatusOK, models.PhotoResponse{
		Photo:    photo,
		Favorite: ws.state.IsFavorite(id),
	})
}

func (ws *WebServer) handleToggleFavorite(c *gin.Context) {
	id, ok := parsePhotoID(c)
	if !ok {
		return
	}

	favorite := ws.state.ToggleFavorite(id)
	slog.Info("toggled favorite", "photo_id", id, "favorite", favorite)

	// htmx swaps the clicked button with its new state
	if c.GetHeader("HX-Request") == "true" {
		if c.Query("detail") == "true" {
			renderHTML(c, http.StatusOK, templates.DetailFavoriteButton(id, favorite))
			return
		}
		renderHTML(c, http.StatusOK, templates.FavoriteButton(id, favorite))
		return
	}

	c.JSON(http.StatusOK, models.FavoriteResponse{PhotoID: id, Favorite: favorite})
}

func (ws *WebServer) handleListFavorites(c *gin.Context) {
	c.JSON(http.StatusOK, models.FavoritesResponse{Favorites: ws.state.FavoriteIDs()})
}

func (ws *WebServer) handleRefresh(c *gin.Context) {
	if c.Query("force") == "true" {
		ws.refreshManager.Invalidate()
	}

	count, err := ws.refreshManager.Refresh(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{Error: fmt.Sprintf("Failed to refresh photos: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.RefreshResponse{
		Count:   count,
		Message: fmt.Sprintf("Refreshed %s", english.Plural(count, "photo", "photos")),
	})
}

func (ws *WebServer) handleListFetches(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultFetchLimit)))
	if err != nil || limit < 1 || limit > maxFetchLimit {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("limit must be between 1 and %d", maxFetchLimit)})
		return
	}

	total, err := ws.db.GetFetchCount()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	fetches, err := ws.db.GetFetchRecords(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Database error: %v", err)})
		return
	}

	c.JSON(http.StatusOK, models.FetchLogResponse{Fetches: fetches, Total: total})
}

func (ws *WebServer) handleGetSettings(c *gin.Context) {
	settings, err := ws.db.GetAppSettings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to get settings: %v", err)})
		return
	}

	c.JSON(http.StatusOK, settings)
}

func (ws *WebServer) handleUpdateSettings(c *gin.Context) {
	var req models.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("Invalid request body: %v", err)})
		return
	}

	if req.PhotoLimit < 1 || req.PhotoLimit > maxPhotoLimit {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: fmt.Sprintf("photo_limit must be between 1 and %d", maxPhotoLimit)})
		return
	}

	if req.RefreshIntervalSeconds <= 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "refresh_interval_seconds must be positive"})
		return
	}

	newSettings := &store.AppSettings{
		PhotoLimit:             req.PhotoLimit,
		RefreshIntervalSeconds: req.RefreshIntervalSeconds,
	}

	if err := ws.db.UpsertAppSettings(newSettings); err != nil {
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: fmt.Sprintf("Failed to update settings: %v", err)})
		return
	}
	ws.refreshManager.ApplySettings(newSettings)

	c.JSON(http.StatusOK, newSettings)
}

func (ws *WebServer) handleIndex(c *gin.Context) {
	query := c.Query("q")
	view := c.DefaultQuery("view", util.ViewAll)
	if !util.SupportedViews.Contains(view) {
		view = util.ViewAll
	}

	photos, favorites := ws.filteredPhotos(query, view == util.ViewFavorites)
	board := templates.PhotoBoard(query, view, photos, favorites)
	renderHTML(c, http.StatusOK, templates.Page("photoboard", board))
}

func (ws *WebServer) handleUIPhotos(c *gin.Context) {
	view := c.DefaultQuery("view", util.ViewAll)
	if !util.SupportedViews.Contains(view) {
		c.String(http.StatusBadRequest, "Invalid view")
		return
	}

	photos, favorites := ws.filteredPhotos(c.Query("q"), view == util.ViewFavorites)
	renderHTML(c, http.StatusOK, templates.PhotoList(photos, favorites))
}

func (ws *WebServer) handleUIPhotoDetail(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid photo id")
		return
	}

	photo, found := ws.state.FindPhotoByID(id)
	if !found {
		renderHTML(c, http.StatusNotFound, templates.Page("photoboard", templates.NotFound(id)))
		return
	}

	detail := templates.PhotoDetail(photo, ws.state.IsFavorite(id))
	renderHTML(c, http.StatusOK, templates.Page(photo.Title, detail))
}
