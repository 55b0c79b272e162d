package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/dustin/go-humanize/english"
	"github.com/urfave/cli"

	"github.com/aouyang1/photoboard/api"
	"github.com/aouyang1/photoboard/api/client"
	"github.com/aouyang1/photoboard/config"
	"github.com/aouyang1/photoboard/fetch"
	"github.com/aouyang1/photoboard/state"
	"github.com/aouyang1/photoboard/store"
)

const defaultServerURL = "http://localhost:8080"

var serverFlag = cli.StringFlag{
	Name:   "server, s",
	Usage:  "photoboard server `URL`",
	Value:  defaultServerURL,
	EnvVar: "PHOTOBOARD_SERVER",
}

var serveCommand = cli.Command{
	Name:   "serve",
	Usage:  "Starts the web server and the background photo refresh",
	Flags:  config.ServeFlags,
	Action: serveAction,
}

var listCommand = cli.Command{
	Name:      "list",
	Usage:     "Lists photos whose title contains the query",
	ArgsUsage: "[query]",
	Flags: []cli.Flag{
		serverFlag,
		cli.BoolFlag{
			Name:  "favorites, f",
			Usage: "only list favorite photos",
		},
	},
	Action: listAction,
}

var showCommand = cli.Command{
	Name:      "show",
	Usage:     "Shows a single photo",
	ArgsUsage: "<id>",
	Flags:     []cli.Flag{serverFlag},
	Action:    showAction,
}

var favoriteCommand = cli.Command{
	Name:      "favorite",
	Usage:     "Adds a photo to the favorites or removes it",
	ArgsUsage: "<id>",
	Flags:     []cli.Flag{serverFlag},
	Action:    favoriteAction,
}

var refreshCommand = cli.Command{
	Name:  "refresh",
	Usage: "Fetches the photo list again",
	Flags: []cli.Flag{
		serverFlag,
		cli.BoolFlag{
			Name:  "force",
			Usage: "bypass the cached photo list",
		},
	},
	Action: refreshAction,
}

func newSource(ctx context.Context, cfg *config.Config) (fetch.Source, error) {
	if cfg.UsesS3() {
		return fetch.NewS3Source(ctx, cfg.AWSProfile, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Key)
	}
	return fetch.NewHTTPSource(cfg.SourceURL), nil
}

func serveAction(ctx *cli.Context) error {
	cfg, err := config.FromFlags(ctx)
	if err != nil {
		return err
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := store.NewDatabase(cfg.DatabasePath())
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	if err := database.SeedAppSettings(&store.AppSettings{
		PhotoLimit:             cfg.PhotoLimit,
		RefreshIntervalSeconds: int(cfg.RefreshInterval.Seconds()),
	}); err != nil {
		return err
	}

	source, err := newSource(sigCtx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize photo source: %w", err)
	}
	slog.Info("using photo source", "source", source.String())

	fetcher := fetch.New(source, fetch.WithLimit(cfg.PhotoLimit), fetch.WithCacheTTL(cfg.CacheTTL))
	photoState := state.New()

	refreshManager, err := api.NewRefreshManager(fetcher, photoState, database, cfg.RefreshInterval)
	if err != nil {
		return err
	}

	webServer := api.NewWebServer(database, photoState, refreshManager)
	defer webServer.Close()

	return webServer.Start(sigCtx, cfg.ListenAddr)
}

func photoIDArg(ctx *cli.Context) (int, error) {
	if ctx.NArg() != 1 {
		return 0, errors.New("exactly one photo id is required")
	}
	id, err := strconv.Atoi(ctx.Args().First())
	if err != nil {
		return 0, fmt.Errorf("invalid photo id, %s", ctx.Args().First())
	}
	return id, nil
}

func listAction(ctx *cli.Context) error {
	pc := client.NewPhotoClient(ctx.String("server"))

	resp, err := pc.ListPhotos(ctx.Args().First(), ctx.Bool("favorites"))
	if err != nil {
		return err
	}

	favorites := make(map[int]bool, len(resp.Favorites))
	for _, id := range resp.Favorites {
		favorites[id] = true
	}

	for _, photo := range resp.Photos {
		mark := " "
		if favorites[photo.ID] {
			mark = "*"
		}
		fmt.Fprintf(ctx.App.Writer, "%s %5d  %s\n", mark, photo.ID, photo.Title)
	}
	fmt.Fprintln(ctx.App.Writer, english.Plural(resp.Total, "photo", "photos"))
	return nil
}

func showAction(ctx *cli.Context) error {
	id, err := photoIDArg(ctx)
	if err != nil {
		return err
	}

	resp, err := client.NewPhotoClient(ctx.String("server")).GetPhoto(id)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.App.Writer, "id:        %d\n", resp.Photo.ID)
	fmt.Fprintf(ctx.App.Writer, "album:     %d\n", resp.Photo.AlbumID)
	fmt.Fprintf(ctx.App.Writer, "title:     %s\n", resp.Photo.Title)
	fmt.Fprintf(ctx.App.Writer, "url:       %s\n", resp.Photo.URL)
	fmt.Fprintf(ctx.App.Writer, "thumbnail: %s\n", resp.Photo.ThumbnailURL)
	fmt.Fprintf(ctx.App.Writer, "favorite:  %t\n", resp.Favorite)
	return nil
}

func favoriteAction(ctx *cli.Context) error {
	id, err := photoIDArg(ctx)
	if err != nil {
		return err
	}

	favorite, err := client.NewPhotoClient(ctx.String("server")).ToggleFavorite(id)
	if err != nil {
		return err
	}

	if favorite {
		fmt.Fprintf(ctx.App.Writer, "added photo %d to favorites\n", id)
	} else {
		fmt.Fprintf(ctx.App.Writer, "removed photo %d from favorites\n", id)
	}
	return nil
}

func refreshAction(ctx *cli.Context) error {
	resp, err := client.NewPhotoClient(ctx.String("server")).Refresh(ctx.Bool("force"))
	if err != nil {
		return err
	}

	fmt.Fprintln(ctx.App.Writer, resp.Message)
	return nil
}
