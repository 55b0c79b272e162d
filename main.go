package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli"
)

var version = "development"

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "photoboard"
	app.HelpName = filepath.Base(os.Args[0])
	app.Usage = "Browse and favorite photos from a remote photo list"
	app.Version = version
	app.EnableBashCompletion = true

	app.Commands = []cli.Command{
		serveCommand,
		listCommand,
		showCommand,
		favoriteCommand,
		refreshCommand,
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("photoboard failed", "error", err)
		os.Exit(1)
	}
}
