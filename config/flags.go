package config

import (
	"time"

	"github.com/urfave/cli"
)

// ServeFlags describes the serve command's parameters and flags.
var ServeFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config, c",
		Usage:  "load config options from `FILENAME`",
		EnvVar: "PHOTOBOARD_CONFIG_FILE",
	},
	cli.StringFlag{
		Name:   "listen",
		Usage:  "http server listen `ADDRESS`",
		EnvVar: "PHOTOBOARD_LISTEN",
	},
	cli.StringFlag{
		Name:   "data-path",
		Usage:  "writable storage `PATH` for the database",
		EnvVar: "PHOTOBOARD_DATA_PATH",
	},
	cli.StringFlag{
		Name:   "source-url",
		Usage:  "photo list `URL`",
		EnvVar: "PHOTOBOARD_SOURCE_URL",
	},
	cli.StringFlag{
		Name:   "s3-bucket",
		Usage:  "load the photo list from this S3 `BUCKET` instead of the source url",
		EnvVar: "PHOTOBOARD_S3_BUCKET",
	},
	cli.StringFlag{
		Name:   "s3-key",
		Usage:  "S3 object `KEY` of the photo list",
		EnvVar: "PHOTOBOARD_S3_KEY",
	},
	cli.StringFlag{
		Name:   "aws-profile",
		Usage:  "shared AWS config `PROFILE`",
		EnvVar: "PHOTOBOARD_AWS_PROFILE",
	},
	cli.StringFlag{
		Name:   "aws-region",
		Usage:  "AWS `REGION`",
		EnvVar: "PHOTOBOARD_AWS_REGION",
	},
	cli.IntFlag{
		Name:   "photo-limit",
		Usage:  "maximum `NUMBER` of photos kept from the photo list, 0 keeps all",
		EnvVar: "PHOTOBOARD_PHOTO_LIMIT",
	},
	cli.DurationFlag{
		Name:   "refresh-interval",
		Usage:  "photo list refresh `INTERVAL`",
		EnvVar: "PHOTOBOARD_REFRESH_INTERVAL",
	},
	cli.DurationFlag{
		Name:   "cache-ttl",
		Usage:  "how long a fetched photo list is reused, 0 disables",
		EnvVar: "PHOTOBOARD_CACHE_TTL",
	},
	cli.StringFlag{
		Name:   "log-level, l",
		Usage:  "debug, info, warn, or error",
		EnvVar: "PHOTOBOARD_LOG_LEVEL",
	},
}

// FlagSource is the part of *cli.Context used to read flags.
type FlagSource interface {
	IsSet(name string) bool
	String(name string) string
	Int(name string) int
	Duration(name string) time.Duration
}

// FromFlags loads the config file named by the config flag and overrides it
// with every flag that was set on the command line or through the
// environment.
func FromFlags(ctx FlagSource) (*Config, error) {
	cfg, err := Load(ctx.String("config"))
	if err != nil {
		return nil, err
	}

	stringFlags := map[string]*string{
		"listen":      &cfg.ListenAddr,
		"data-path":   &cfg.DataPath,
		"source-url":  &cfg.SourceURL,
		"s3-bucket":   &cfg.S3Bucket,
		"s3-key":      &cfg.S3Key,
		"aws-profile": &cfg.AWSProfile,
		"aws-region":  &cfg.AWSRegion,
		"log-level":   &cfg.LogLevel,
	}
	for name, dst := range stringFlags {
		if ctx.IsSet(name) {
			*dst = ctx.String(name)
		}
	}
	if ctx.IsSet("photo-limit") {
		cfg.PhotoLimit = ctx.Int("photo-limit")
	}
	if ctx.IsSet("refresh-interval") {
		cfg.RefreshInterval = ctx.Duration("refresh-interval")
	}
	if ctx.IsSet("cache-ttl") {
		cfg.CacheTTL = ctx.Duration("cache-ttl")
	}

	return cfg, cfg.Validate()
}
