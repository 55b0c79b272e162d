// Package util is a set of utility variables or methods
package util

import (
	"strings"

	mapset "github.com/deckarep/golang-set/v2"
)

const (
	ViewAll       = "all"
	ViewFavorites = "favorites"
)

var SupportedViews = mapset.NewSet(ViewAll, ViewFavorites)

// ImageHostRewrites maps image hosts that no longer serve images to a
// compatible replacement.
var ImageHostRewrites = map[string]string{
	"via.placeholder.com": "dummyimage.com",
}

// RewriteImageURL swaps any retired image host in raw for its replacement.
func RewriteImageURL(raw string) string {
	for from, to := range ImageHostRewrites {
		raw = strings.ReplaceAll(raw, from, to)
	}
	return raw
}
