package utils

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// UriToPath converts a "file://" URI to a filesystem path. Anything else is
// returned unchanged.
func UriToPath(u string) string {
	if !strings.HasPrefix(u, "file://") {
		return u
	}
	uu, err := url.Parse(u)
	if err != nil {
		return u
	}
	return filepath.FromSlash(uu.Path)
}

// PathToURI converts a filesystem path to a "file://" URI.
func PathToURI(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// AppendUnique appends v unless the slice already holds it.
func AppendUnique(slice []string, v string) []string {
	if slices.Contains(slice, v) {
		return slice
	}
	return append(slice, v)
}
