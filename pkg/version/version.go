package version

import (
	_ "embed"
	"strings"
)

// Version is stamped from the VERSION file at build time
//
//go:embed VERSION
var Version string

// Get returns the release version, e.g. "v0.1.0"
func Get() string {
	return strings.TrimSpace(Version)
}

// UserAgent is the identifier the server reports in its banner and OpenAPI document
func UserAgent() string {
	return "scentory/" + strings.TrimPrefix(Get(), "v")
}
