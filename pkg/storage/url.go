package storage

import (
	"net/url"
	"path"
	"strings"
)

// Mode is how a stored object is exposed to clients.
type Mode string

const (
	// ModeLocal serves files from the local uploads directory.
	ModeLocal Mode = "local"
	// ModeProxy streams objects through the application's /files endpoint.
	ModeProxy Mode = "proxy"
	// ModeDirect links straight to the bucket or its public base URL.
	ModeDirect Mode = "direct"
)

// URLResolver maps a storage key to a publicly fetchable URL.
type URLResolver struct {
	mode    Mode
	appBase string
	direct  string
}

// NewURLResolver creates a resolver. directBase is only read in ModeDirect.
func NewURLResolver(mode Mode, appBase, directBase string) URLResolver {
	return URLResolver{
		mode:    mode,
		appBase: strings.TrimSuffix(appBase, "/"),
		direct:  strings.TrimSuffix(directBase, "/"),
	}
}

// Mode returns the resolver's mode.
func (r URLResolver) Mode() Mode {
	return r.mode
}

// URL resolves key according to the configured mode.
func (r URLResolver) URL(key string) string {
	switch r.mode {
	case ModeDirect:
		return r.direct + "/" + key
	case ModeProxy:
		return r.appBase + "/files/" + EscapeKey(key)
	default:
		return r.appBase + "/uploads/" + path.Base(key)
	}
}

var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeKey encodes a key as a single path segment, escaping "/" as well as
// spaces and reserved characters.
func EscapeKey(key string) string {
	return componentUnescape.Replace(url.QueryEscape(key))
}

func resolveMode(cfg *Config) Mode {
	switch {
	case !cfg.Configured():
		return ModeLocal
	case cfg.DirectURL:
		return ModeDirect
	default:
		return ModeProxy
	}
}
