package middleware

import (
	"os"
	"strconv"
	"strings"
)

// WildcardOrigin allows any origin.
const WildcardOrigin = "*"

// CORSConfig is the cross-origin policy shared by every mounted module.
type CORSConfig struct {
	Enabled          bool     `toml:"enabled"`
	Origins          []string `toml:"origins"`
	AllowedMethods   []string `toml:"allowed_methods"`
	AllowedHeaders   []string `toml:"allowed_headers"`
	AllowCredentials bool     `toml:"allow_credentials"`
	MaxAge           int      `toml:"max_age"`
}

// CORSEnv names the environment variables read by Finalize. Empty names are skipped.
type CORSEnv struct {
	Enabled          string
	Origins          string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials string
	MaxAge           string
}

// Finalize fills unset fields and then applies env. A nil env only fills defaults.
func (c *CORSConfig) Finalize(env *CORSEnv) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return nil
}

// Merge layers overlay onto c. Lists and max age replace the base when the
// overlay sets them; flags are sticky and only turn on here, so a file can
// enable credentials but disabling one takes an environment override.
func (c *CORSConfig) Merge(overlay *CORSConfig) {
	c.Enabled = c.Enabled || overlay.Enabled
	c.AllowCredentials = c.AllowCredentials || overlay.AllowCredentials

	replaceList(&c.Origins, overlay.Origins)
	replaceList(&c.AllowedMethods, overlay.AllowedMethods)
	replaceList(&c.AllowedHeaders, overlay.AllowedHeaders)

	if overlay.MaxAge > 0 {
		c.MaxAge = overlay.MaxAge
	}
}

// loadDefaults leaves an unconfigured policy open to every origin.
func (c *CORSConfig) loadDefaults() {
	if len(c.Origins) == 0 {
		c.Enabled = true
		c.Origins = []string{WildcardOrigin}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type", "Authorization", RequestIDHeader}
	}
	if c.MaxAge <= 0 {
		c.MaxAge = 3600
	}
}

func (c *CORSConfig) loadEnv(env *CORSEnv) {
	lists := []struct {
		name   string
		target *[]string
	}{
		{env.Origins, &c.Origins},
		{env.AllowedMethods, &c.AllowedMethods},
		{env.AllowedHeaders, &c.AllowedHeaders},
	}
	for _, l := range lists {
		if items, ok := lookupList(l.name); ok {
			*l.target = items
		}
	}

	if v, ok := lookup(env.Enabled); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Enabled = b
		}
	}
	if v, ok := lookup(env.AllowCredentials); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.AllowCredentials = b
		}
	}
	if v, ok := lookup(env.MaxAge); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxAge = n
		}
	}
}

func replaceList(dst *[]string, src []string) {
	if src != nil {
		*dst = src
	}
}

// lookup reports the value of the named variable when both are non-empty.
func lookup(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	v := os.Getenv(name)
	return v, v != ""
}

// lookupList splits a comma-separated variable, dropping blank entries.
func lookupList(name string) ([]string, bool) {
	v, ok := lookup(name)
	if !ok {
		return nil, false
	}
	items := make([]string, 0, strings.Count(v, ",")+1)
	for item := range strings.SplitSeq(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items, true
}
