package storage

import (
	"fmt"
	"path"
	"strings"
	"sync/atomic"
	"time"
)

// KeyPrefix is the namespace every generated key lives under.
const KeyPrefix = "uploads/"

// KeyGenerator produces keys of the form uploads/<millis>-<filename>. The
// timestamp component strictly increases across calls on one generator, so
// two uploads of the same filename never share a key.
type KeyGenerator struct {
	last atomic.Int64
	now  func() time.Time
}

// NewKeyGenerator creates a generator reading the given clock.
// A nil clock uses time.Now.
func NewKeyGenerator(now func() time.Time) *KeyGenerator {
	if now == nil {
		now = time.Now
	}
	return &KeyGenerator{now: now}
}

// Next returns a fresh key for filename.
func (g *KeyGenerator) Next(filename string) string {
	return fmt.Sprintf("%s%d-%s", KeyPrefix, g.tick(), baseName(filename))
}

func (g *KeyGenerator) tick() int64 {
	for {
		now := g.now().UnixMilli()
		last := g.last.Load()
		if now <= last {
			now = last + 1
		}
		if g.last.CompareAndSwap(last, now) {
			return now
		}
	}
}

// baseName strips any client-supplied directory components.
func baseName(name string) string {
	name = path.Base(strings.ReplaceAll(name, `\`, "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
