package synth

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/cache"
)

// AudioCache stores audio by key.
type AudioCache interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte) error
}

// parameterized is implemented by synthesizers whose output depends on
// settings beyond the text.
type parameterized interface {
	Params() []string
}

// Cached serves repeated requests from an AudioCache.
type Cached struct {
	next   core.Synthesizer
	cache  AudioCache
	logger *log.Logger
	params []string
}

// NewCached wraps next with cache. A nil logger uses the default logger.
func NewCached(next core.Synthesizer, c AudioCache, logger *log.Logger) *Cached {
	if logger == nil {
		logger = log.Default()
	}
	var params []string
	if p, ok := next.(parameterized); ok {
		params = p.Params()
	}
	return &Cached{
		next:   next,
		cache:  c,
		logger: logger.WithPrefix("synth"),
		params: params,
	}
}

// Name implements core.Synthesizer.
func (c *Cached) Name() string {
	return c.next.Name()
}

// Synthesize returns cached audio for text or calls the wrapped synthesizer
// and stores its result. Cache write failures are logged, not returned.
func (c *Cached) Synthesize(ctx context.Context, text string) ([]byte, error) {
	key := c.key(text)
	if audio, ok := c.cache.Get(key); ok {
		return audio, nil
	}

	audio, err := c.next.Synthesize(ctx, text)
	if err != nil {
		return nil, err
	}
	if err := c.cache.Put(key, audio); err != nil {
		c.logger.Warn("caching audio", "err", err)
	}
	return audio, nil
}

// Has reports whether audio for text is already cached.
func (c *Cached) Has(text string) bool {
	if h, ok := c.cache.(interface{ Contains(string) bool }); ok {
		return h.Contains(c.key(text))
	}
	return false
}

func (c *Cached) key(text string) string {
	parts := append([]string{c.next.Name()}, c.params...)
	return cache.Key(append(parts, text)...)
}
