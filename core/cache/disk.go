// Package cache stores synthesized chapter audio on disk so an interrupted
// conversion can be resumed without calling the speech backend again.
package cache

import (
	"crypto/sha256"
	"encoding/gob"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
)

// ErrItemTooLarge is returned when an item exceeds the cache capacity.
var ErrItemTooLarge = errors.New("item too large for cache")

const indexFile = "audio.index"

// Stats holds cache counters.
type Stats struct {
	Capacity  int64
	Size      int64
	Items     int
	Hits      int64
	Misses    int64
	Evictions int64
}

type entry struct {
	Key          string
	File         string
	Size         int64
	OriginalSize int64
	Created      time.Time
	LastAccess   time.Time
}

// Disk is a size-bounded, zstd-compressed, least-recently-used audio cache.
// It is safe for concurrent use.
type Disk struct {
	dir      string
	capacity int64
	size     int64

	encoder *zstd.Encoder
	decoder *zstd.Decoder

	mu    sync.Mutex
	index map[string]*entry
	stats Stats
}

// Key derives a cache key from the parts that determine the audio output.
func Key(parts ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates a cache rooted at dir holding at most capacity bytes
// of compressed data.
func Open(dir string, capacity int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	d := &Disk{
		dir:      dir,
		capacity: capacity,
		encoder:  enc,
		decoder:  dec,
		index:    make(map[string]*entry),
	}
	if err := d.loadIndex(); err != nil {
		// A broken index only costs a cold cache.
		d.index = make(map[string]*entry)
	}
	for _, e := range d.index {
		d.size += e.Size
	}
	return d, nil
}

// Get returns the cached audio for key.
func (d *Disk) Get(key string) ([]byte, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	e, ok := d.index[key]
	if !ok {
		d.stats.Misses++
		return nil, false
	}

	compressed, err := os.ReadFile(filepath.Join(d.dir, e.File))
	if err != nil {
		d.drop(key, e)
		d.stats.Misses++
		return nil, false
	}
	data, err := d.decoder.DecodeAll(compressed, nil)
	if err != nil {
		d.drop(key, e)
		d.stats.Misses++
		return nil, false
	}

	e.LastAccess = time.Now()
	d.stats.Hits++
	return data, true
}

// Put stores audio under key, evicting least recently used entries until it
// fits.
func (d *Disk) Put(key string, value []byte) error {
	compressed := d.encoder.EncodeAll(value, nil)
	size := int64(len(compressed))

	d.mu.Lock()
	defer d.mu.Unlock()

	if size > d.capacity {
		return ErrItemTooLarge
	}
	if old, ok := d.index[key]; ok {
		d.drop(key, old)
	}
	for d.size+size > d.capacity && len(d.index) > 0 {
		d.evictOldest()
	}

	name := key + ".zst"
	if err := writeAtomic(filepath.Join(d.dir, name), compressed); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}

	now := time.Now()
	d.index[key] = &entry{
		Key:          key,
		File:         name,
		Size:         size,
		OriginalSize: int64(len(value)),
		Created:      now,
		LastAccess:   now,
	}
	d.size += size
	return d.saveIndex()
}

// Contains reports whether key is cached without touching its access time.
func (d *Disk) Contains(key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, ok := d.index[key]
	return ok
}

// Stats returns a snapshot of the cache counters.
func (d *Disk) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stats
	s.Capacity = d.capacity
	s.Size = d.size
	s.Items = len(d.index)
	return s
}

// Close persists the index and releases the codecs.
func (d *Disk) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	err := d.saveIndex()
	d.encoder.Close()
	d.decoder.Close()
	return err
}

func (d *Disk) drop(key string, e *entry) {
	os.Remove(filepath.Join(d.dir, e.File))
	d.size -= e.Size
	delete(d.index, key)
}

func (d *Disk) evictOldest() {
	var oldestKey string
	var oldest *entry
	for key, e := range d.index {
		if oldest == nil || e.LastAccess.Before(oldest.LastAccess) {
			oldestKey, oldest = key, e
		}
	}
	if oldest != nil {
		d.drop(oldestKey, oldest)
		d.stats.Evictions++
	}
}

func (d *Disk) loadIndex() error {
	f, err := os.Open(filepath.Join(d.dir, indexFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	return gob.NewDecoder(f).Decode(&d.index)
}

func (d *Disk) saveIndex() error {
	path := filepath.Join(d.dir, indexFile)
	tmp := path + ".tmp"

	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	err = gob.NewEncoder(f).Encode(d.index)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
