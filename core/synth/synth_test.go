package synth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gaurav-prasanna/bookvoice/core"
	"github.com/gaurav-prasanna/bookvoice/core/cache"
)

func TestMeloTTSSynthesize(t *testing.T) {
	var got meloRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if accept := r.Header.Get("Accept"); accept != "application/json" {
			t.Errorf("Accept = %q", accept)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decoding body: %v", err)
		}
		w.Write([]byte("RIFFaudio"))
	}))
	defer srv.Close()

	m := NewMeloTTS(Config{URL: srv.URL, Speed: 1.2, Language: "ES", SpeakerID: "ES"}, nil)
	audio, err := m.Synthesize(context.Background(), "Hola mundo.")
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if string(audio) != "RIFFaudio" {
		t.Errorf("audio = %q, want %q", audio, "RIFFaudio")
	}

	want := meloRequest{Text: "Hola mundo.", Speed: 1.2, Language: "ES", SpeakerID: "ES"}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
}

func TestMeloTTSErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := NewMeloTTS(Config{URL: srv.URL}, nil)
	_, err := m.Synthesize(context.Background(), "x")
	if err == nil {
		t.Fatal("Synthesize() error = nil, want error")
	}
	if !strings.Contains(err.Error(), "503") || !strings.Contains(err.Error(), "model not loaded") {
		t.Errorf("error = %q, want status and body", err)
	}
}

func TestMeloTTSTimeout(t *testing.T) {
	done := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-done:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(done)

	m := NewMeloTTS(Config{URL: srv.URL, Timeout: 50 * time.Millisecond}, nil)
	if _, err := m.Synthesize(context.Background(), "x"); err == nil {
		t.Fatal("Synthesize() error = nil, want timeout")
	}
}

func TestMeloTTSCancelledWhileRateLimited(t *testing.T) {
	m := NewMeloTTS(Config{URL: "http://127.0.0.1:0", RequestsPerMinute: 1}, nil)
	m.limiter.Allow()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := m.Synthesize(ctx, "x"); err == nil {
		t.Fatal("Synthesize() error = nil, want cancellation")
	}
}

func TestNew(t *testing.T) {
	for _, name := range []string{"MELOTTS", "melotts", " MeloTTS "} {
		s, err := New(name, Config{}, nil)
		if err != nil {
			t.Fatalf("New(%q) error = %v", name, err)
		}
		if s.Name() != "melotts" {
			t.Errorf("Name() = %q", s.Name())
		}
	}

	if _, err := New("polly", Config{}, nil); !errors.Is(err, core.ErrUnknownSynthesizer) {
		t.Errorf("New(polly) error = %v, want ErrUnknownSynthesizer", err)
	}
}

type countingSynth struct {
	calls int
	fail  bool
}

func (s *countingSynth) Name() string { return "fake" }

func (s *countingSynth) Synthesize(_ context.Context, text string) ([]byte, error) {
	s.calls++
	if s.fail {
		return nil, errors.New("backend down")
	}
	return []byte("audio:" + text), nil
}

func TestCached(t *testing.T) {
	disk, err := cache.Open(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer disk.Close()

	next := &countingSynth{}
	c := NewCached(next, disk, nil)

	if c.Has("uno") {
		t.Error("Has() = true before first call")
	}
	for i := 0; i < 3; i++ {
		audio, err := c.Synthesize(context.Background(), "uno")
		if err != nil {
			t.Fatalf("Synthesize() error = %v", err)
		}
		if string(audio) != "audio:uno" {
			t.Errorf("audio = %q", audio)
		}
	}
	if next.calls != 1 {
		t.Errorf("backend called %d times, want 1", next.calls)
	}
	if !c.Has("uno") {
		t.Error("Has() = false after synthesis")
	}
	if c.Name() != "fake" {
		t.Errorf("Name() = %q", c.Name())
	}

	next.fail = true
	if _, err := c.Synthesize(context.Background(), "dos"); err == nil {
		t.Error("Synthesize() error = nil, want backend error")
	}
	if c.Has("dos") {
		t.Error("failed synthesis was cached")
	}
}

func TestCachedKeyIncludesParams(t *testing.T) {
	disk, err := cache.Open(t.TempDir(), 1<<20)
	if err != nil {
		t.Fatalf("cache.Open() error = %v", err)
	}
	defer disk.Close()

	slow := NewCached(NewMeloTTS(Config{Speed: 0.8}, nil), disk, nil)
	fast := NewCached(NewMeloTTS(Config{Speed: 1.2}, nil), disk, nil)
	if slow.key("hola") == fast.key("hola") {
		t.Error("cache key ignores speed")
	}
}
