// Package synth implements the Synthesizer interface.
// It sends normalized chapter text to a speech backend over HTTP and
// returns the audio bytes unchanged.
package synth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds one synthesis call. Whole chapters take minutes.
	DefaultTimeout = 10 * time.Minute

	maxErrorBody = 512
)

// Config holds the backend parameters.
type Config struct {
	URL       string
	Speed     float64
	Language  string
	SpeakerID string
	// Timeout for one call; zero means DefaultTimeout.
	Timeout time.Duration
	// RequestsPerMinute limits calls; zero disables the limit.
	RequestsPerMinute int
}

// MeloTTS calls a MeloTTS HTTP API.
type MeloTTS struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	logger  *log.Logger
}

// meloRequest is the request body for the MeloTTS API.
type meloRequest struct {
	Text      string  `json:"text"`
	Speed     float64 `json:"speed"`
	Language  string  `json:"language"`
	SpeakerID string  `json:"speaker_id"`
}

// NewMeloTTS creates a MeloTTS client. A nil logger uses the default logger.
func NewMeloTTS(cfg Config, logger *log.Logger) *MeloTTS {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}

	m := &MeloTTS{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: logger.WithPrefix("synth"),
	}
	if cfg.RequestsPerMinute > 0 {
		m.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	return m
}

// Name implements core.Synthesizer.
func (m *MeloTTS) Name() string {
	return "melotts"
}

// Params identifies the voice settings that shape the audio output.
func (m *MeloTTS) Params() []string {
	return []string{
		fmt.Sprintf("%g", m.cfg.Speed),
		m.cfg.Language,
		m.cfg.SpeakerID,
	}
}

// Synthesize posts text to the backend and returns the raw audio bytes.
func (m *MeloTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait cancelled: %w", err)
		}
	}

	body, err := json.Marshal(meloRequest{
		Text:      text,
		Speed:     m.cfg.Speed,
		Language:  m.cfg.Language,
		SpeakerID: m.cfg.SpeakerID,
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := m.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling MeloTTS API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("MeloTTS API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	m.logger.Debug("synthesized",
		"chars", len(text),
		"audio", humanize.Bytes(uint64(len(audio))),
		"took", time.Since(start).Round(time.Millisecond),
	)
	return audio, nil
}
