// Package entropy provides the randomness sources that drive stochastic event
// behavior. Production runs can use true randomness via random.org (with a
// crypto/rand fallback); tests and reproducible simulations use a seeded source.
package entropy

import (
	"bytes"
	crand "crypto/rand"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"sync"
	"time"
)

// Source yields uniform random floats in [0, 1). A source is consumed from a
// single tick at a time; only Client is additionally goroutine-safe.
type Source interface {
	Float() float64
}

// Intn returns a uniform int in [0, n) drawn from src. Returns 0 for n <= 0.
func Intn(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	v := int(src.Float() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}

// ShuffleStrings permutes ids in place using a Fisher-Yates shuffle driven by src.
func ShuffleStrings(src Source, ids []string) {
	for i := len(ids) - 1; i > 0; i-- {
		j := Intn(src, i+1)
		ids[i], ids[j] = ids[j], ids[i]
	}
}

// seeded is a deterministic source backed by math/rand.
type seeded struct {
	rng *rand.Rand
}

// Seeded returns a deterministic source. Two sources with the same seed produce
// identical float streams, which scenario tests rely on.
func Seeded(seed int64) Source {
	return &seeded{rng: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float() float64 {
	return s.rng.Float64()
}

// cryptoSource draws from crypto/rand.
type cryptoSource struct{}

// Crypto returns a source backed by crypto/rand. No seeding, no reproducibility.
func Crypto() Source {
	return cryptoSource{}
}

func (cryptoSource) Float() float64 {
	return cryptoFloat()
}

func cryptoFloat() float64 {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		// Should never happen; 0.5 keeps callers within expected bounds.
		return 0.5
	}
	// 53 bits for a uniform float64 in [0, 1).
	n := binary.LittleEndian.Uint64(buf[:]) >> 11
	return float64(n) / float64(1<<53)
}

// Client is a random.org-backed source with a local pool. Refills lazily when
// the pool runs low and falls back to crypto/rand on any API failure.
type Client struct {
	apiKey string
	http   *http.Client

	mu   sync.Mutex
	pool []float64
}

// NewClient creates a random.org client. Returns nil if apiKey is empty;
// a nil *Client still satisfies Source via the crypto fallback.
func NewClient(apiKey string) *Client {
	if apiKey == "" {
		return nil
	}
	return &Client{
		apiKey: apiKey,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

// Float returns a random float64 in [0, 1) from the pool.
func (c *Client) Float() float64 {
	if c == nil {
		return cryptoFloat()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pool) < 10 {
		c.refill()
	}
	if len(c.pool) == 0 {
		return cryptoFloat()
	}

	v := c.pool[0]
	c.pool = c.pool[1:]
	return v
}

func (c *Client) refill() {
	req := map[string]any{
		"jsonrpc": "2.0",
		"method":  "generateDecimalFractions",
		"params": map[string]any{
			"apiKey":        c.apiKey,
			"n":             100,
			"decimalPlaces": 6,
		},
		"id": 1,
	}

	body, err := json.Marshal(req)
	if err != nil {
		slog.Debug("random.org marshal failed", "error", err)
		return
	}

	resp, err := c.http.Post("https://api.random.org/json-rpc/4/invoke", "application/json", bytes.NewReader(body))
	if err != nil {
		slog.Debug("random.org fetch failed", "error", err)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Debug("random.org read failed", "error", err)
		return
	}

	var result struct {
		Result struct {
			Random struct {
				Data []float64 `json:"data"`
			} `json:"random"`
		} `json:"result"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		slog.Debug("random.org parse failed", "error", err)
		return
	}
	if result.Error != nil {
		slog.Debug("random.org API error", "error", result.Error.Message)
		return
	}

	c.pool = append(c.pool, result.Result.Random.Data...)
	slog.Debug("random.org pool refilled", "count", len(result.Result.Random.Data))
}
