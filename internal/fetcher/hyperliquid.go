package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const infoPath = "/info"

// HyperliquidOptions parameterise the info-API fetcher.
type HyperliquidOptions struct {
	BaseURL   string
	Timeout   time.Duration
	UserAgent string
}

// Hyperliquid fetches account fills from the Hyperliquid info API. It is a
// pure pass-through: no caching and no retry; retry cadence belongs to the
// monitor loop.
type Hyperliquid struct {
	opts    HyperliquidOptions
	logger  zerolog.Logger
	client  *http.Client
	baseURL string
}

// NewHyperliquid constructs an info-API fetcher.
func NewHyperliquid(opts HyperliquidOptions, logger zerolog.Logger) *Hyperliquid {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.hyperliquid.xyz"
	}

	return &Hyperliquid{
		opts:    opts,
		logger:  logger.With().Str("component", "fill_fetcher").Logger(),
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

type infoRequest struct {
	Type string `json:"type"`
	User string `json:"user"`
}

// FetchFills retrieves the current userFills snapshot for an address.
func (h *Hyperliquid) FetchFills(ctx context.Context, address string) ([]Fill, error) {
	if strings.TrimSpace(address) == "" {
		return nil, errors.New("account address required")
	}

	body, err := json.Marshal(infoRequest{Type: "userFills", User: address})
	if err != nil {
		return nil, err
	}

	endpoint := h.baseURL + infoPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if ua := strings.TrimSpace(h.opts.UserAgent); ua != "" {
		req.Header.Set("User-Agent", ua)
	} else {
		req.Header.Set("User-Agent", "hlwatcher/1.0")
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, infoError(resp.StatusCode, payload)
	}

	var fills []Fill
	if err := json.Unmarshal(payload, &fills); err != nil {
		return nil, fmt.Errorf("decode fills: %w", err)
	}

	return fills, nil
}

func infoError(status int, payload []byte) error {
	if len(payload) > 0 {
		return fmt.Errorf("info api error (%d): %s", status, strings.TrimSpace(string(payload)))
	}
	return fmt.Errorf("info api error (%d)", status)
}

var _ FillFetcher = (*Hyperliquid)(nil)
