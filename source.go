package syukujitsu

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// Source supplies the raw holiday CSV. Fetch returns the payload
// decoded to UTF-8; transport failures propagate to the caller.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// StaticSource is a Source backed by a fixed byte slice. Useful in
// tests and for offline operation against a pre-downloaded CSV.
type StaticSource []byte

// Fetch returns the underlying bytes.
func (s StaticSource) Fetch(context.Context) ([]byte, error) {
	return []byte(s), nil
}

const (
	// CKAN API endpoint for the holiday dataset (recommended by the
	// Digital Agency of Japan).
	ckanAPIURL = "https://data.e-gov.go.jp/data/api/action/package_show?id=cao_20190522_0002"

	// Fallback CSV URLs in case the CKAN API is unavailable.
	fallbackURL1 = "https://www8.cao.go.jp/chosei/shukujitsu/syukujitsu.csv"
	fallbackURL2 = "https://www8.cao.go.jp/chosei/shukujitsu/shukujitsu.csv"

	httpTimeout = 30 * time.Second
	maxRetries  = 3

	// Maximum response sizes to prevent memory exhaustion.
	maxJSONResponseSize = 1 * 1024 * 1024 // 1 MB for CKAN API response
	maxCSVResponseSize  = 5 * 1024 * 1024 // 5 MB for CSV data

	userAgent = "syukujitsu/1.0 (https://github.com/rabitt1ove/syukujitsu)"
)

// allowedCSVHosts is the set of hostnames allowed for CSV download
// URLs. This prevents SSRF if the CKAN API returns an unexpected URL.
var allowedCSVHosts = map[string]bool{
	"www8.cao.go.jp": true,
	"www.cao.go.jp":  true,
}

// ckanResponse represents the relevant parts of the CKAN API response.
type ckanResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Resources []struct {
			URL    string `json:"url"`
			Format string `json:"format"`
		} `json:"resources"`
	} `json:"result"`
}

// CabinetOfficeSource fetches the national holiday CSV published by
// the Cabinet Office of Japan (内閣府).
//
// The CSV URL is resolved dynamically via the e-Gov Data Portal CKAN
// API; if the API is unavailable it falls back to the well-known
// direct URLs. Transient failures (connection errors, 429/503/5xx)
// are retried with exponential backoff before the next URL is tried.
//
// The upstream file is served in Shift-JIS; the payload is decoded to
// UTF-8 before it is returned. Use [WithSourceEncoding] if the
// upstream encoding ever changes.
type CabinetOfficeSource struct {
	client         *http.Client
	ckanURL        string
	fallbacks      []string
	encoding       encoding.Encoding // nil means the payload is already UTF-8
	retryBaseDelay time.Duration
	logger         zerolog.Logger
}

// SourceOption configures a CabinetOfficeSource.
type SourceOption func(*CabinetOfficeSource)

// WithHTTPClient replaces the default HTTP client (30s timeout).
func WithHTTPClient(client *http.Client) SourceOption {
	return func(s *CabinetOfficeSource) { s.client = client }
}

// WithSourceEncoding sets the character encoding of the upstream
// payload. The default is Shift-JIS; pass nil for a plain UTF-8
// upstream.
func WithSourceEncoding(enc encoding.Encoding) SourceOption {
	return func(s *CabinetOfficeSource) { s.encoding = enc }
}

// WithSourceLogger sets the logger. The default discards everything.
func WithSourceLogger(logger zerolog.Logger) SourceOption {
	return func(s *CabinetOfficeSource) {
		s.logger = logger.With().Str("component", "CabinetOfficeSource").Logger()
	}
}

// NewCabinetOfficeSource creates a Source for the Cabinet Office CSV.
func NewCabinetOfficeSource(opts ...SourceOption) *CabinetOfficeSource {
	s := &CabinetOfficeSource{
		client:         &http.Client{Timeout: httpTimeout},
		ckanURL:        ckanAPIURL,
		fallbacks:      []string{fallbackURL1, fallbackURL2},
		encoding:       japanese.ShiftJIS,
		retryBaseDelay: 2 * time.Second,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Fetch downloads the holiday CSV and returns it decoded to UTF-8.
// Strategy: CKAN API -> fallback URL 1 -> fallback URL 2.
func (s *CabinetOfficeSource) Fetch(ctx context.Context) ([]byte, error) {
	var urls []string

	if resolved, err := s.resolveCSVURL(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("CKAN API failed, falling back to direct URLs")
	} else {
		urls = append(urls, resolved)
	}

	for _, fb := range s.fallbacks {
		if len(urls) == 0 || urls[0] != fb {
			urls = append(urls, fb)
		}
	}

	var lastErr error
	for _, u := range urls {
		body, err := s.fetchWithRetry(ctx, u)
		if err != nil {
			lastErr = err
			continue
		}
		return body, nil
	}
	return nil, fmt.Errorf("all URLs failed, last error: %w", lastErr)
}

// resolveCSVURL queries the CKAN API for the current CSV download URL.
func (s *CabinetOfficeSource) resolveCSVURL(ctx context.Context) (string, error) {
	s.logger.Debug().Str("url", s.ckanURL).Msg("resolving CSV URL via CKAN API")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.ckanURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("CKAN API request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("CKAN API returned status %d", resp.StatusCode)
	}

	var ckan ckanResponse
	limited := io.LimitReader(resp.Body, maxJSONResponseSize)
	if err := json.NewDecoder(limited).Decode(&ckan); err != nil {
		return "", fmt.Errorf("CKAN API response decode failed: %w", err)
	}

	if !ckan.Success {
		return "", fmt.Errorf("CKAN API returned success=false")
	}

	for _, r := range ckan.Result.Resources {
		if strings.EqualFold(r.Format, "CSV") && r.URL != "" {
			// Validate the URL host to prevent SSRF.
			if err := validateCSVURL(r.URL); err != nil {
				return "", fmt.Errorf("CKAN returned invalid URL: %w", err)
			}
			s.logger.Debug().Str("url", r.URL).Msg("resolved CSV URL")
			return r.URL, nil
		}
	}

	return "", fmt.Errorf("no CSV resource found in CKAN response")
}

// validateCSVURL checks that a URL points to an allowed host (SSRF
// prevention).
func validateCSVURL(rawURL string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL %q: %w", rawURL, err)
	}
	if parsed.Scheme != "https" {
		return fmt.Errorf("URL %q: only HTTPS is allowed", rawURL)
	}
	if !allowedCSVHosts[parsed.Hostname()] {
		return fmt.Errorf("URL %q: host %q is not in the allowed list", rawURL, parsed.Hostname())
	}
	return nil
}

// fetchWithRetry fetches a URL with exponential backoff retries and
// returns the decoded body.
func (s *CabinetOfficeSource) fetchWithRetry(ctx context.Context, url string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if attempt > 0 {
			delay := s.retryBaseDelay * time.Duration(1<<(attempt-1))
			s.logger.Debug().
				Dur("delay", delay).
				Int("attempt", attempt+1).
				Msg("retrying fetch")
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		s.logger.Debug().Str("url", url).Msg("fetching CSV")
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("GET %s: %w", url, err)
			s.logger.Warn().Err(err).Str("url", url).Msg("fetch failed")
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests ||
			resp.StatusCode == http.StatusServiceUnavailable ||
			resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
			s.logger.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("retryable status")
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
		}

		body, err := s.readBody(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("GET %s: reading body: %w", url, err)
			continue
		}
		return body, nil
	}
	return nil, lastErr
}

// readBody reads a capped response body, decoding it to UTF-8 when a
// source encoding is configured.
func (s *CabinetOfficeSource) readBody(r io.Reader) ([]byte, error) {
	limited := io.LimitReader(r, maxCSVResponseSize)
	if s.encoding != nil {
		limited = transform.NewReader(limited, s.encoding.NewDecoder())
	}
	return io.ReadAll(limited)
}
