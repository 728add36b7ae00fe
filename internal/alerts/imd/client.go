// Package imd scrapes the India Meteorological Department subdivision
// warning bulletin. The bulletin is an HTML page with one table row per
// subdivision; there is no schema contract, so extraction is positional.
package imd

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/envpulse/envpulse/internal/alerts"
	"github.com/envpulse/envpulse/internal/provider"
	"github.com/envpulse/envpulse/internal/provider/resilience"
	"github.com/envpulse/envpulse/internal/scrape"
)

const (
	// ProviderName identifies this source in logs and the health registry.
	ProviderName = "imd-bulletin"

	// DefaultBulletinURL is the subdivision-wise warning bulletin page.
	DefaultBulletinURL = "https://mausam.imd.gov.in/imd_latest/contents/subdivisionwise-warning.php"

	userAgent = "envpulse/1.0 (regional environmental dashboard)"

	sourceName = "alerts bulletin"
)

// nilNotice matches cells that carry no actual warning: variations of
// "N/A", "nil", dashes, and "no warning(s)".
var nilNotice = regexp.MustCompile(`(?i)^(n/?a\.?|nil\.?|none\.?|-+|no\s+warnings?\.?)$`)

// HTTPDoer abstracts HTTP request execution.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientConfig holds configuration for the bulletin client.
type ClientConfig struct {
	// BulletinURL overrides the bulletin page URL (optional).
	BulletinURL string

	// Region is the subdivision name used for row matching (required).
	Region string

	// HTTPClient is the HTTP client to use. If nil, a single-attempt
	// resilient client is created.
	HTTPClient HTTPDoer

	// Logger for client operations.
	Logger zerolog.Logger
}

// Client fetches and filters the IMD warning bulletin.
type Client struct {
	bulletinURL string
	region      string
	httpClient  HTTPDoer
	logger      zerolog.Logger
}

// NewClient creates a new bulletin client.
func NewClient(cfg ClientConfig) *Client {
	bulletinURL := cfg.BulletinURL
	if bulletinURL == "" {
		bulletinURL = DefaultBulletinURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = resilience.NewClient(resilience.SingleAttemptConfig(ProviderName))
	}

	return &Client{
		bulletinURL: bulletinURL,
		region:      cfg.Region,
		httpClient:  httpClient,
		logger:      cfg.Logger,
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return ProviderName
}

// Fetch retrieves the bulletin and reduces it to the notices for the
// configured region. A bulletin without a row for the region is a normal
// no-warnings outcome, not an error.
func (c *Client) Fetch(ctx context.Context) (*alerts.Bulletin, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.bulletinURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, provider.FromTransport(sourceName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &provider.UpstreamError{Source: sourceName, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading bulletin: %w", err)
	}

	row := c.regionRow(scrape.TableRows(string(body)))
	if row == nil {
		c.logger.Debug().Str("region", c.region).Msg("no bulletin row for region")
		return alerts.NoWarnings(), nil
	}

	// The first cell is the subdivision label; the rest are candidate
	// notices for successive forecast days.
	notices := notableNotices(row[1:])
	if len(notices) == 0 {
		return alerts.NoWarnings(), nil
	}

	return &alerts.Bulletin{Summary: notices[0], Notices: notices}, nil
}

// regionRow returns the first row where any cell contains the region name,
// case-insensitively. Substring containment is deliberate: stricter matching
// could silently drop rows whose region cell carries extra annotations.
func (c *Client) regionRow(rows [][]string) []string {
	region := strings.ToLower(c.region)
	for _, row := range rows {
		for _, cell := range row {
			if strings.Contains(strings.ToLower(cell), region) {
				return row
			}
		}
	}
	return nil
}

// notableNotices filters candidate cells down to distinct, non-placeholder
// notices, preserving order.
func notableNotices(cells []string) []string {
	notices := make([]string, 0, len(cells))
	seen := make(map[string]struct{}, len(cells))
	for _, cell := range cells {
		notice := strings.TrimSpace(cell)
		if notice == "" || nilNotice.MatchString(notice) {
			continue
		}
		if _, dup := seen[notice]; dup {
			continue
		}
		seen[notice] = struct{}{}
		notices = append(notices, notice)
	}
	return notices
}
