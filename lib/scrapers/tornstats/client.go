package tornstats

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"brotherowl-backend/lib/restyutil"
	"brotherowl-backend/lib/ttlcache"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL           = "https://www.tornstats.com"
	DefaultCacheTTL          = time.Hour
	DefaultRequestsPerSecond = 5
	DefaultAPITimeout        = 5 * time.Second
	DefaultHTMLTimeout       = 10 * time.Second
	DefaultAuthTimeout       = 10 * time.Second
)

type ClientOptions struct {
	// BaseURL defaults to DefaultBaseURL.
	BaseURL string
	// APIKey is the TornStats key. Without it only anonymous scraping runs.
	APIKey string

	CacheTTL  time.Duration
	CacheSize int

	APITimeout  time.Duration
	HTMLTimeout time.Duration
	AuthTimeout time.Duration

	// RequestsPerSecond caps outbound requests across all strategies. Zero
	// means DefaultRequestsPerSecond, a negative value removes the cap.
	RequestsPerSecond float64

	DisableCloudflareBypass bool
	// DumpOutput receives every request/response pair when set.
	DumpOutput restyutil.InstrumentOutput
	// Now replaces time.Now for cache expiry.
	Now func() time.Time
}

type strategy struct {
	name string
	run  func(ctx context.Context, playerID string) (StatRecord, error)
}

// Client fetches player stats from TornStats, falling back from the JSON API
// to public pages to the signed-in spy page. It is safe for concurrent use.
type Client struct {
	opts    ClientOptions
	cache   *ttlcache.Cache[string, StatRecord]
	session *session

	apiEndpoints []string
	profilePages []string
	spyPage      string
	strategies   []strategy
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = DefaultCacheTTL
	}
	if opts.APITimeout <= 0 {
		opts.APITimeout = DefaultAPITimeout
	}
	if opts.HTMLTimeout <= 0 {
		opts.HTMLTimeout = DefaultHTMLTimeout
	}
	if opts.AuthTimeout <= 0 {
		opts.AuthTimeout = DefaultAuthTimeout
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = DefaultRequestsPerSecond
	}
	opts.APIKey = strings.TrimSpace(opts.APIKey)

	baseUrl, err := url.Parse(strings.TrimSuffix(opts.BaseURL, "/"))
	if err != nil {
		return nil, err
	}
	if baseUrl.Scheme == "" || baseUrl.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", opts.BaseURL)
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		burst := int(opts.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	cache, err := ttlcache.New[string, StatRecord](opts.CacheTTL, ttlcache.Options{
		Size: opts.CacheSize,
		Now:  opts.Now,
	})
	if err != nil {
		return nil, err
	}

	c := &Client{
		opts:  opts,
		cache: cache,
		session: newSession(sessionOptions{
			baseUrl:          baseUrl,
			limiter:          limiter,
			cloudflareBypass: !opts.DisableCloudflareBypass,
			dumpOutput:       opts.DumpOutput,
		}),
		apiEndpoints: defaultAPIEndpoints,
		profilePages: defaultProfilePages,
		spyPage:      defaultSpyPage,
	}
	c.strategies = []strategy{
		{name: "api", run: c.fetchAPI},
		{name: "html", run: c.fetchProfile},
		{name: "auth_html", run: c.fetchSpy},
	}
	return c, nil
}

func cacheKey(playerID string) string {
	return "player_" + playerID
}

// Fetch returns the stats of a player, from the cache when a live entry
// exists. ErrNotFound means every strategy missed. Errors other than
// ErrNotFound, ErrInvalidPlayerID and context errors are internal faults.
func (c *Client) Fetch(ctx context.Context, playerID string) (StatRecord, error) {
	ctx, span := tracer.Start(ctx, "Fetch")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return StatRecord{}, ErrInvalidPlayerID
	}
	span.SetAttributes(attribute.String("player_id", playerID))

	key := cacheKey(playerID)
	if record, ok := c.cache.Get(key); ok {
		cacheHits.Add(ctx, 1)
		span.SetAttributes(attribute.Bool("cached", true))
		return record, nil
	}
	cacheMisses.Add(ctx, 1)

	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return StatRecord{}, err
		}

		record, err := s.run(ctx, playerID)
		switch {
		case err == nil:
			recordOutcome(ctx, s.name, outcomeHit)
			c.cache.Set(key, record)
			slog.InfoContext(
				ctx, "fetched tornstats data",
				"player_id", playerID,
				"strategy", s.name,
				"total", formatStat(record.Total()),
			)
			span.SetAttributes(attribute.String("strategy", s.name))
			return record, nil
		case errors.Is(err, ErrMiss):
			recordOutcome(ctx, s.name, outcomeMiss)
			slog.WarnContext(ctx, "tornstats strategy missed", "player_id", playerID, "strategy", s.name, "err", err)
		case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
			return StatRecord{}, err
		default:
			recordOutcome(ctx, s.name, outcomeFault)
			span.RecordError(err)
			span.SetStatus(codes.Error, "internal fault")
			return StatRecord{}, err
		}
	}

	span.SetStatus(codes.Error, ErrNotFound.Error())
	return StatRecord{}, ErrNotFound
}

// GetPlayerData is the best-effort form of Fetch. Failures of every kind are
// logged and reported as false.
func (c *Client) GetPlayerData(ctx context.Context, playerID string) (StatRecord, bool) {
	record, err := c.Fetch(ctx, playerID)
	if err == nil {
		return record, true
	}

	switch {
	case errors.Is(err, ErrNotFound):
		slog.InfoContext(ctx, "no tornstats data for player", "player_id", playerID)
	case errors.Is(err, ErrInvalidPlayerID):
		slog.WarnContext(ctx, "invalid player id", "player_id", playerID)
	case crerr.IsAssertionFailure(err):
		slog.ErrorContext(ctx, "internal fault while fetching tornstats data", "player_id", playerID, "err", err)
	default:
		slog.WarnContext(ctx, "failed to fetch tornstats data", "player_id", playerID, "err", err)
	}
	return StatRecord{}, false
}

// Invalidate drops the cached record of a player so the next Fetch goes to
// the network.
func (c *Client) Invalidate(playerID string) {
	c.cache.Delete(cacheKey(strings.TrimSpace(playerID)))
}

func (c *Client) Close() error {
	return c.session.Close()
}

func expandTemplate(template, playerID string) (string, error) {
	if strings.Count(template, "{id}") != 1 {
		return "", crerr.AssertionFailedf("url template %q must hold exactly one {id}", template)
	}
	return strings.Replace(template, "{id}", url.PathEscape(playerID), 1), nil
}

func miss(reason string) error {
	return fmt.Errorf("%w: %s", ErrMiss, reason)
}

func missf(format string, args ...any) error {
	return miss(restyutil.Redact(fmt.Sprintf(format, args...)))
}
