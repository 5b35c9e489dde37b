package tornstats

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"brotherowl-backend/lib/restyutil"
	"brotherowl-backend/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"

const maxRedirects = 10

type noRedirectKey struct{}

// withoutRedirects marks requests made with ctx so the session hands back
// the redirect response itself instead of following it.
func withoutRedirects(ctx context.Context) context.Context {
	return context.WithValue(ctx, noRedirectKey{}, true)
}

func redirectsDisabled(ctx context.Context) bool {
	disabled, _ := ctx.Value(noRedirectKey{}).(bool)
	return disabled
}

type sessionOptions struct {
	baseUrl          *url.URL
	limiter          *rate.Limiter
	cloudflareBypass bool
	dumpOutput       restyutil.InstrumentOutput
}

// session owns the one HTTP client shared by every strategy. It is created
// on first use and can be recreated after Close.
type session struct {
	opts sessionOptions

	mu   sync.Mutex
	http *resty.Client
}

func newSession(opts sessionOptions) *session {
	return &session{opts: opts}
}

func (s *session) client() *resty.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http == nil {
		s.http = s.build()
	}
	return s.http
}

func (s *session) build() *resty.Client {
	base := s.opts.baseUrl.String()

	client := resty.New()
	client.SetBaseURL(base)
	// cookies are carried explicitly between the login and spy requests
	client.SetCookieJar(nil)
	if s.opts.cloudflareBypass {
		client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	}

	client.SetHeader("User-Agent", browserUserAgent)
	client.SetHeader("Accept", "application/json, text/html")
	client.SetHeader("Referer", base+"/")
	client.SetRedirectPolicy(s.redirectPolicy())
	client.SetTimeout(30 * time.Second)

	limiter := s.opts.limiter
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	telemetry.InstrumentResty(client, "lib.scrapers.tornstats.http")
	restyutil.InstrumentClient(client, s.opts.dumpOutput)

	return client
}

func (s *session) redirectPolicy() resty.RedirectPolicy {
	hostname := s.opts.baseUrl.Hostname()
	return resty.RedirectPolicyFunc(func(req *http.Request, via []*http.Request) error {
		if redirectsDisabled(req.Context()) {
			return http.ErrUseLastResponse
		}
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if req.URL.Hostname() != hostname {
			return fmt.Errorf("redirect to foreign host %q", req.URL.Hostname())
		}
		return nil
	})
}

// Close releases pooled connections. It is safe to call more than once.
func (s *session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.http == nil {
		return nil
	}
	s.http.GetClient().CloseIdleConnections()
	s.http = nil
	return nil
}
