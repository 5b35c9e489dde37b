package tornstats

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"

	"brotherowl-backend/lib/restyutil"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	loginPath      = "/login.php"
	defaultSpyPage = "/spy.php?id={id}"
)

// fetchSpy signs in with the API key and reads the members-only spy page.
// Any failure is a miss for this strategy only.
func (c *Client) fetchSpy(ctx context.Context, playerID string) (StatRecord, error) {
	ctx, span := tracer.Start(ctx, "strategy:auth_html")
	defer span.End()

	if c.opts.APIKey == "" {
		return StatRecord{}, miss("no credential")
	}
	path, err := expandTemplate(c.spyPage, playerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "bad page template")
		return StatRecord{}, err
	}

	cookies, err := c.signIn(ctx)
	if err != nil {
		return StatRecord{}, err
	}
	span.SetAttributes(attribute.Int("cookies", len(cookies)))

	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AuthTimeout)
	defer cancel()

	res, err := c.session.client().R().
		SetContext(attemptCtx).
		SetCookies(cookies).
		SetHeader("Accept", "text/html").
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return StatRecord{}, ctx.Err()
		}
		return StatRecord{}, missf("spy page request failed: %v", err)
	}
	if res.StatusCode() != http.StatusOK {
		return StatRecord{}, missf("spy page http %d", res.StatusCode())
	}

	if data, ok := embeddedPlayerData(res.Body()); ok {
		record, shape, err := Normalize(data)
		if err == nil {
			slog.DebugContext(ctx, "read embedded player data", "shape", shape.String())
			return record, nil
		}
		slog.DebugContext(ctx, "embedded player data has unknown shape, reading dom")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return StatRecord{}, missf("parse spy page: %v", err)
	}
	record, ok := extractSpyDOM(doc, playerID)
	if !ok {
		return StatRecord{}, miss("no stats on spy page")
	}
	return record, nil
}

// signIn hits the login endpoint without following its redirect and
// returns whatever cookies it set.
func (c *Client) signIn(ctx context.Context) ([]*http.Cookie, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.AuthTimeout)
	defer cancel()

	res, err := c.session.client().R().
		SetContext(withoutRedirects(attemptCtx)).
		SetQueryParam("tornstats_api", c.opts.APIKey).
		Get(loginPath)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, missf("login request failed: %s", restyutil.Redact(err.Error()))
	}

	cookies := res.Cookies()
	redirected := res.StatusCode() >= 300 && res.StatusCode() < 400
	if redirected || len(cookies) > 0 {
		slog.InfoContext(
			ctx, "tornstats sign-in signal",
			"status", res.StatusCode(),
			"cookies", len(cookies),
		)
	} else {
		slog.DebugContext(ctx, "tornstats login gave no sign-in signal", "status", res.StatusCode())
	}
	return cookies, nil
}
