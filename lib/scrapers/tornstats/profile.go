package tornstats

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var defaultProfilePages = []string{
	"/profiles/{id}",
	"/player.php?id={id}",
	"/profiles.php?XID={id}",
	"/spy.php?id={id}",
}

// fetchProfile scrapes the public pages, no credential needed.
func (c *Client) fetchProfile(ctx context.Context, playerID string) (StatRecord, error) {
	ctx, span := tracer.Start(ctx, "strategy:html")
	defer span.End()

	for _, template := range c.profilePages {
		if err := ctx.Err(); err != nil {
			return StatRecord{}, err
		}
		path, err := expandTemplate(template, playerID)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "bad page template")
			return StatRecord{}, err
		}

		record, used, err := c.profileAttempt(ctx, path, playerID)
		if err == nil {
			span.SetAttributes(
				attribute.String("page", template),
				attribute.String("heuristic", string(used)),
			)
			return record, nil
		}
		if !errors.Is(err, ErrMiss) {
			return StatRecord{}, err
		}
		slog.WarnContext(ctx, "tornstats profile page failed", "page", template, "err", err)
	}

	return StatRecord{}, miss("no profile page had stats")
}

func (c *Client) profileAttempt(ctx context.Context, path, playerID string) (StatRecord, heuristic, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.HTMLTimeout)
	defer cancel()

	res, err := c.session.client().R().
		SetContext(attemptCtx).
		SetHeader("Accept", "text/html").
		Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return StatRecord{}, "", ctx.Err()
		}
		return StatRecord{}, "", missf("request failed: %v", err)
	}
	if res.StatusCode() != http.StatusOK {
		return StatRecord{}, "", missf("http %d", res.StatusCode())
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		return StatRecord{}, "", missf("parse html: %v", err)
	}
	record, used, ok := extractProfile(doc, playerID)
	if !ok {
		return StatRecord{}, "", miss("no stats in page")
	}
	return record, used, nil
}
