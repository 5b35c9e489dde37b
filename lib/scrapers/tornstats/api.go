package tornstats

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"brotherowl-backend/lib/restyutil"

	"github.com/bytedance/sonic"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var defaultAPIEndpoints = []string{
	"/api/v1/player/{id}",
	"/api/v1/player/{id}/full",
	"/api/v1/battles/{id}",
}

type apiAuth int

const (
	authBearer apiAuth = iota
	authQuery
)

func (a apiAuth) String() string {
	if a == authBearer {
		return "bearer"
	}
	return "query"
}

// fetchAPI walks every endpoint once with a bearer token and once with the
// key as a query parameter. The first body the normalizer recognizes wins.
func (c *Client) fetchAPI(ctx context.Context, playerID string) (StatRecord, error) {
	ctx, span := tracer.Start(ctx, "strategy:api")
	defer span.End()

	if c.opts.APIKey == "" {
		return StatRecord{}, miss("no credential")
	}

	for _, auth := range []apiAuth{authBearer, authQuery} {
		for _, template := range c.apiEndpoints {
			if err := ctx.Err(); err != nil {
				return StatRecord{}, err
			}
			path, err := expandTemplate(template, playerID)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "bad endpoint template")
				return StatRecord{}, err
			}

			record, err := c.apiAttempt(ctx, path, auth)
			if err == nil {
				span.SetAttributes(attribute.String("endpoint", template))
				return record, nil
			}
			if !errors.Is(err, ErrMiss) {
				return StatRecord{}, err
			}
			slog.WarnContext(
				ctx, "tornstats api attempt failed",
				"endpoint", template,
				"auth", auth.String(),
				"err", restyutil.Redact(err.Error()),
			)
		}
	}

	return StatRecord{}, miss("no api endpoint returned recognizable data")
}

func (c *Client) apiAttempt(ctx context.Context, path string, auth apiAuth) (StatRecord, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.opts.APITimeout)
	defer cancel()

	req := c.session.client().R().
		SetContext(attemptCtx).
		SetHeader("Accept", "application/json")
	switch auth {
	case authBearer:
		req.SetAuthToken(c.opts.APIKey)
	case authQuery:
		req.SetQueryParam("key", c.opts.APIKey)
	}

	res, err := req.Get(path)
	if err != nil {
		if ctx.Err() != nil {
			return StatRecord{}, ctx.Err()
		}
		return StatRecord{}, missf("request failed: %v", err)
	}
	if res.StatusCode() != http.StatusOK {
		return StatRecord{}, missf("http %d", res.StatusCode())
	}

	var body map[string]any
	err = sonic.Unmarshal(res.Body(), &body)
	if err != nil {
		return StatRecord{}, miss("response is not a json object")
	}
	if len(body) == 0 {
		return StatRecord{}, miss("empty json object")
	}

	record, shape, err := Normalize(body)
	if err != nil {
		return StatRecord{}, missf("%v", err)
	}
	slog.DebugContext(ctx, "tornstats api hit", "path", path, "shape", shape.String())
	return record, nil
}
