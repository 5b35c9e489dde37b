package enemystats

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"brotherowl-backend/lib/estimate"
	"brotherowl-backend/lib/scrapers/tornstats"
	"brotherowl-backend/lib/spystore"
	"brotherowl-backend/lib/timezone"

	"github.com/sourcegraph/conc/iter"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const DefaultConcurrency = 4

var (
	ErrNoData          = errors.New("no data for player")
	ErrInvalidPlayerID = errors.New("invalid player id")
	ErrInvalidStats    = errors.New("stats must not be negative")
)

// PlayerSource is where stats come from when no spy is stored, normally a
// *tornstats.Client.
type PlayerSource interface {
	GetPlayerData(ctx context.Context, playerID string) (tornstats.StatRecord, bool)
	Invalidate(playerID string)
}

type Options struct {
	// Concurrency bounds LookupMany and Refresh. Defaults to DefaultConcurrency.
	Concurrency int
	Now         func() time.Time
}

type Service struct {
	store       spystore.Store
	source      PlayerSource
	concurrency int
	now         func() time.Time
}

// NewService composes a spy store with an optional remote source. A nil
// source disables remote lookups.
func NewService(store spystore.Store, source PlayerSource, opts Options) Service {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.Now == nil {
		opts.Now = timezone.Now
	}
	return Service{
		store:       store,
		source:      source,
		concurrency: opts.Concurrency,
		now:         opts.Now,
	}
}

// Lookup answers with the stored spy, then TornStats, then an estimate from
// input when given. ErrNoData means none of them had anything.
func (s Service) Lookup(ctx context.Context, playerID string, input *EstimateInput) (Report, error) {
	ctx, span := tracer.Start(ctx, "Lookup")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return Report{}, ErrInvalidPlayerID
	}
	span.SetAttributes(attribute.String("player_id", playerID))

	record, err := s.store.Get(ctx, playerID)
	if err == nil {
		span.SetAttributes(attribute.String("kind", KindSpy.String()))
		return Report{
			PlayerID:   playerID,
			Kind:       KindSpy,
			Confidence: estimate.ConfidenceAt(s.now(), record.Timestamp),
			Record:     record,
		}, nil
	}
	if !errors.Is(err, spystore.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to read spy store")
		return Report{}, err
	}

	if report, ok := s.fetchRemote(ctx, playerID); ok {
		span.SetAttributes(attribute.String("kind", KindRemote.String()))
		return report, nil
	}

	if input != nil {
		primary, ok := estimate.EstimatePrimaryStat(input.Damage, input.Turns, input.MyPrimary)
		if ok {
			span.SetAttributes(attribute.String("kind", KindEstimate.String()))
			return Report{
				PlayerID:   playerID,
				Kind:       KindEstimate,
				Confidence: estimate.ConfidenceLow,
				Primary:    primary,
				Input:      *input,
			}, nil
		}
	}

	return Report{}, ErrNoData
}

func toStat(v float64) int64 {
	return int64(math.Round(v))
}

// fetchRemote asks the source and saves what it returns, keeping the
// source's attribution.
func (s Service) fetchRemote(ctx context.Context, playerID string) (Report, bool) {
	if s.source == nil {
		return Report{}, false
	}
	data, ok := s.source.GetPlayerData(ctx, playerID)
	if !ok {
		return Report{}, false
	}

	record := spystore.Record{
		PlayerID:  playerID,
		Strength:  toStat(data.Strength),
		Speed:     toStat(data.Speed),
		Dexterity: toStat(data.Dexterity),
		Defense:   toStat(data.Defense),
		Source:    string(data.Source),
		Timestamp: s.now(),
	}
	stored, err := s.store.Put(ctx, record)
	if err != nil {
		slog.ErrorContext(ctx, "failed to save fetched stats", "player_id", playerID, "err", err)
		stored = record
		stored.Total = record.Strength + record.Speed + record.Dexterity + record.Defense
	}

	name := data.Name
	if name == "Unknown" {
		name = ""
	}
	return Report{
		PlayerID:   playerID,
		Kind:       KindRemote,
		Confidence: estimate.ConfidenceAt(s.now(), stored.Timestamp),
		Record:     stored,
		Name:       name,
		Level:      data.Level,
	}, true
}

// AddSpy stores stats gathered by hand.
func (s Service) AddSpy(ctx context.Context, playerID string, strength, speed, dexterity, defense int64) (Report, error) {
	ctx, span := tracer.Start(ctx, "AddSpy")
	defer span.End()

	playerID = strings.TrimSpace(playerID)
	if playerID == "" {
		return Report{}, ErrInvalidPlayerID
	}
	if strength < 0 || speed < 0 || dexterity < 0 || defense < 0 {
		return Report{}, ErrInvalidStats
	}

	stored, err := s.store.Put(ctx, spystore.Record{
		PlayerID:  playerID,
		Strength:  strength,
		Speed:     speed,
		Dexterity: dexterity,
		Defense:   defense,
		Source:    string(tornstats.SourceManual),
		Timestamp: s.now(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to save spy")
		return Report{}, err
	}
	return Report{
		PlayerID:   playerID,
		Kind:       KindSpy,
		Confidence: estimate.ConfidenceHigh,
		Record:     stored,
	}, nil
}

type Result struct {
	PlayerID string
	Report   Report
	Err      error
}

// LookupMany runs Lookup for every id with bounded concurrency. Results are
// in the order of ids.
func (s Service) LookupMany(ctx context.Context, playerIDs []string, input *EstimateInput) []Result {
	ctx, span := tracer.Start(ctx, "LookupMany")
	defer span.End()

	mapper := iter.Mapper[string, Result]{MaxGoroutines: s.concurrency}
	return mapper.Map(playerIDs, func(id *string) Result {
		report, err := s.Lookup(ctx, *id, input)
		return Result{PlayerID: *id, Report: report, Err: err}
	})
}

// Refresh drops cached remote data for every id and fetches it again,
// overwriting the stored spy on success.
func (s Service) Refresh(ctx context.Context, playerIDs []string) []Result {
	ctx, span := tracer.Start(ctx, "Refresh")
	defer span.End()

	mapper := iter.Mapper[string, Result]{MaxGoroutines: s.concurrency}
	return mapper.Map(playerIDs, func(id *string) Result {
		playerID := strings.TrimSpace(*id)
		if playerID == "" {
			return Result{PlayerID: *id, Err: ErrInvalidPlayerID}
		}
		if s.source == nil {
			return Result{PlayerID: playerID, Err: ErrNoData}
		}
		s.source.Invalidate(playerID)
		report, ok := s.fetchRemote(ctx, playerID)
		if !ok {
			return Result{PlayerID: playerID, Err: ErrNoData}
		}
		return Result{PlayerID: playerID, Report: report}
	})
}
