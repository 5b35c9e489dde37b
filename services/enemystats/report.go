package enemystats

import (
	"fmt"
	"strings"
	"time"

	"brotherowl-backend/lib/estimate"
	"brotherowl-backend/lib/spystore"
	"brotherowl-backend/lib/timezone"

	"github.com/dustin/go-humanize"
)

type Kind int

const (
	// KindSpy is a record that was already in the spy store.
	KindSpy Kind = iota
	// KindRemote was just fetched from TornStats and saved.
	KindRemote
	// KindEstimate was derived from a battle result.
	KindEstimate
)

func (k Kind) String() string {
	switch k {
	case KindSpy:
		return "spy"
	case KindRemote:
		return "tornstats"
	case KindEstimate:
		return "estimate"
	}
	return "unknown"
}

type EstimateInput struct {
	Damage    float64
	Turns     float64
	MyPrimary float64
}

type Report struct {
	PlayerID   string
	Kind       Kind
	Confidence estimate.Confidence

	// set for KindSpy and KindRemote
	Record spystore.Record
	// set for KindRemote when the site knows them
	Name  string
	Level int

	// set for KindEstimate
	Primary float64
	Input   EstimateInput
}

func (r Report) Total() int64 {
	if r.Kind == KindEstimate {
		return estimate.EstimateTotalStats(r.Primary, estimate.AccuracyLow)
	}
	return r.Record.Total
}

// Recommend compares yourTotal against the reported enemy.
func (r Report) Recommend(yourTotal float64) estimate.Verdict {
	return estimate.Recommend(yourTotal, float64(r.Total()))
}

func (r Report) Title() string {
	switch r.Kind {
	case KindEstimate:
		return fmt.Sprintf("Estimated Stats for Player %s", r.PlayerID)
	case KindRemote:
		if r.Name != "" {
			return fmt.Sprintf("TornStats Data for %s [%s]", r.Name, r.PlayerID)
		}
		return fmt.Sprintf("TornStats Data for Player %s", r.PlayerID)
	}
	return fmt.Sprintf("Spy Data for Player %s", r.PlayerID)
}

// Format renders the report as a chat reply.
func (r Report) Format() string {
	var out strings.Builder
	out.WriteString(r.Title())
	out.WriteString("\n")

	if r.Kind == KindEstimate {
		fmt.Fprintf(&out, "**Estimated Primary:** %s\n", humanize.Comma(int64(r.Primary)))
		fmt.Fprintf(&out, "**Estimated Total:** %s\n", humanize.Comma(r.Total()))
		fmt.Fprintf(&out, "Confidence: %s\n", strings.ToUpper(string(r.Confidence)))
		fmt.Fprintf(
			&out, "Based on %s damage over %s turns with your %s primary stat",
			humanize.Comma(int64(r.Input.Damage)),
			humanize.Comma(int64(r.Input.Turns)),
			humanize.Comma(int64(r.Input.MyPrimary)),
		)
		return out.String()
	}

	if r.Level > 0 {
		fmt.Fprintf(&out, "**Level:** %d\n", r.Level)
	}
	fmt.Fprintf(&out, "**Strength:** %s\n", humanize.Comma(r.Record.Strength))
	fmt.Fprintf(&out, "**Speed:** %s\n", humanize.Comma(r.Record.Speed))
	fmt.Fprintf(&out, "**Dexterity:** %s\n", humanize.Comma(r.Record.Dexterity))
	fmt.Fprintf(&out, "**Defense:** %s\n", humanize.Comma(r.Record.Defense))
	fmt.Fprintf(&out, "**Total:** %s\n", humanize.Comma(r.Record.Total))
	if r.Record.Source != "" {
		fmt.Fprintf(&out, "Source: %s\n", r.Record.Source)
	}
	if !r.Record.Timestamp.IsZero() {
		fmt.Fprintf(&out, "Last updated: %s\n", r.Record.Timestamp.In(timezone.Location).Format(time.DateTime))
	}
	fmt.Fprintf(&out, "Confidence: %s", strings.ToUpper(string(r.Confidence)))
	return out.String()
}

// NoDataMessage is the reply when nothing is known about a player.
func NoDataMessage(playerID string) string {
	return fmt.Sprintf(
		"No spy data found for player %s. To estimate stats, use: `enemy %s --damage <damage> --turns <turns> --my-primary <my_primary_stat>`",
		playerID, playerID,
	)
}
