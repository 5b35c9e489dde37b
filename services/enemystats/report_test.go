package enemystats

import (
	"testing"
	"time"

	"brotherowl-backend/lib/estimate"
	"brotherowl-backend/lib/spystore"

	"github.com/stretchr/testify/require"
)

func TestFormatSpy(t *testing.T) {
	report := Report{
		PlayerID:   "12345",
		Kind:       KindSpy,
		Confidence: estimate.ConfidenceHigh,
		Record: spystore.Record{
			Strength:  1_000_000,
			Speed:     2_000_000,
			Dexterity: 3_000,
			Defense:   4,
			Total:     3_003_004,
			Source:    "Manual",
			Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}

	require.Equal(t, `Spy Data for Player 12345
**Strength:** 1,000,000
**Speed:** 2,000,000
**Dexterity:** 3,000
**Defense:** 4
**Total:** 3,003,004
Source: Manual
Last updated: 2024-01-02 03:04:05
Confidence: HIGH`, report.Format())
}

func TestFormatEstimate(t *testing.T) {
	report := Report{
		PlayerID:   "9",
		Kind:       KindEstimate,
		Confidence: estimate.ConfidenceLow,
		Primary:    157_000,
		Input:      EstimateInput{Damage: 4800, Turns: 10, MyPrimary: 100_000},
	}

	require.Equal(t, `Estimated Stats for Player 9
**Estimated Primary:** 157,000
**Estimated Total:** 659,400
Confidence: LOW
Based on 4,800 damage over 10 turns with your 100,000 primary stat`, report.Format())
}

func TestFormatRemoteTitle(t *testing.T) {
	report := Report{PlayerID: "3", Kind: KindRemote, Name: "Alpha", Level: 10}
	require.Equal(t, "TornStats Data for Alpha [3]", report.Title())
	require.Contains(t, report.Format(), "**Level:** 10")
}

func TestRecommend(t *testing.T) {
	report := Report{Kind: KindSpy, Record: spystore.Record{Total: 100}}
	require.Equal(t, estimate.VerdictHighlyFavorable, report.Recommend(200))
	require.Equal(t, estimate.VerdictInsufficientData, report.Recommend(0))
}

func TestNoDataMessage(t *testing.T) {
	require.Contains(t, NoDataMessage("42"), "No spy data found for player 42")
}
