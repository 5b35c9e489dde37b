package tornstats

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func decode(t testing.TB, body string) map[string]any {
	t.Helper()
	var out map[string]any
	err := sonic.Unmarshal([]byte(body), &out)
	if err != nil {
		t.Fatal(err)
	}
	return out
}

func TestNormalizeShapeInvariance(t *testing.T) {
	fields := `{"name": "Alpha", "level": 42, "strength": 1000, "defense": 2000, "speed": 3000, "dexterity": 4000, "update_time": "2024-05-01"}`
	expected := StatRecord{
		Name:       "Alpha",
		Level:      42,
		Strength:   1000,
		Defense:    2000,
		Speed:      3000,
		Dexterity:  4000,
		UpdateTime: "2024-05-01",
		Source:     SourceAPI,
	}

	testCases := []struct {
		body  string
		shape Shape
	}{
		{body: `{"spy": ` + fields + `}`, shape: ShapeSpy},
		{body: `{"user": ` + fields + `}`, shape: ShapeUser},
		{body: `{"status": "ok", "stats": ` + fields + `}`, shape: ShapeStats},
		{body: fields, shape: ShapeRawStats},
	}

	for _, test := range testCases {
		record, shape, err := Normalize(decode(t, test.body))
		require.NoError(t, err)
		require.Equal(t, test.shape, shape)
		if diff := cmp.Diff(expected, record); diff != "" {
			t.Fatalf("%s shape mismatch (-want +got):\n%s", test.shape, diff)
		}
	}
}

func TestNormalizeSpyPassThrough(t *testing.T) {
	record, shape, err := Normalize(decode(t, `{"spy": {"name": "Bravo", "strength": 5, "source": "Faction Spy"}}`))
	require.NoError(t, err)
	require.Equal(t, ShapeSpy, shape)
	require.Equal(t, StatRecord{
		Name:       "Bravo",
		Strength:   5,
		UpdateTime: "Unknown",
		Source:     "Faction Spy",
	}, record)
}

func TestNormalizeDefaults(t *testing.T) {
	record, _, err := Normalize(decode(t, `{"user": {}}`))
	require.NoError(t, err)
	require.Equal(t, defaultRecord(SourceAPI), record)

	// only the spy shape may carry its own source
	record, _, err = Normalize(decode(t, `{"user": {"source": "Manual", "strength": 1}}`))
	require.NoError(t, err)
	require.Equal(t, SourceAPI, record.Source)
}

func TestNormalizeValueCoercion(t *testing.T) {
	record, _, err := Normalize(decode(t, `{
		"strength": "1,234,567",
		"defense": {"value": 20},
		"speed": {"total": "3,000.5"},
		"dexterity": -50,
		"level": "12",
		"update_time": 1700000000
	}`))
	require.NoError(t, err)
	require.Equal(t, 1234567.0, record.Strength)
	require.Equal(t, 20.0, record.Defense)
	require.Equal(t, 3000.5, record.Speed)
	require.Equal(t, 0.0, record.Dexterity)
	require.Equal(t, 12, record.Level)
	require.Equal(t, "2023-11-14T22:13:20Z", record.UpdateTime)
	require.Equal(t, "Unknown", record.Name)
}

func TestNormalizeUnrecognized(t *testing.T) {
	testCases := []string{
		`{}`,
		`{"status": "error", "stats": {"strength": 1}}`,
		`{"status": "ok"}`,
		`{"strength": 1, "defense": 2, "speed": 3}`,
		`{"spy": "not an object"}`,
		`{"message": "invalid key"}`,
	}
	for _, body := range testCases {
		_, shape, err := Normalize(decode(t, body))
		require.ErrorIs(t, err, ErrUnrecognizedShape, body)
		require.Equal(t, ShapeUnrecognized, shape)
	}

	_, _, err := Normalize(nil)
	require.ErrorIs(t, err, ErrUnrecognizedShape)
}

func TestNormalizeShapePriority(t *testing.T) {
	record, shape, err := Normalize(decode(t, `{
		"spy": {"name": "FromSpy"},
		"user": {"name": "FromUser"},
		"strength": 1, "defense": 1, "speed": 1, "dexterity": 1
	}`))
	require.NoError(t, err)
	require.Equal(t, ShapeSpy, shape)
	require.Equal(t, "FromSpy", record.Name)
}
