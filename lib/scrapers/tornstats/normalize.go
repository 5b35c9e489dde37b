package tornstats

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"brotherowl-backend/lib/textutil"
)

// Shape identifies which of the response layouts TornStats has been seen to
// return a body matched.
type Shape int

const (
	ShapeUnrecognized Shape = iota
	ShapeSpy
	ShapeUser
	ShapeStats
	ShapeRawStats
)

func (s Shape) String() string {
	switch s {
	case ShapeSpy:
		return "spy"
	case ShapeUser:
		return "user"
	case ShapeStats:
		return "stats"
	case ShapeRawStats:
		return "raw_stats"
	default:
		return "unrecognized"
	}
}

var statKeys = [4]string{"strength", "defense", "speed", "dexterity"}

func DetectShape(raw map[string]any) Shape {
	if raw == nil {
		return ShapeUnrecognized
	}
	if _, ok := raw["spy"].(map[string]any); ok {
		return ShapeSpy
	}
	if _, ok := raw["user"].(map[string]any); ok {
		return ShapeUser
	}
	if status, ok := raw["status"].(string); ok && status == "ok" {
		if _, ok := raw["stats"].(map[string]any); ok {
			return ShapeStats
		}
	}
	for _, key := range statKeys {
		if _, ok := raw[key]; !ok {
			return ShapeUnrecognized
		}
	}
	return ShapeRawStats
}

// Normalize maps any recognized response body into a StatRecord. The spy
// shape is passed through, keeping its own source; every other shape is
// attributed to the API.
func Normalize(raw map[string]any) (StatRecord, Shape, error) {
	shape := DetectShape(raw)
	switch shape {
	case ShapeSpy:
		return fromFields(raw["spy"].(map[string]any), true), shape, nil
	case ShapeUser:
		return fromFields(raw["user"].(map[string]any), false), shape, nil
	case ShapeStats:
		return fromFields(raw["stats"].(map[string]any), false), shape, nil
	case ShapeRawStats:
		return fromFields(raw, false), shape, nil
	}
	return StatRecord{}, ShapeUnrecognized, ErrUnrecognizedShape
}

func fromFields(fields map[string]any, keepSource bool) StatRecord {
	record := defaultRecord(SourceAPI)

	if name, ok := toText(fields["name"]); ok && name != "" {
		record.Name = name
	}
	if level, ok := toNumber(fields["level"]); ok && level > 0 {
		record.Level = int(level)
	}
	record.Strength = toStat(fields["strength"])
	record.Defense = toStat(fields["defense"])
	record.Speed = toStat(fields["speed"])
	record.Dexterity = toStat(fields["dexterity"])
	if updated, ok := toUpdateTime(fields["update_time"]); ok {
		record.UpdateTime = updated
	}
	if keepSource {
		if source, ok := fields["source"].(string); ok && source != "" {
			record.Source = Source(source)
		}
	}

	return record
}

func toText(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v), true
	case float64, int, int64:
		return fmt.Sprint(v), true
	}
	return "", false
}

func toNumber(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		return textutil.ParseNumber(v)
	case map[string]any:
		for _, key := range []string{"value", "total"} {
			if inner, ok := v[key]; ok {
				return toNumber(inner)
			}
		}
	}
	return 0, false
}

func toStat(value any) float64 {
	n, ok := toNumber(value)
	if !ok || n < 0 {
		return 0
	}
	return n
}

func toUpdateTime(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		v = strings.TrimSpace(v)
		return v, v != ""
	case float64:
		if v <= 0 {
			return "", false
		}
		return time.Unix(int64(v), 0).UTC().Format(time.RFC3339), true
	case int64:
		return toUpdateTime(float64(v))
	case int:
		return toUpdateTime(float64(v))
	}
	return "", false
}

// formatStat renders a stat the way the site prints it, mostly for logs.
func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
