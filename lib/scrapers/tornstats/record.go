package tornstats

import "errors"

type Source string

const (
	SourceAPI      Source = "TornStats API"
	SourceHTML     Source = "HTML"
	SourceHTMLSpy  Source = "HTML Spy"
	SourceManual   Source = "Manual"
	SourceEstimate Source = "Estimate"
)

const (
	defaultName       = "Unknown"
	defaultUpdateTime = "Unknown"
	htmlUpdateTime    = "HTML Extraction"
)

// StatRecord is the canonical shape every strategy produces.
type StatRecord struct {
	Name       string  `json:"name"`
	Level      int     `json:"level"`
	Strength   float64 `json:"strength"`
	Defense    float64 `json:"defense"`
	Speed      float64 `json:"speed"`
	Dexterity  float64 `json:"dexterity"`
	UpdateTime string  `json:"update_time"`
	Source     Source  `json:"source"`
}

// PlayerData is the envelope TornStats itself uses for spy results.
type PlayerData struct {
	Spy StatRecord `json:"spy"`
}

func (r StatRecord) Total() float64 {
	return r.Strength + r.Defense + r.Speed + r.Dexterity
}

// HasStats reports whether at least one battle stat is non-zero.
func (r StatRecord) HasStats() bool {
	return r.Strength > 0 || r.Defense > 0 || r.Speed > 0 || r.Dexterity > 0
}

func defaultRecord(source Source) StatRecord {
	return StatRecord{
		Name:       defaultName,
		UpdateTime: defaultUpdateTime,
		Source:     source,
	}
}

var (
	ErrInvalidPlayerID   = errors.New("invalid player id")
	ErrNotFound          = errors.New("no strategy produced stats for player")
	ErrMiss              = errors.New("strategy miss")
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
)
