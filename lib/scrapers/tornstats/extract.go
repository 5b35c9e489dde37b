package tornstats

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"brotherowl-backend/lib/htmlutil"
	"brotherowl-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"github.com/antzucaro/matchr"
	"github.com/bytedance/sonic"
)

// statValues holds the four battle stats in statKeys order.
type statValues [4]float64

func (v statValues) nonZero() bool {
	for _, n := range v {
		if n > 0 {
			return true
		}
	}
	return false
}

func (v statValues) apply(record *StatRecord) {
	record.Strength = v[0]
	record.Defense = v[1]
	record.Speed = v[2]
	record.Dexterity = v[3]
}

type heuristic string

const (
	heuristicContainer heuristic = "container"
	heuristicTable     heuristic = "table"
	heuristicText      heuristic = "text"
)

const profileContainers = "div.player-stats, div.statsList"
const spyContainers = "div.playerStats, div.spy-stats"

// extractStats runs the heuristics in order and returns the first result
// that has at least one non-zero stat.
func extractStats(doc *goquery.Document) (statValues, heuristic, bool) {
	if values, ok := statsFromContainers(doc.Find(profileContainers)); ok {
		return values, heuristicContainer, true
	}
	if values, ok := statsFromTables(doc.Selection); ok {
		return values, heuristicTable, true
	}
	if values, ok := statsFromText(doc.Selection); ok {
		return values, heuristicText, true
	}
	return statValues{}, "", false
}

var inlineNumberRegex = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// numberIn finds the first number anywhere in s.
func numberIn(s string) (float64, bool) {
	match := inlineNumberRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	return textutil.ParseNumber(match)
}

// labelMatches compares a visible label against a stat key, allowing a
// single edit on longer names so "Defence" still reads as defense.
func labelMatches(label, stat string) bool {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == stat {
		return true
	}
	if len(stat) < 5 || label == "" {
		return false
	}
	return matchr.Levenshtein(label, stat) <= 1
}

func splitLabel(text string) (label string, rest string) {
	text = textutil.CollapseSpace(text)
	label, rest, found := strings.Cut(text, ":")
	if !found {
		return text, ""
	}
	return label, rest
}

func statsFromContainers(containers *goquery.Selection) (statValues, bool) {
	var values statValues
	containers.Each(func(_ int, container *goquery.Selection) {
		for i, stat := range statKeys {
			if values[i] > 0 {
				continue
			}
			if n, ok := classedStat(container, stat); ok {
				values[i] = n
				continue
			}
			if n, ok := labelledStat(container, stat); ok {
				values[i] = n
			}
		}
	})
	return values, values.nonZero()
}

func classedStat(container *goquery.Selection, stat string) (float64, bool) {
	el := container.Find(fmt.Sprintf(".stat-%s, .%s", stat, stat)).First()
	if el.Length() == 0 {
		return 0, false
	}
	_, rest := splitLabel(el.Text())
	if n, ok := numberIn(rest); ok {
		return n, true
	}
	return numberIn(el.Text())
}

func labelledStat(container *goquery.Selection, stat string) (float64, bool) {
	var (
		value float64
		found bool
	)
	container.Find("*").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		label, rest := splitLabel(htmlutil.OwnText(el.Get(0)))
		if !labelMatches(label, stat) {
			return true
		}
		if n, ok := numberIn(rest); ok {
			value, found = n, true
			return false
		}
		// the value can sit inside the label, in its sibling or in the label's parent
		if n, ok := numberIn(el.Children().Text()); ok {
			value, found = n, true
			return false
		}
		if n, ok := numberIn(el.Next().Text()); ok {
			value, found = n, true
			return false
		}
		if n, ok := numberIn(htmlutil.OwnText(el.Parent().Get(0))); ok {
			value, found = n, true
			return false
		}
		return true
	})
	return value, found
}

func statsFromTables(root *goquery.Selection) (statValues, bool) {
	var values statValues
	root.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Children().Filter("td, th")
		cells.Each(func(i int, cell *goquery.Selection) {
			if i+1 >= cells.Length() {
				return
			}
			label := strings.ToLower(strings.TrimSpace(cell.Text()))
			label = strings.TrimSuffix(label, ":")
			for idx, stat := range statKeys {
				if label != stat || values[idx] > 0 {
					continue
				}
				if n, ok := numberIn(cells.Eq(i + 1).Text()); ok {
					values[idx] = n
				}
			}
		})
	})
	return values, values.nonZero()
}

var statTextRegex = regexp.MustCompile(`(?i)\b(strength|defense|speed|dexterity)\s*:\s*([\d,]+(?:\.\d+)?)`)

func statsFromText(root *goquery.Selection) (statValues, bool) {
	body := root.Find("body")
	if body.Length() == 0 {
		body = root
	}
	text := htmlutil.VisibleText(body.Get(0))

	var values statValues
	for _, match := range statTextRegex.FindAllStringSubmatch(text, -1) {
		stat := strings.ToLower(match[1])
		for idx, key := range statKeys {
			if key != stat || values[idx] > 0 {
				continue
			}
			if n, ok := textutil.ParseNumber(match[2]); ok {
				values[idx] = n
			}
		}
	}
	return values, values.nonZero()
}

func extractName(doc *goquery.Document, playerID string) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title != "" {
		first, _, _ := strings.Cut(title, " - ")
		first = strings.TrimSpace(first)
		if first != "" {
			return first
		}
	}
	return fallbackName(playerID)
}

func fallbackName(playerID string) string {
	return "Player " + playerID
}

// extractLevel reads the first digit run of the first text node that
// contains marker. Missing levels are 0.
func extractLevel(doc *goquery.Document, marker string) int {
	body := doc.Find("body")
	if body.Length() == 0 {
		return 0
	}
	level := 0
	htmlutil.EachTextNode(body.Get(0), func(text string) bool {
		idx := strings.Index(text, marker)
		if idx < 0 {
			return true
		}
		if n, ok := textutil.FirstDigitRun(text[idx:]); ok {
			level = n
			return false
		}
		return true
	})
	return level
}

// extractProfile builds a record from an anonymous profile page.
func extractProfile(doc *goquery.Document, playerID string) (StatRecord, heuristic, bool) {
	values, used, ok := extractStats(doc)
	if !ok {
		return StatRecord{}, "", false
	}
	record := StatRecord{
		Name:       extractName(doc, playerID),
		Level:      extractLevel(doc, "Level"),
		UpdateTime: htmlUpdateTime,
		Source:     SourceHTML,
	}
	values.apply(&record)
	return record, used, true
}

// extractSpyDOM reads the stats block of the logged-in spy page.
func extractSpyDOM(doc *goquery.Document, playerID string) (StatRecord, bool) {
	containers := doc.Find(spyContainers)
	if containers.Length() == 0 {
		return StatRecord{}, false
	}
	values, ok := statsFromContainers(containers)
	if !ok {
		return StatRecord{}, false
	}

	name := strings.TrimSpace(doc.Find("h1, h2.playerName").First().Text())
	if name == "" {
		name = fallbackName(playerID)
	}
	record := StatRecord{
		Name:       name,
		Level:      extractLevel(doc, "Level:"),
		UpdateTime: htmlUpdateTime,
		Source:     SourceHTMLSpy,
	}
	values.apply(&record)
	return record, true
}

var playerDataRegex = regexp.MustCompile(`var\s+playerData\s*=\s*`)

// embeddedPlayerData decodes the JSON literal assigned to playerData in a
// page script. Only the single JSON value after the marker is consumed.
func embeddedPlayerData(body []byte) (map[string]any, bool) {
	loc := playerDataRegex.FindIndex(body)
	if loc == nil {
		return nil, false
	}

	var literal json.RawMessage
	err := json.NewDecoder(bytes.NewReader(body[loc[1]:])).Decode(&literal)
	if err != nil {
		return nil, false
	}

	var data map[string]any
	err = sonic.Unmarshal(literal, &data)
	if err != nil {
		return nil, false
	}
	return data, true
}
