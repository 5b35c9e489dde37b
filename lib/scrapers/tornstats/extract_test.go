package tornstats

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
)

func parse(t testing.TB, page string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestExtractContainer(t *testing.T) {
	doc := parse(t, `<html><head><title>Alpha - TornStats</title></head><body>
		<p>Level 45</p>
		<div class="player-stats">
			<div><span>Strength:</span> <span>1,000</span></div>
			<div><span>Defence</span><span>2,000</span></div>
			<div class="stat-speed">Speed: 3,000</div>
			<div class="dexterity">4,000</div>
		</div>
	</body></html>`)

	record, used, ok := extractProfile(doc, "7")
	require.True(t, ok)
	require.Equal(t, heuristicContainer, used)
	require.Equal(t, StatRecord{
		Name:       "Alpha",
		Level:      45,
		Strength:   1000,
		Defense:    2000,
		Speed:      3000,
		Dexterity:  4000,
		UpdateTime: "HTML Extraction",
		Source:     SourceHTML,
	}, record)
}

func TestExtractTable(t *testing.T) {
	doc := parse(t, `<html><body><table>
		<tr><td>Strength</td><td>1,234,567</td></tr>
		<tr><th>speed:</th><td>10</td></tr>
		<tr><td>Notes</td><td>999</td></tr>
	</table></body></html>`)

	record, used, ok := extractProfile(doc, "7")
	require.True(t, ok)
	require.Equal(t, heuristicTable, used)
	require.Equal(t, 1234567.0, record.Strength)
	require.Equal(t, 10.0, record.Speed)
	require.Equal(t, 0.0, record.Defense)
	require.Equal(t, "Player 7", record.Name)
	require.Equal(t, 0, record.Level)
}

func TestExtractText(t *testing.T) {
	doc := parse(t, `<html><body>
		<script>var strength: 1;</script>
		<p>Defense: 6,000.5 and dexterity : 12</p>
	</body></html>`)

	values, used, ok := extractStats(doc)
	require.True(t, ok)
	require.Equal(t, heuristicText, used)
	require.Equal(t, statValues{0, 6000.5, 0, 12}, values)
}

func TestExtractHeuristicOrder(t *testing.T) {
	doc := parse(t, `<html><body>
		<div class="statsList"><span class="strength">5</span></div>
		<table><tr><td>Strength</td><td>6</td></tr></table>
		<p>Strength: 7</p>
	</body></html>`)

	values, used, ok := extractStats(doc)
	require.True(t, ok)
	require.Equal(t, heuristicContainer, used)
	require.Equal(t, 5.0, values[0])
}

func TestExtractNothing(t *testing.T) {
	doc := parse(t, `<html><body>
		<div class="player-stats"><span class="strength">0</span></div>
		<p>This player has no public stats.</p>
	</body></html>`)

	_, _, ok := extractProfile(doc, "1")
	require.False(t, ok)
}

func TestExtractSpyDOM(t *testing.T) {
	doc := parse(t, `<html><body>
		<h1>Bravo</h1>
		<p>Level: 30</p>
		<div class="spy-stats">
			<div class="stat-strength">Strength: 100</div>
			<div><b>Dexterity:</b> 400</div>
		</div>
	</body></html>`)

	record, ok := extractSpyDOM(doc, "9")
	require.True(t, ok)
	require.Equal(t, StatRecord{
		Name:       "Bravo",
		Level:      30,
		Strength:   100,
		Dexterity:  400,
		UpdateTime: "HTML Extraction",
		Source:     SourceHTMLSpy,
	}, record)

	_, ok = extractSpyDOM(parse(t, `<html><body><div class="playerStats"></div></body></html>`), "9")
	require.False(t, ok)
}

func TestEmbeddedPlayerData(t *testing.T) {
	page := `<script>
		var playerData = {"spy": {"name": "Semi;Colon", "strength": 5}}; renderStats(playerData);
	</script>`

	data, ok := embeddedPlayerData([]byte(page))
	require.True(t, ok)
	record, shape, err := Normalize(data)
	require.NoError(t, err)
	require.Equal(t, ShapeSpy, shape)
	require.Equal(t, "Semi;Colon", record.Name)
	require.Equal(t, 5.0, record.Strength)

	_, ok = embeddedPlayerData([]byte(`<script>var playerData = {broken</script>`))
	require.False(t, ok)
	_, ok = embeddedPlayerData([]byte(`<p>nothing here</p>`))
	require.False(t, ok)
}

func TestLabelMatches(t *testing.T) {
	require.True(t, labelMatches("Defence", "defense"))
	require.True(t, labelMatches(" STRENGTH ", "strength"))
	require.True(t, labelMatches("Speed", "speed"))
	require.False(t, labelMatches("str", "strength"))
	require.False(t, labelMatches("Level", "speed"))
	require.False(t, labelMatches("", "speed"))
}
