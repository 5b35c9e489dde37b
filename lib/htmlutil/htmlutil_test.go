package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parse(t *testing.T, src string) *html.Node {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestVisibleTextSkipsScripts(t *testing.T) {
	doc := parse(t, `<html><head><title>ignored</title><script>var a = "Strength: 9";</script></head>
<body><p>Speed:  <b>10</b></p><style>.x{}</style></body></html>`)

	require.Equal(t, "Speed: 10", VisibleText(doc))
}

func TestOwnText(t *testing.T) {
	doc := parse(t, `<div id="x">Strength: <span>12</span></div>`)

	var div *html.Node
	var find func(n *html.Node)
	find = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "div" {
			div = n
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			find(c)
		}
	}
	find(doc)

	require.NotNil(t, div)
	require.Equal(t, "Strength: ", OwnText(div))
	require.Equal(t, "Strength: 12", GetText(div))
}

func TestEachTextNodeStops(t *testing.T) {
	doc := parse(t, `<p>a</p><p>b</p><p>c</p>`)

	var seen []string
	EachTextNode(doc, func(text string) bool {
		seen = append(seen, text)
		return text != "b"
	})
	require.Equal(t, []string{"a", "b"}, seen)
}
