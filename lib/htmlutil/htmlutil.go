package htmlutil

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// OwnText is the text of the node's direct text children only, so a label
// element does not swallow the value held by a nested element.
func OwnText(node *html.Node) string {
	if node == nil {
		return ""
	}
	var out strings.Builder
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			out.WriteString(child.Data)
		}
	}
	return out.String()
}

func invisible(node *html.Node) bool {
	switch node.DataAtom {
	case atom.Script, atom.Style, atom.Noscript, atom.Template, atom.Head:
		return true
	}
	return false
}

// EachTextNode calls fn for every visible text node under root in document
// order. Returning false stops the walk.
func EachTextNode(root *html.Node, fn func(text string) bool) {
	walkText(root, fn)
}

func walkText(node *html.Node, fn func(text string) bool) bool {
	if node == nil {
		return true
	}
	if node.Type == html.ElementNode && invisible(node) {
		return true
	}
	if node.Type == html.TextNode {
		return fn(node.Data)
	}
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if !walkText(child, fn) {
			return false
		}
	}
	return true
}

// VisibleText joins every visible text node under root with a single space.
func VisibleText(root *html.Node) string {
	var parts []string
	EachTextNode(root, func(text string) bool {
		text = strings.TrimSpace(text)
		if text != "" {
			parts = append(parts, text)
		}
		return true
	})
	return strings.Join(parts, " ")
}
