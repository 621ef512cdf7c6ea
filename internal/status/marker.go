package status

import (
	"strings"

	"golang.org/x/net/html"
)

// Marker identifies the element whose presence signals a disruption.
type Marker struct {
	Tag   string
	Class string
}

// DefaultMarker matches <dd class="trouble">.
var DefaultMarker = Marker{Tag: "dd", Class: "trouble"}

func (m Marker) String() string {
	return m.Tag + "." + m.Class
}

// find returns the first element in document order matching the marker.
func (m Marker) find(n *html.Node) *html.Node {
	if n.Type == html.ElementNode && n.Data == m.Tag && hasClass(n, m.Class) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := m.find(c); found != nil {
			return found
		}
	}
	return nil
}

func hasClass(n *html.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Namespace != "" || a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// textContent concatenates every descendant text node, each trimmed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(strings.TrimSpace(n.Data))
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
