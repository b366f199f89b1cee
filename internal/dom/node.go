package dom

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// tags que nunca geram caixa
var nonRendered = map[string]bool{
	"head":     true,
	"meta":     true,
	"link":     true,
	"script":   true,
	"style":    true,
	"template": true,
	"title":    true,
	"noscript": true,
}

// ancestrais que delimitam um trecho de contexto legível
var contextTags = map[string]bool{
	"article":  true,
	"aside":    true,
	"fieldset": true,
	"footer":   true,
	"form":     true,
	"header":   true,
	"li":       true,
	"main":     true,
	"nav":      true,
	"section":  true,
	"table":    true,
	"ul":       true,
	"ol":       true,
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func extractText(n *html.Node) string {
	var text strings.Builder
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.TextNode {
			text.WriteString(node.Data)
			text.WriteByte(' ')
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(text.String()), " ")
}

// notRendered cobre o que dá para saber sem CSS computado: o próprio
// elemento ou um ancestral escondido via atributo ou estilo inline.
func notRendered(n *html.Node) bool {
	if n.Data == "input" && strings.EqualFold(getAttr(n, "type"), "hidden") {
		return true
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if nonRendered[cur.Data] || hasAttr(cur, "hidden") {
			return true
		}
		style := strings.ToLower(strings.ReplaceAll(getAttr(cur, "style"), " ", ""))
		if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
			return true
		}
	}
	return false
}

// XPath monta o caminho absoluto do elemento, com índice apenas quando há
// irmãos com a mesma tag.
func XPath(n *html.Node) string {
	var steps []string
	for cur := n; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		steps = append(steps, xpathStep(cur))
	}
	for i, j := 0, len(steps)-1; i < j; i, j = i+1, j-1 {
		steps[i], steps[j] = steps[j], steps[i]
	}
	return "/" + strings.Join(steps, "/")
}

func xpathStep(n *html.Node) string {
	idx, total := 0, 0
	if n.Parent == nil {
		return n.Data
	}
	for c := n.Parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != n.Data {
			continue
		}
		total++
		if c == n {
			idx = total
		}
	}
	if total <= 1 {
		return n.Data
	}
	return fmt.Sprintf("%s[%d]", n.Data, idx)
}

// contextNode sobe até o ancestral semântico mais próximo; sem um antes do
// body, usa o pai direto.
func contextNode(n *html.Node) *html.Node {
	for cur := n.Parent; cur != nil && cur.Type == html.ElementNode; cur = cur.Parent {
		if cur.Data == "body" || cur.Data == "html" {
			break
		}
		if contextTags[cur.Data] {
			return cur
		}
	}
	if p := n.Parent; p != nil && p.Type == html.ElementNode && p.Data != "body" && p.Data != "html" {
		return p
	}
	return n
}

func render(n *html.Node) (string, error) {
	var b strings.Builder
	if err := html.Render(&b, n); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}

// accessibleText é uma aproximação do nome acessível: aria-label, alt,
// title e por fim o texto visível ou o value de campos.
func accessibleText(n *html.Node) string {
	for _, key := range []string{"aria-label", "alt", "title"} {
		if v := strings.TrimSpace(getAttr(n, key)); v != "" {
			return v
		}
	}
	if t := extractText(n); t != "" {
		return t
	}
	for _, key := range []string{"value", "placeholder"} {
		if v := strings.TrimSpace(getAttr(n, key)); v != "" {
			return v
		}
	}
	return ""
}
