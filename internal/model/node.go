package model

import (
	"strings"
	"unicode/utf8"
)

const (
	MaxHTMLLength        = 200
	MaxDescriptionLength = 20
	MaxContextHTMLLength = 1000
	ellipsis             = "..."

	// &thetasym; é a entidade nomeada mais longa que aparece na prática.
	maxEntityLength = 10
)

type BoundingBox struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Intersects informa se a caixa cruza a viewport (origem em 0,0).
func (b BoundingBox) Intersects(width, height float64) bool {
	return b.X < width && b.X+b.Width > 0 && b.Y < height && b.Y+b.Height > 0
}

// NodeInfo descreve um elemento afetado. Campos de diagnóstico ficam nil
// quando o elemento não pôde ser localizado.
type NodeInfo struct {
	Target             string       `json:"target"`
	XPath              *string      `json:"xpath,omitempty"`
	HTML               string       `json:"html"`
	ContextHTML        *string      `json:"contextHtml,omitempty"`
	FailureSummary     string       `json:"failureSummary,omitempty"`
	BoundingBox        *BoundingBox `json:"boundingBox,omitempty"`
	IsHidden           *bool        `json:"isHidden,omitempty"`
	ElementDescription *string      `json:"elementDescription,omitempty"`
}

// Locator devolve o caminho CSS ou, sem ele, o XPath.
func (n NodeInfo) Locator() string {
	if n.Target == "" && n.XPath != nil {
		return *n.XPath
	}
	return n.Target
}

// JoinTarget monta o caminho CSS a partir dos segmentos de ancestrais.
func JoinTarget(segments []string) string {
	parts := make([]string, 0, len(segments))
	for _, s := range segments {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " > ")
}

// TruncateHTML corta o markup em MaxHTMLLength caracteres (incluindo "...").
func TruncateHTML(s string) string {
	return TruncateMarkup(s, MaxHTMLLength)
}

// TruncateMarkup corta em limit caracteres contando o "...".
// O corte nunca cai no meio de uma entidade (&amp;, &#39; ...).
func TruncateMarkup(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	cut := limit - len(ellipsis)
	if amp := lastIndexRune(runes[:cut], '&'); amp >= 0 && cut-amp <= maxEntityLength {
		if semi := indexRune(runes[amp:], ';'); semi >= 0 && semi <= maxEntityLength && amp+semi >= cut {
			cut = amp
		}
	}
	return string(runes[:cut]) + ellipsis
}

// TruncateText corta em limit caracteres e acrescenta "..." quando excede.
func TruncateText(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + ellipsis
}

func lastIndexRune(rs []rune, r rune) int {
	for i := len(rs) - 1; i >= 0; i-- {
		if rs[i] == r {
			return i
		}
	}
	return -1
}

func indexRune(rs []rune, r rune) int {
	for i, x := range rs {
		if x == r {
			return i
		}
	}
	return -1
}

func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }
