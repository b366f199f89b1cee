// Package dom resolve seletores sobre um snapshot HTML estático, sem navegador.
// Não há layout: elementos visíveis devolvem ErrNoLayout no BoundingBox e os
// escondidos por markup (display:none, hidden, type=hidden) devolvem nil.
package dom

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/diagnostics"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

var (
	ErrNoLayout         = errors.New("snapshot estático não tem layout")
	ErrUnsupportedXPath = errors.New("xpath não suportado")
)

type Snapshot struct {
	doc      *html.Node
	viewport diagnostics.Viewport
}

func Parse(r io.Reader, vp diagnostics.Viewport) (*Snapshot, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Snapshot{doc: doc, viewport: vp}, nil
}

func ParseString(s string, vp diagnostics.Viewport) (*Snapshot, error) {
	return Parse(strings.NewReader(s), vp)
}

func ParseFile(path string, vp diagnostics.Viewport) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("abrir snapshot %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f, vp)
}

func (s *Snapshot) Viewport(ctx context.Context) (diagnostics.Viewport, error) {
	return s.viewport, nil
}

// Resolve aceita seletores CSS ou XPath absoluto simples (/html/body/div[2]/a).
func (s *Snapshot) Resolve(ctx context.Context, selector string) (diagnostics.ElementHandle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, nil
	}

	var n *html.Node
	if strings.HasPrefix(selector, "/") {
		found, err := s.resolveXPath(selector)
		if err != nil {
			return nil, err
		}
		n = found
	} else {
		sel, err := cascadia.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("seletor inválido %q: %w", selector, err)
		}
		n = sel.MatchFirst(s.doc)
	}
	if n == nil {
		return nil, nil
	}
	return &element{node: n}, nil
}

func (s *Snapshot) resolveXPath(xp string) (*html.Node, error) {
	if strings.HasPrefix(xp, "//") {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedXPath, xp)
	}
	cur := s.doc
	for _, step := range strings.Split(strings.TrimPrefix(xp, "/"), "/") {
		tag, idx, err := parseStep(step)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, xp)
		}
		cur = nthChild(cur, tag, idx)
		if cur == nil {
			return nil, nil
		}
	}
	return cur, nil
}

func parseStep(step string) (string, int, error) {
	if step == "" {
		return "", 0, ErrUnsupportedXPath
	}
	open := strings.IndexByte(step, '[')
	if open < 0 {
		return strings.ToLower(step), 1, nil
	}
	if !strings.HasSuffix(step, "]") {
		return "", 0, ErrUnsupportedXPath
	}
	idx, err := strconv.Atoi(step[open+1 : len(step)-1])
	if err != nil || idx < 1 {
		return "", 0, ErrUnsupportedXPath
	}
	return strings.ToLower(step[:open]), idx, nil
}

func nthChild(parent *html.Node, tag string, idx int) *html.Node {
	i := 0
	for c := parent.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == tag {
			i++
			if i == idx {
				return c
			}
		}
	}
	return nil
}

type element struct {
	node *html.Node
}

func (e *element) BoundingBox(ctx context.Context) (*model.BoundingBox, error) {
	if notRendered(e.node) {
		return nil, nil
	}
	return nil, ErrNoLayout
}

func (e *element) Evaluate(ctx context.Context, p diagnostics.Probe) (string, error) {
	switch p {
	case diagnostics.ProbeXPath:
		return XPath(e.node), nil
	case diagnostics.ProbeContextHTML:
		return render(contextNode(e.node))
	case diagnostics.ProbeTagName:
		return strings.ToLower(e.node.Data), nil
	case diagnostics.ProbeAccessibleText:
		return accessibleText(e.node), nil
	}
	return "", fmt.Errorf("probe %s não suportada", p)
}
