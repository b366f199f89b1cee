package diagnostics

import (
	"context"
	"strings"
	"sync"

	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
)

var DefaultViewport = Viewport{Width: 1280, Height: 720}

// Extractor enriquece os nós dos findings com diagnósticos do DOM.
// Cada nó é resolvido de forma independente: uma falha degrada apenas os
// campos daquele nó.
type Extractor struct {
	Resolver ElementResolver
	// Concurrency limita quantos nós de um finding são resolvidos em paralelo.
	Concurrency int
	// Fallback é usado quando o resolver não informa a viewport.
	Fallback Viewport
}

func NewExtractor(r ElementResolver, concurrency int) *Extractor {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Extractor{Resolver: r, Concurrency: concurrency, Fallback: DefaultViewport}
}

// Enhance devolve cópias dos findings com os nós enriquecidos.
func (e *Extractor) Enhance(ctx context.Context, findings []model.Finding) []model.Finding {
	out := make([]model.Finding, len(findings))
	copy(out, findings)
	if e == nil || e.Resolver == nil {
		return out
	}
	vp := e.viewport(ctx)
	for i := range out {
		if len(out[i].Nodes) == 0 {
			continue
		}
		out[i].SetNodes(e.enhanceNodes(ctx, vp, out[i].Nodes))
	}
	return out
}

// EnhanceNodes enriquece uma lista de nós isolada.
func (e *Extractor) EnhanceNodes(ctx context.Context, nodes []model.NodeInfo) []model.NodeInfo {
	if e == nil || e.Resolver == nil {
		out := make([]model.NodeInfo, len(nodes))
		copy(out, nodes)
		return out
	}
	return e.enhanceNodes(ctx, e.viewport(ctx), nodes)
}

func (e *Extractor) viewport(ctx context.Context) Viewport {
	vp, err := e.Resolver.Viewport(ctx)
	if err != nil || vp.Width <= 0 || vp.Height <= 0 {
		if err != nil {
			logging.Logger.Debugw("viewport indisponível, usando padrão", "erro", err)
		}
		return e.Fallback
	}
	return vp
}

func (e *Extractor) enhanceNodes(ctx context.Context, vp Viewport, nodes []model.NodeInfo) []model.NodeInfo {
	out := make([]model.NodeInfo, len(nodes))
	limit := e.Concurrency
	if limit < 1 {
		limit = 1
	}
	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	for i, n := range nodes {
		wg.Add(1)
		go func(i int, n model.NodeInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			out[i] = e.enhanceNode(ctx, vp, n)
		}(i, n)
	}
	wg.Wait()
	return out
}

func (e *Extractor) enhanceNode(ctx context.Context, vp Viewport, n model.NodeInfo) (res model.NodeInfo) {
	res = n
	// um resolver com bug não pode derrubar os nós vizinhos
	defer func() {
		if r := recover(); r != nil {
			logging.Logger.Warnw("falha inesperada ao extrair diagnóstico", "target", n.Target, "panic", r)
			res = n
		}
	}()

	selector := n.Target
	if selector == "" && n.XPath != nil {
		selector = *n.XPath
	}
	if selector == "" {
		return res
	}

	el, err := e.Resolver.Resolve(ctx, selector)
	if err != nil || el == nil {
		logging.Logger.Debugw("elemento não localizado", "target", selector, "erro", err)
		return res
	}

	if xp, err := el.Evaluate(ctx, ProbeXPath); err == nil && xp != "" {
		res.XPath = model.StringPtr(xp)
	}

	box, err := el.BoundingBox(ctx)
	switch {
	case err != nil:
		logging.Logger.Debugw("bounding box indisponível", "target", selector, "erro", err)
	case box == nil || !box.Intersects(vp.Width, vp.Height):
		res.IsHidden = model.BoolPtr(true)
		res.BoundingBox = nil
	default:
		b := *box
		res.BoundingBox = &b
		res.IsHidden = model.BoolPtr(false)
	}

	if ctxHTML, err := el.Evaluate(ctx, ProbeContextHTML); err == nil && ctxHTML != "" {
		res.ContextHTML = model.StringPtr(model.TruncateMarkup(ctxHTML, model.MaxContextHTMLLength))
	}

	tag, err := el.Evaluate(ctx, ProbeTagName)
	if err == nil && tag != "" {
		text, _ := el.Evaluate(ctx, ProbeAccessibleText)
		res.ElementDescription = model.StringPtr(Describe(tag, text))
	}
	return res
}

var tagNouns = map[string]string{
	"a":        "link",
	"area":     "image map area",
	"audio":    "audio",
	"button":   "button",
	"form":     "form",
	"h1":       "heading",
	"h2":       "heading",
	"h3":       "heading",
	"h4":       "heading",
	"h5":       "heading",
	"h6":       "heading",
	"iframe":   "frame",
	"img":      "image",
	"input":    "input",
	"label":    "label",
	"li":       "list item",
	"nav":      "navigation",
	"ol":       "list",
	"p":        "paragraph",
	"select":   "dropdown",
	"svg":      "graphic",
	"table":    "table",
	"textarea": "text area",
	"th":       "table header",
	"ul":       "list",
	"video":    "video",
}

// Describe monta um rótulo curto como `link "Read more"`, truncado em
// MaxDescriptionLength caracteres com "...".
func Describe(tag, text string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	noun, ok := tagNouns[tag]
	if !ok {
		noun = tag
	}
	text = strings.Join(strings.Fields(text), " ")
	desc := noun
	if text != "" {
		desc = noun + ` "` + text + `"`
	}
	return model.TruncateText(desc, model.MaxDescriptionLength)
}
