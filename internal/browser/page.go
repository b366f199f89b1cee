// Package browser resolve elementos numa página viva via Chrome DevTools.
package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/diagnostics"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

type Options struct {
	Viewport diagnostics.Viewport
	Headers  map[string]string
	// ExecPath aponta para um Chrome específico; vazio usa o padrão do sistema.
	ExecPath string
	Headless bool
}

// Page é uma aba aberta numa URL. Implementa diagnostics.ElementResolver.
type Page struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// Open inicia o Chrome, aplica viewport e cabeçalhos e navega até url.
func Open(ctx context.Context, url string, opts Options) (*Page, error) {
	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithDebugf(logging.Logger.Debugf),
	)
	cancel := func() {
		tabCancel()
		allocCancel()
	}

	vp := opts.Viewport
	if vp.Width <= 0 || vp.Height <= 0 {
		vp = diagnostics.DefaultViewport
	}
	actions := []chromedp.Action{
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
	}
	if len(opts.Headers) > 0 {
		h := network.Headers{}
		for k, v := range opts.Headers {
			h[k] = v
		}
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(h))
	}
	actions = append(actions, chromedp.Navigate(url), chromedp.WaitReady("body"))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		cancel()
		return nil, fmt.Errorf("abrir %s: %w", url, err)
	}
	logging.Logger.Debugw("página aberta", "url", url, "viewport", vp)
	return &Page{ctx: tabCtx, cancel: cancel}, nil
}

func (p *Page) Close() {
	if p.cancel != nil {
		p.cancel()
	}
}

// HTML devolve o outerHTML do documento já renderizado.
func (p *Page) HTML(ctx context.Context) (string, error) {
	var out string
	if err := p.run(ctx, chromedp.OuterHTML("html", &out, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("capturar html: %w", err)
	}
	return out, nil
}

func (p *Page) Viewport(ctx context.Context) (diagnostics.Viewport, error) {
	var size []float64
	if err := p.run(ctx, chromedp.Evaluate(`[window.innerWidth, window.innerHeight]`, &size)); err != nil {
		return diagnostics.Viewport{}, err
	}
	if len(size) != 2 {
		return diagnostics.Viewport{}, fmt.Errorf("viewport inesperada: %v", size)
	}
	return diagnostics.Viewport{Width: size[0], Height: size[1]}, nil
}

// Resolve aceita CSS ou XPath; BySearch cobre os dois.
func (p *Page) Resolve(ctx context.Context, selector string) (diagnostics.ElementHandle, error) {
	var nodes []*cdp.Node
	err := p.run(ctx, chromedp.Nodes(selector, &nodes, chromedp.BySearch, chromedp.AtLeast(0)))
	if err != nil {
		return nil, fmt.Errorf("resolver %q: %w", selector, err)
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	return &element{page: p, node: nodes[0]}, nil
}

// run executa as ações no contexto da aba, respeitando o cancelamento de ctx.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithCancel(p.ctx)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

type element struct {
	page *Page
	node *cdp.Node
}

func (e *element) BoundingBox(ctx context.Context) (*model.BoundingBox, error) {
	var box *model.BoundingBox
	err := e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		m, err := dom.GetBoxModel().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			// display:none ou nó desanexado
			if strings.Contains(err.Error(), "Could not compute box model") {
				return nil
			}
			return err
		}
		box = quadToBox(m.Border, m.Width, m.Height)
		return nil
	}))
	if err != nil {
		return nil, err
	}
	return box, nil
}

func (e *element) Evaluate(ctx context.Context, probe diagnostics.Probe) (string, error) {
	if probe == diagnostics.ProbeXPath {
		return e.node.FullXPath(), nil
	}
	fn, ok := probeScripts[probe]
	if !ok {
		return "", fmt.Errorf("probe %s não suportada", probe)
	}
	var out string
	err := e.page.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		obj, err := dom.ResolveNode().WithNodeID(e.node.NodeID).Do(ctx)
		if err != nil {
			return err
		}
		res, exc, err := runtime.CallFunctionOn(fn).
			WithObjectID(obj.ObjectID).
			WithReturnByValue(true).
			Do(ctx)
		if err != nil {
			return err
		}
		if exc != nil {
			return fmt.Errorf("probe %s: %s", probe, exc.Text)
		}
		if res == nil || len(res.Value) == 0 {
			return nil
		}
		return json.Unmarshal([]byte(res.Value), &out)
	}))
	return out, err
}

var probeScripts = map[diagnostics.Probe]string{
	diagnostics.ProbeContextHTML: `function() {
	const parent = this.parentElement;
	const landmark = parent && parent.closest('article,aside,fieldset,footer,form,header,li,main,nav,section,table,ul,ol');
	if (landmark) return landmark.outerHTML;
	if (parent && parent !== document.body && parent !== document.documentElement) return parent.outerHTML;
	return this.outerHTML;
}`,
	diagnostics.ProbeTagName: `function() { return this.tagName.toLowerCase(); }`,
	diagnostics.ProbeAccessibleText: `function() {
	const attr = ['aria-label', 'alt', 'title'].map(k => this.getAttribute(k)).find(v => v && v.trim());
	return (attr || this.innerText || this.value || this.getAttribute('placeholder') || '').trim();
}`,
}

// quadToBox converte o quad da borda (4 pontos x,y) numa caixa alinhada.
func quadToBox(q dom.Quad, width, height int64) *model.BoundingBox {
	if len(q) < 8 {
		return nil
	}
	x, y := q[0], q[1]
	for i := 2; i < 8; i += 2 {
		if q[i] < x {
			x = q[i]
		}
		if q[i+1] < y {
			y = q[i+1]
		}
	}
	return &model.BoundingBox{X: x, Y: y, Width: float64(width), Height: float64(height)}
}
