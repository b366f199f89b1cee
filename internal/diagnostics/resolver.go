package diagnostics

import (
	"context"

	"github.com/Sena-ops/a11yguard/internal/model"
)

// Probe identifica uma consulta avaliada sobre o elemento resolvido.
type Probe int

const (
	ProbeXPath          Probe = iota // XPath estrutural, ex: /html/body/div[2]/a
	ProbeContextHTML                 // outerHTML do ancestral significativo mais próximo
	ProbeTagName                     // nome da tag em minúsculas
	ProbeAccessibleText              // alt, aria-label ou texto visível
)

func (p Probe) String() string {
	switch p {
	case ProbeXPath:
		return "xpath"
	case ProbeContextHTML:
		return "context-html"
	case ProbeTagName:
		return "tag-name"
	case ProbeAccessibleText:
		return "accessible-text"
	}
	return "unknown"
}

type Viewport struct {
	Width  float64
	Height float64
}

// ElementHandle é um elemento vivo fornecido pela camada de automação.
type ElementHandle interface {
	// BoundingBox devolve nil, nil quando o elemento não é renderizado
	// (display:none, desanexado).
	BoundingBox(ctx context.Context) (*model.BoundingBox, error)
	Evaluate(ctx context.Context, probe Probe) (string, error)
}

// ElementResolver localiza elementos por seletor CSS ou XPath.
type ElementResolver interface {
	// Resolve devolve nil, nil quando nenhum elemento casa com o seletor.
	Resolve(ctx context.Context, selector string) (ElementHandle, error)
	Viewport(ctx context.Context) (Viewport, error)
}
