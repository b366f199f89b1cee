package adapters

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
)

// selectorList aceita "sel", ["a", "b"] ou listas aninhadas (iframes, shadow DOM).
type selectorList []string

func (s *selectorList) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		if strings.TrimSpace(one) != "" {
			*s = selectorList{one}
		}
		return nil
	}
	var many []json.RawMessage
	if err := json.Unmarshal(b, &many); err != nil {
		// números, objetos etc.: ignora sem falhar
		return nil
	}
	out := selectorList{}
	for _, m := range many {
		var inner selectorList
		_ = inner.UnmarshalJSON(m)
		out = append(out, inner...)
	}
	*s = out
	return nil
}

// splitSelector quebra "html > body > a" nos segmentos de ancestrais.
// O ">" dentro de atributos, strings ou :not(...) não é combinador.
func splitSelector(sel string) []string {
	var out []string
	var quote rune
	depth, start := 0, 0
	escaped := false
	for i, r := range sel {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
		case r == '[' || r == '(':
			depth++
		case (r == ']' || r == ')') && depth > 0:
			depth--
		case r == '>' && depth == 0:
			out = append(out, sel[start:i])
			start = i + 1
		}
	}
	return append(out, sel[start:])
}

func newNode(segments []string, html string) model.NodeInfo {
	return model.NodeInfo{
		Target: model.JoinTarget(segments),
		HTML:   model.TruncateHTML(html),
	}
}

// xpathNode é para engines que localizam o elemento só por XPath; target fica
// vazio porque é sempre um caminho CSS.
func xpathNode(xpath, html string) model.NodeInfo {
	node := newNode(nil, html)
	if xpath = strings.TrimSpace(xpath); xpath != "" {
		node.XPath = model.StringPtr(xpath)
	}
	return node
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// isEmptyRaw cobre engines que não produziram saída (timeout, crash).
func isEmptyRaw(b []byte) bool {
	t := bytes.TrimSpace(b)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

func isJSONArray(b []byte) bool {
	t := bytes.TrimSpace(b)
	return len(t) > 0 && t[0] == '['
}

func readFile(path string, parse ParseFunc) ([]model.Finding, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parse(b)
}

// groupKey agrupa resultados por regra e desfecho mantendo a ordem de chegada.
type groupKey struct {
	rule    string
	outcome model.Outcome
}

type grouper struct {
	order []groupKey
	byKey map[groupKey]*model.Finding
}

func newGrouper() *grouper {
	return &grouper{byKey: map[groupKey]*model.Finding{}}
}

// get devolve o finding do grupo, criando com init na primeira vez.
func (g *grouper) get(k groupKey, init func() model.Finding) *model.Finding {
	if f, ok := g.byKey[k]; ok {
		return f
	}
	f := init()
	g.byKey[k] = &f
	g.order = append(g.order, k)
	return &f
}

func (g *grouper) findings() []model.Finding {
	out := make([]model.Finding, 0, len(g.order))
	for _, k := range g.order {
		f := *g.byKey[k]
		if f.Nodes != nil {
			f.NodeCount = len(f.Nodes)
		}
		out = append(out, f)
	}
	return out
}
