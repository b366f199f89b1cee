package model

import (
	"sort"
	"strings"
)

type ToolSource string

const (
	ToolAxe        ToolSource = "axe-core"
	ToolPa11y      ToolSource = "pa11y"
	ToolLighthouse ToolSource = "lighthouse"
	ToolIBM        ToolSource = "ibm"
	ToolAlfa       ToolSource = "alfa"
	ToolQualWeb    ToolSource = "qualweb"
	ToolWave       ToolSource = "wave"
	ToolCustom     ToolSource = "custom"
)

// AllTools segue a ordem fixa de prioridade entre engines.
var AllTools = []ToolSource{
	ToolAxe, ToolPa11y, ToolLighthouse, ToolIBM, ToolAlfa, ToolQualWeb, ToolWave, ToolCustom,
}

// Priority devolve a posição da engine na ordem fixa (menor = mais prioritária).
// Engines desconhecidas vão para o fim.
func (t ToolSource) Priority() int {
	for i, s := range AllTools {
		if s == t {
			return i
		}
	}
	return len(AllTools)
}

func (t ToolSource) Valid() bool {
	return t.Priority() < len(AllTools)
}

// Automated indica engines que testam sem intervenção humana.
// "custom" carrega asserções manuais.
func (t ToolSource) Automated() bool {
	return t.Valid() && t != ToolCustom
}

func ParseToolSource(s string) (ToolSource, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "axe":
		s = string(ToolAxe)
	case "equal-access", "accessibility-checker":
		s = string(ToolIBM)
	}
	t := ToolSource(s)
	return t, t.Valid()
}

// SortTools remove duplicados e ordena pela prioridade fixa.
func SortTools(in []ToolSource) []ToolSource {
	seen := make(map[ToolSource]struct{}, len(in))
	out := make([]ToolSource, 0, len(in))
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority(), out[j].Priority()
		if pi == pj {
			return out[i] < out[j]
		}
		return pi < pj
	})
	return out
}

type Impact string

const (
	ImpactCritical Impact = "critical"
	ImpactSerious  Impact = "serious"
	ImpactModerate Impact = "moderate"
	ImpactMinor    Impact = "minor"
)

func (i Impact) rank() int {
	switch i {
	case ImpactCritical:
		return 4
	case ImpactSerious:
		return 3
	case ImpactModerate:
		return 2
	case ImpactMinor:
		return 1
	default:
		return 0
	}
}

// MoreSevere devolve o impacto mais grave entre a e b.
func MoreSevere(a, b Impact) Impact {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

func ParseImpact(s string) Impact {
	i := Impact(strings.ToLower(strings.TrimSpace(s)))
	if i.rank() == 0 {
		return ""
	}
	return i
}

type Outcome string

const (
	OutcomeViolation    Outcome = "violation"
	OutcomePass         Outcome = "pass"
	OutcomeIncomplete   Outcome = "incomplete"
	OutcomeInapplicable Outcome = "inapplicable"
)

// Motivos usados quando uma auditoria sem detalhe por elemento vira "incomplete".
const (
	ReasonManualReview     = "manual-review"
	ReasonInsufficientData = "insufficient-data"
	ReasonPartialSupport   = "partial-support"
)

// Finding é o resultado normalizado de uma regra, vindo de uma única engine.
type Finding struct {
	ID                   string     `json:"id"`
	Description          string     `json:"description"`
	Impact               Impact     `json:"impact,omitempty"`
	NodeCount            int        `json:"nodeCount"`
	HelpURL              string     `json:"helpUrl"`
	WCAGCriteria         []string   `json:"wcagCriteria"`
	ToolSource           ToolSource `json:"toolSource"`
	Outcome              Outcome    `json:"outcome"`
	ClassificationReason string     `json:"classificationReason,omitempty"`
	Nodes                []NodeInfo `json:"nodes,omitempty"`
	// BestPractice marca regras sem critério WCAG (ex.: best-practice do axe):
	// ficam no relatório e nos contadores, fora do cruzamento e da cobertura.
	BestPractice bool `json:"bestPractice,omitempty"`
}

// SetNodes mantém NodeCount igual a len(nodes).
func (f *Finding) SetNodes(nodes []NodeInfo) {
	f.Nodes = nodes
	f.NodeCount = len(nodes)
}

// HasCriterion informa se o finding referencia o critério dado.
func (f Finding) HasCriterion(c string) bool {
	for _, x := range f.WCAGCriteria {
		if x == c {
			return true
		}
	}
	return false
}

// SortFindings ordena de forma determinística: engine, resultado, id.
func SortFindings(fs []Finding) {
	sort.SliceStable(fs, func(i, j int) bool {
		if fs[i].ToolSource != fs[j].ToolSource {
			return fs[i].ToolSource.Priority() < fs[j].ToolSource.Priority()
		}
		if fs[i].Outcome != fs[j].Outcome {
			return fs[i].Outcome < fs[j].Outcome
		}
		return fs[i].ID < fs[j].ID
	})
}

// MultiEngineViolation é um defeito confirmado por pelo menos duas engines.
type MultiEngineViolation struct {
	RuleID       string       `json:"ruleId"`
	Description  string       `json:"description"`
	WCAGCriteria []string     `json:"wcagCriteria"`
	ToolSources  []ToolSource `json:"toolSources"`
	NodeCount    int          `json:"nodeCount"`
	Impact       Impact       `json:"impact,omitempty"`
}

type EngineCounter struct {
	Violations int `json:"violations"`
	Passes     int `json:"passes"`
}

// LighthouseScores são as notas de categoria (0-100) do Lighthouse.
type LighthouseScores struct {
	Performance   *float64 `json:"performance,omitempty"`
	Accessibility *float64 `json:"accessibility,omitempty"`
	BestPractices *float64 `json:"bestPractices,omitempty"`
	SEO           *float64 `json:"seo,omitempty"`
}
