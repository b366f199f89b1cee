// Package merge cruza os findings das engines de uma página: conta violações
// e passes por engine e funde o mesmo defeito reportado por engines distintas.
package merge

import (
	"sort"
	"strconv"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

// bucket usado por regras sem alias: o grupo é o critério inteiro.
const criterionBucket = "*"

type Result struct {
	Counters    map[model.ToolSource]model.EngineCounter `json:"counters"`
	MultiEngine []model.MultiEngineViolation             `json:"multiEngineViolations"`
}

type Merger struct {
	Aliases *wcag.AliasTable
}

func New(aliases *wcag.AliasTable) *Merger {
	return &Merger{Aliases: aliases}
}

// Merge é puro: não altera findings e devolve sempre a mesma saída para a
// mesma entrada. engines são as engines que rodaram, contadas mesmo sem findings.
func (m *Merger) Merge(engines []model.ToolSource, findings []model.Finding) Result {
	return Result{
		Counters:    Count(engines, findings),
		MultiEngine: m.MultiEngine(findings),
	}
}

// Count acumula violações e passes por engine, independente do agrupamento.
func Count(engines []model.ToolSource, findings []model.Finding) map[model.ToolSource]model.EngineCounter {
	out := make(map[model.ToolSource]model.EngineCounter, len(engines))
	for _, e := range engines {
		out[e] = model.EngineCounter{}
	}
	for _, f := range findings {
		c := out[f.ToolSource]
		switch f.Outcome {
		case model.OutcomeViolation:
			c.Violations++
		case model.OutcomePass:
			c.Passes++
		}
		out[f.ToolSource] = c
	}
	return out
}

// groupKey identifica um defeito: um critério e o bucket de alias da regra.
type groupKey struct {
	criterion string
	bucket    string
}

// MultiEngine agrupa violações que compartilham um critério e o mesmo bucket
// de alias. Cada chave é avaliada sozinha, sem encadear por outros critérios
// do mesmo finding; chaves com exatamente os mesmos membros viram uma única
// MultiEngineViolation, que exige pelo menos duas engines distintas.
func (m *Merger) MultiEngine(findings []model.Finding) []model.MultiEngineViolation {
	var violations []model.Finding
	for _, f := range findings {
		if f.Outcome == model.OutcomeViolation && len(f.WCAGCriteria) > 0 {
			violations = append(violations, f)
		}
	}

	members := map[groupKey][]int{}
	for i, f := range violations {
		bucket := m.bucket(f)
		for _, c := range f.WCAGCriteria {
			k := groupKey{criterion: c, bucket: bucket}
			members[k] = append(members[k], i)
		}
	}

	keys := make([]groupKey, 0, len(members))
	for k := range members {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if c := wcag.CompareCriteria(keys[i].criterion, keys[j].criterion); c != 0 {
			return c < 0
		}
		return keys[i].bucket < keys[j].bucket
	})

	type group struct {
		idx      []int
		criteria []string
	}
	var groups []*group
	bySet := map[string]*group{}
	for _, k := range keys {
		idx := members[k]
		sig := indexSignature(idx)
		if g, ok := bySet[sig]; ok {
			g.criteria = append(g.criteria, k.criterion)
			continue
		}
		g := &group{idx: idx, criteria: []string{k.criterion}}
		bySet[sig] = g
		groups = append(groups, g)
	}

	out := []model.MultiEngineViolation{}
	for _, g := range groups {
		fs := make([]model.Finding, 0, len(g.idx))
		for _, i := range g.idx {
			fs = append(fs, violations[i])
		}
		if mev, ok := combine(fs, g.criteria); ok {
			out = append(out, mev)
		}
	}
	sortViolations(out)
	logging.Logger.Debugw("merge concluído", "violacoes", len(violations), "multiEngine", len(out))
	return out
}

// bucket resolve o alias da regra. O pa11y rodando com o runner do axe
// reporta ids do axe-core, que usam os aliases do axe-core.
func (m *Merger) bucket(f model.Finding) string {
	b := m.Aliases.Bucket(f.ToolSource, f.ID)
	if b == "" && f.ToolSource == model.ToolPa11y && wcag.DefaultRules().Has(model.ToolAxe, f.ID) {
		b = m.Aliases.Bucket(model.ToolAxe, f.ID)
	}
	if b == "" {
		return criterionBucket
	}
	return b
}

func indexSignature(idx []int) string {
	s := make([]string, len(idx))
	for i, v := range idx {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, ",")
}

func combine(members []model.Finding, criteria []string) (model.MultiEngineViolation, bool) {
	tools := make([]model.ToolSource, 0, len(members))
	for _, f := range members {
		tools = append(tools, f.ToolSource)
	}
	tools = model.SortTools(tools)
	if len(tools) < 2 {
		return model.MultiEngineViolation{}, false
	}

	// o representante é o finding da engine mais prioritária; empate pelo id
	sort.SliceStable(members, func(i, j int) bool {
		pi, pj := members[i].ToolSource.Priority(), members[j].ToolSource.Priority()
		if pi != pj {
			return pi < pj
		}
		return members[i].ID < members[j].ID
	})

	mev := model.MultiEngineViolation{
		RuleID:       members[0].ID,
		Description:  members[0].Description,
		ToolSources:  tools,
		WCAGCriteria: wcag.NormalizeCriteria(criteria),
	}
	for _, f := range members {
		mev.NodeCount += f.NodeCount
		mev.Impact = model.MoreSevere(mev.Impact, f.Impact)
	}
	return mev, true
}

func sortViolations(vs []model.MultiEngineViolation) {
	sort.SliceStable(vs, func(i, j int) bool {
		a, b := vs[i], vs[j]
		if c := wcag.CompareCriteria(a.WCAGCriteria[0], b.WCAGCriteria[0]); c != 0 {
			return c < 0
		}
		if a.RuleID != b.RuleID {
			return a.RuleID < b.RuleID
		}
		if ta, tb := joinTools(a.ToolSources), joinTools(b.ToolSources); ta != tb {
			return ta < tb
		}
		if ca, cb := strings.Join(a.WCAGCriteria, ","), strings.Join(b.WCAGCriteria, ","); ca != cb {
			return ca < cb
		}
		if a.NodeCount != b.NodeCount {
			return a.NodeCount < b.NodeCount
		}
		return a.Description < b.Description
	})
}

func joinTools(ts []model.ToolSource) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return strings.Join(s, ",")
}
