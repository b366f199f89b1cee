// Package coverage projeta findings sobre o catálogo WCAG e monta a matriz
// de cobertura por critério.
package coverage

import (
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

// Builder recebe o catálogo injetado; testes usam catálogos parciais.
type Builder struct {
	Catalog *wcag.Catalog
}

func NewBuilder(c *wcag.Catalog) *Builder {
	return &Builder{Catalog: c}
}

type evidence struct {
	method model.Method
	result model.Result
	tools  []model.ToolSource
}

func (e *evidence) addMethod(m model.Method) {
	if m.Rank() > e.method.Rank() {
		e.method = m
	}
}

func (e *evidence) addResult(r model.Result) {
	if r.Rank() > e.result.Rank() {
		e.result = r
	}
}

// Build gera um CriterionStatus por critério do catálogo, na ordem do catálogo.
// Critérios citados fora do catálogo ficam em Unmapped e não contam na cobertura.
func (b *Builder) Build(findings []model.Finding, checks []model.SemiAutoCheck) model.CoverageMatrix {
	byCriterion := map[string]*evidence{}
	get := func(c string) *evidence {
		e, ok := byCriterion[c]
		if !ok {
			e = &evidence{method: model.MethodNotTested, result: model.ResultNotApplicable}
			byCriterion[c] = e
		}
		return e
	}

	for _, f := range findings {
		res, ok := outcomeResult(f.Outcome)
		if !ok {
			continue
		}
		for _, c := range f.WCAGCriteria {
			e := get(c)
			e.addResult(res)
			e.tools = append(e.tools, f.ToolSource)
			if f.ToolSource.Automated() {
				e.addMethod(model.MethodAuto)
			} else {
				e.addMethod(model.MethodManual)
			}
		}
	}

	for _, chk := range checks {
		c, ok := wcag.NormalizeCriterion(chk.Criterion)
		if !ok {
			logging.Logger.Warnw("verificação semi-automática com critério inválido", "id", chk.ID, "criterio", chk.Criterion)
			continue
		}
		e := get(c)
		e.addMethod(model.MethodSemiAuto)
		if res, ok := answerResult(chk.Answer); ok {
			e.addResult(res)
		}
	}

	m := model.CoverageMatrix{Criteria: make([]model.CriterionStatus, 0, b.Catalog.Len())}
	for _, cr := range b.Catalog.Criteria() {
		st := model.CriterionStatus{
			Criterion: cr.ID,
			Level:     cr.Level,
			Title:     cr.Title,
			Method:    model.MethodNotTested,
			Result:    model.ResultNotApplicable,
			Tools:     []model.ToolSource{},
		}
		if e, ok := byCriterion[cr.ID]; ok {
			st.Method = e.method
			st.Result = e.result
			if st.Result != model.ResultNotApplicable {
				st.Tools = model.SortTools(e.tools)
			}
		}
		m.Criteria = append(m.Criteria, st)
	}

	for c := range byCriterion {
		if _, ok := b.Catalog.Lookup(c); !ok {
			m.Unmapped = append(m.Unmapped, c)
		}
	}
	if len(m.Unmapped) > 0 {
		wcag.SortCriteria(m.Unmapped)
		logging.Logger.Warnw("critérios fora do catálogo ignorados na cobertura",
			"catalogo", b.Catalog.Version(), "criterios", m.Unmapped)
	}

	m.Summary = Summarize(m.Criteria)
	return m
}

// Summarize conta, por nível, os critérios com resultado pass sobre o total.
func Summarize(criteria []model.CriterionStatus) model.CoverageSummary {
	var s model.CoverageSummary
	for _, st := range criteria {
		ls := s.ForLevel(st.Level)
		if ls == nil {
			continue
		}
		ls.Total++
		if st.Result == model.ResultPass {
			ls.Covered++
		}
	}
	return s
}

// inapplicable não é evidência: o critério continua sem dados.
func outcomeResult(o model.Outcome) (model.Result, bool) {
	switch o {
	case model.OutcomeViolation:
		return model.ResultFail, true
	case model.OutcomeIncomplete:
		return model.ResultNeedsReview, true
	case model.OutcomePass:
		return model.ResultPass, true
	}
	return "", false
}

func answerResult(a model.Answer) (model.Result, bool) {
	switch a {
	case model.AnswerNo:
		return model.ResultFail, true
	case model.AnswerUnanswered:
		return model.ResultNeedsReview, true
	case model.AnswerYes:
		return model.ResultPass, true
	}
	return "", false
}
