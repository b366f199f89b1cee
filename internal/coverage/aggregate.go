package coverage

import (
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

// Aggregate combina matrizes de várias páginas com as mesmas precedências de
// método e resultado. Um critério falha no site se falhar em qualquer página.
func Aggregate(matrices ...model.CoverageMatrix) model.CoverageMatrix {
	var order []string
	merged := map[string]*model.CriterionStatus{}
	unmapped := map[string]struct{}{}

	for _, m := range matrices {
		for _, st := range m.Criteria {
			cur, ok := merged[st.Criterion]
			if !ok {
				cp := st
				cp.Tools = append([]model.ToolSource{}, st.Tools...)
				merged[st.Criterion] = &cp
				order = append(order, st.Criterion)
				continue
			}
			if st.Method.Rank() > cur.Method.Rank() {
				cur.Method = st.Method
			}
			if st.Result.Rank() > cur.Result.Rank() {
				cur.Result = st.Result
			}
			cur.Tools = append(cur.Tools, st.Tools...)
		}
		for _, c := range m.Unmapped {
			unmapped[c] = struct{}{}
		}
	}

	wcag.SortCriteria(order)
	out := model.CoverageMatrix{Criteria: make([]model.CriterionStatus, 0, len(order))}
	for _, c := range order {
		st := *merged[c]
		if st.Result == model.ResultNotApplicable {
			st.Tools = []model.ToolSource{}
		} else {
			st.Tools = model.SortTools(st.Tools)
		}
		out.Criteria = append(out.Criteria, st)
	}
	for c := range unmapped {
		out.Unmapped = append(out.Unmapped, c)
	}
	wcag.SortCriteria(out.Unmapped)
	out.Summary = Summarize(out.Criteria)
	return out
}
