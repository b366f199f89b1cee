package adapters

import (
	"encoding/json"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type axeNode struct {
	HTML           string       `json:"html"`
	Target         selectorList `json:"target"`
	FailureSummary string       `json:"failureSummary"`
	Impact         string       `json:"impact"`
}

type axeRule struct {
	ID          string    `json:"id"`
	Impact      string    `json:"impact"`
	Description string    `json:"description"`
	Help        string    `json:"help"`
	HelpURL     string    `json:"helpUrl"`
	Tags        []string  `json:"tags"`
	Nodes       []axeNode `json:"nodes"`
}

// Formato de axe.run() e do @axe-core/cli (este último é uma lista de páginas).
type axeJSON struct {
	URL          string    `json:"url"`
	Violations   []axeRule `json:"violations"`
	Passes       []axeRule `json:"passes"`
	Incomplete   []axeRule `json:"incomplete"`
	Inapplicable []axeRule `json:"inapplicable"`
}

func ParseAxeBytes(b []byte) ([]model.Finding, error) {
	var docs []axeJSON
	if isJSONArray(b) {
		if err := json.Unmarshal(b, &docs); err != nil {
			return nil, err
		}
	} else {
		var doc axeJSON
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		docs = []axeJSON{doc}
	}

	out := []model.Finding{}
	for _, doc := range docs {
		out = append(out, axeFindings(doc.Violations, model.OutcomeViolation)...)
		out = append(out, axeFindings(doc.Passes, model.OutcomePass)...)
		out = append(out, axeFindings(doc.Incomplete, model.OutcomeIncomplete)...)
		out = append(out, axeFindings(doc.Inapplicable, model.OutcomeInapplicable)...)
	}
	return out, nil
}

func ParseAxeFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseAxeBytes)
}

// Uma regra do axe vira um Finding com todos os seus nós.
func axeFindings(rules []axeRule, outcome model.Outcome) []model.Finding {
	out := make([]model.Finding, 0, len(rules))
	for _, r := range rules {
		criteria := wcag.NormalizeCriteria(r.Tags)
		if len(criteria) == 0 {
			criteria = wcag.DefaultRules().Criteria(model.ToolAxe, r.ID)
		}
		impact := model.ParseImpact(r.Impact)

		nodes := make([]model.NodeInfo, 0, len(r.Nodes))
		for _, n := range r.Nodes {
			node := newNode(n.Target, n.HTML)
			// failureSummary só existe no axe e só faz sentido em falhas
			if outcome == model.OutcomeViolation || outcome == model.OutcomeIncomplete {
				node.FailureSummary = n.FailureSummary
			}
			impact = model.MoreSevere(impact, model.ParseImpact(n.Impact))
			nodes = append(nodes, node)
		}

		f := model.Finding{
			ID:           r.ID,
			Description:  firstNonEmpty(r.Help, r.Description),
			Impact:       impact,
			HelpURL:      r.HelpURL,
			WCAGCriteria: criteria,
			ToolSource:   model.ToolAxe,
			Outcome:      outcome,
		}
		f.SetNodes(nodes)
		out = append(out, f)
	}
	return out
}
