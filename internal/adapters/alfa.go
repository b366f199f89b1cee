package adapters

import (
	"encoding/json"
	"path"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type alfaOutcome struct {
	Outcome string `json:"outcome"` // passed | failed | cantTell | inapplicable
	Rule    struct {
		URI          string `json:"uri"`
		Requirements []struct {
			Chapter string `json:"chapter"`
		} `json:"requirements"`
	} `json:"rule"`
	Target struct {
		Path string `json:"path"`
		HTML string `json:"html"`
	} `json:"target"`
}

type alfaJSON struct {
	Outcomes []alfaOutcome `json:"outcomes"`
}

func ParseAlfaBytes(b []byte) ([]model.Finding, error) {
	var outcomes []alfaOutcome
	if isJSONArray(b) {
		if err := json.Unmarshal(b, &outcomes); err != nil {
			return nil, err
		}
	} else {
		var doc alfaJSON
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		outcomes = doc.Outcomes
	}

	g := newGrouper()
	for _, o := range outcomes {
		outcome, reason, ok := alfaResult(o.Outcome)
		if !ok {
			continue
		}
		rule := path.Base(strings.TrimRight(o.Rule.URI, "/"))
		uri := o.Rule.URI
		var chapters []string
		for _, r := range o.Rule.Requirements {
			chapters = append(chapters, r.Chapter)
		}
		f := g.get(groupKey{rule: rule, outcome: outcome}, func() model.Finding {
			criteria := wcag.NormalizeCriteria(chapters)
			if len(criteria) == 0 {
				criteria = wcag.DefaultRules().Criteria(model.ToolAlfa, rule)
			}
			return model.Finding{
				ID:                   rule,
				Description:          rule,
				HelpURL:              uri,
				WCAGCriteria:         criteria,
				ToolSource:           model.ToolAlfa,
				Outcome:              outcome,
				ClassificationReason: reason,
			}
		})
		if outcome == model.OutcomeInapplicable || o.Target.Path == "" {
			continue
		}
		f.Nodes = append(f.Nodes, xpathNode(o.Target.Path, o.Target.HTML))
	}
	return g.findings(), nil
}

func ParseAlfaFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseAlfaBytes)
}

func alfaResult(s string) (model.Outcome, string, bool) {
	switch s {
	case "failed":
		return model.OutcomeViolation, "", true
	case "passed":
		return model.OutcomePass, "", true
	case "cantTell":
		return model.OutcomeIncomplete, model.ReasonManualReview, true
	case "inapplicable":
		return model.OutcomeInapplicable, "", true
	}
	return "", "", false
}
