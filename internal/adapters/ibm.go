package adapters

import (
	"encoding/json"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

// Saída do IBM Equal Access accessibility-checker (um resultado por elemento).
type ibmJSON struct {
	Results []struct {
		RuleID string   `json:"ruleId"`
		Value  []string `json:"value"` // [VIOLATION|RECOMMENDATION|INFORMATION, FAIL|POTENTIAL|MANUAL|PASS]
		Path   struct {
			Dom string `json:"dom"`
		} `json:"path"`
		Message string `json:"message"`
		Snippet string `json:"snippet"`
	} `json:"results"`
}

func ParseIBMBytes(b []byte) ([]model.Finding, error) {
	var doc ibmJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	g := newGrouper()
	for _, r := range doc.Results {
		outcome, reason, ok := ibmOutcome(r.Value)
		if !ok {
			continue
		}
		rule, msg := r.RuleID, r.Message
		f := g.get(groupKey{rule: rule, outcome: outcome}, func() model.Finding {
			return model.Finding{
				ID:                   rule,
				Description:          msg,
				WCAGCriteria:         wcag.DefaultRules().Criteria(model.ToolIBM, rule),
				ToolSource:           model.ToolIBM,
				Outcome:              outcome,
				ClassificationReason: reason,
				Nodes:                []model.NodeInfo{},
			}
		})
		// o checker identifica o elemento por XPath
		f.Nodes = append(f.Nodes, xpathNode(r.Path.Dom, r.Snippet))
	}
	return g.findings(), nil
}

func ParseIBMFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseIBMBytes)
}

func ibmOutcome(value []string) (model.Outcome, string, bool) {
	if len(value) < 2 {
		return "", "", false
	}
	policy, result := strings.ToUpper(value[0]), strings.ToUpper(value[1])
	switch result {
	case "PASS":
		return model.OutcomePass, "", true
	case "FAIL":
		if policy == "VIOLATION" {
			return model.OutcomeViolation, "", true
		}
		return model.OutcomeIncomplete, model.ReasonPartialSupport, true
	case "POTENTIAL":
		return model.OutcomeIncomplete, model.ReasonInsufficientData, true
	case "MANUAL":
		return model.OutcomeIncomplete, model.ReasonManualReview, true
	}
	return "", "", false
}
