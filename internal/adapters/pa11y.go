package adapters

import (
	"encoding/json"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type pa11yIssue struct {
	Code         string `json:"code"`
	Type         string `json:"type"` // error | warning | notice
	Message      string `json:"message"`
	Context      string `json:"context"`
	Selector     string `json:"selector"`
	Runner       string `json:"runner"` // htmlcs | axe
	RunnerExtras struct {
		Impact  string `json:"impact"`
		HelpURL string `json:"helpUrl"`
	} `json:"runnerExtras"`
}

// `pa11y --reporter json` gera a lista pura; a API Node devolve {issues: [...]}.
type pa11yJSON struct {
	PageURL string       `json:"pageUrl"`
	Issues  []pa11yIssue `json:"issues"`
}

func ParsePa11yBytes(b []byte) ([]model.Finding, error) {
	var issues []pa11yIssue
	if isJSONArray(b) {
		if err := json.Unmarshal(b, &issues); err != nil {
			return nil, err
		}
	} else {
		var doc pa11yJSON
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		issues = doc.Issues
	}

	out := make([]model.Finding, 0, len(issues))
	for _, is := range issues {
		outcome, ok := pa11yOutcome(is.Type)
		if !ok {
			continue
		}

		var criteria []string
		var impact model.Impact
		if strings.EqualFold(is.Runner, "axe") {
			criteria = wcag.DefaultRules().Criteria(model.ToolAxe, is.Code)
			impact = model.ParseImpact(is.RunnerExtras.Impact)
		} else {
			criteria = wcag.NormalizeCriteria([]string{is.Code})
		}

		// pa11y reporta um issue por elemento: sempre um nó, sem failureSummary
		f := model.Finding{
			ID:           is.Code,
			Description:  strings.TrimSpace(is.Message),
			Impact:       impact,
			HelpURL:      is.RunnerExtras.HelpURL,
			WCAGCriteria: criteria,
			ToolSource:   model.ToolPa11y,
			Outcome:      outcome,
		}
		f.SetNodes([]model.NodeInfo{newNode(splitSelector(is.Selector), is.Context)})
		out = append(out, f)
	}
	return out, nil
}

func ParsePa11yFile(path string) ([]model.Finding, error) {
	return readFile(path, ParsePa11yBytes)
}

// notices são informativos e ficam de fora.
func pa11yOutcome(typ string) (model.Outcome, bool) {
	switch strings.ToLower(strings.TrimSpace(typ)) {
	case "error":
		return model.OutcomeViolation, true
	case "warning":
		return model.OutcomeIncomplete, true
	default:
		return "", false
	}
}
