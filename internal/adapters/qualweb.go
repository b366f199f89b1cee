package adapters

import (
	"encoding/json"
	"sort"

	"github.com/Sena-ops/a11yguard/internal/model"
)

type qualwebAssertion struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Metadata    struct {
		Outcome         string `json:"outcome"` // passed | failed | warning | inapplicable
		URL             string `json:"url"`
		SuccessCriteria []struct {
			Name string `json:"name"`
		} `json:"success-criteria"`
	} `json:"metadata"`
	Results []struct {
		Verdict  string `json:"verdict"`
		Elements []struct {
			Pointer  string `json:"pointer"`
			HTMLCode string `json:"htmlCode"`
		} `json:"elements"`
	} `json:"results"`
}

type qualwebReport struct {
	Modules map[string]struct {
		Assertions map[string]qualwebAssertion `json:"assertions"`
	} `json:"modules"`
}

// O QualWeb gera {"<url>": report}; também aceitamos o report direto.
func ParseQualWebBytes(b []byte) ([]model.Finding, error) {
	var reports []qualwebReport
	var direct qualwebReport
	if err := json.Unmarshal(b, &direct); err != nil {
		return nil, err
	}
	if len(direct.Modules) > 0 {
		reports = append(reports, direct)
	} else {
		var byURL map[string]qualwebReport
		if err := json.Unmarshal(b, &byURL); err != nil {
			return nil, err
		}
		urls := make([]string, 0, len(byURL))
		for u := range byURL {
			urls = append(urls, u)
		}
		sort.Strings(urls)
		for _, u := range urls {
			reports = append(reports, byURL[u])
		}
	}

	out := []model.Finding{}
	for _, rep := range reports {
		modules := make([]string, 0, len(rep.Modules))
		for m := range rep.Modules {
			modules = append(modules, m)
		}
		sort.Strings(modules)
		for _, m := range modules {
			assertions := rep.Modules[m].Assertions
			codes := make([]string, 0, len(assertions))
			for c := range assertions {
				codes = append(codes, c)
			}
			sort.Strings(codes)
			for _, c := range codes {
				if f, ok := qualwebFinding(c, assertions[c]); ok {
					out = append(out, f)
				}
			}
		}
	}
	return out, nil
}

func ParseQualWebFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseQualWebBytes)
}

func qualwebFinding(code string, a qualwebAssertion) (model.Finding, bool) {
	var outcome model.Outcome
	var reason string
	switch a.Metadata.Outcome {
	case "failed":
		outcome = model.OutcomeViolation
	case "warning":
		outcome, reason = model.OutcomeIncomplete, model.ReasonManualReview
	case "passed":
		outcome = model.OutcomePass
	case "inapplicable":
		outcome = model.OutcomeInapplicable
	default:
		return model.Finding{}, false
	}

	var criteria []string
	for _, sc := range a.Metadata.SuccessCriteria {
		criteria = append(criteria, sc.Name)
	}
	f := model.Finding{
		ID:                   firstNonEmpty(a.Code, code),
		Description:          firstNonEmpty(a.Name, a.Description, code),
		HelpURL:              a.Metadata.URL,
		WCAGCriteria:         criteria,
		ToolSource:           model.ToolQualWeb,
		Outcome:              outcome,
		ClassificationReason: reason,
	}

	var nodes []model.NodeInfo
	for _, r := range a.Results {
		if r.Verdict != a.Metadata.Outcome {
			continue
		}
		for _, el := range r.Elements {
			nodes = append(nodes, newNode(splitSelector(el.Pointer), el.HTMLCode))
		}
	}
	if len(nodes) > 0 {
		f.SetNodes(nodes)
	}
	return f, true
}
