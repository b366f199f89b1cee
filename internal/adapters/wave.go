package adapters

import (
	"encoding/json"
	"sort"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type waveItem struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Count       int      `json:"count"`
	Selectors   []string `json:"selectors"`
	WCAG        []struct {
		Name string `json:"name"` // "1.1.1 Non-text Content (Level A)"
		Link string `json:"link"`
	} `json:"wcag"`
}

type waveJSON struct {
	Categories map[string]struct {
		Items map[string]waveItem `json:"items"`
	} `json:"categories"`
}

// Categorias do WAVE que viram findings; structure e aria são só informativas.
var waveCategories = []struct {
	name    string
	outcome model.Outcome
	reason  string
}{
	{"error", model.OutcomeViolation, ""},
	{"contrast", model.OutcomeViolation, ""},
	{"alert", model.OutcomeIncomplete, model.ReasonManualReview},
	{"feature", model.OutcomePass, ""},
}

func ParseWaveBytes(b []byte) ([]model.Finding, error) {
	var doc waveJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	out := []model.Finding{}
	for _, c := range waveCategories {
		cat, ok := doc.Categories[c.name]
		if !ok {
			continue
		}
		ids := make([]string, 0, len(cat.Items))
		for id := range cat.Items {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		for _, id := range ids {
			it := cat.Items[id]
			rule := firstNonEmpty(it.ID, id)

			var names []string
			help := ""
			for _, w := range it.WCAG {
				names = append(names, w.Name)
				if help == "" {
					help = w.Link
				}
			}
			criteria := wcag.NormalizeCriteria(names)
			if len(criteria) == 0 {
				criteria = wcag.DefaultRules().Criteria(model.ToolWave, rule)
			}

			f := model.Finding{
				ID:                   rule,
				Description:          firstNonEmpty(it.Description, rule),
				HelpURL:              help,
				WCAGCriteria:         criteria,
				ToolSource:           model.ToolWave,
				Outcome:              c.outcome,
				ClassificationReason: c.reason,
				NodeCount:            it.Count,
			}
			// seletores só vêm com reporttype >= 2
			if len(it.Selectors) > 0 {
				nodes := make([]model.NodeInfo, 0, len(it.Selectors))
				for _, s := range it.Selectors {
					nodes = append(nodes, newNode(splitSelector(s), ""))
				}
				f.SetNodes(nodes)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

func ParseWaveFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseWaveBytes)
}
