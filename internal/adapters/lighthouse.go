package adapters

import (
	"encoding/json"
	"math"
	"regexp"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type lighthouseNode struct {
	Selector  string `json:"selector"`
	Snippet   string `json:"snippet"`
	Path      string `json:"path"`
	NodeLabel string `json:"nodeLabel"`
}

type lighthouseAudit struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Score            *float64 `json:"score"`
	ScoreDisplayMode string   `json:"scoreDisplayMode"`
	Details          *struct {
		Type  string `json:"type"`
		Items []struct {
			Node *lighthouseNode `json:"node"`
		} `json:"items"`
	} `json:"details"`
}

type lighthouseCategory struct {
	ID        string   `json:"id"`
	Score     *float64 `json:"score"`
	AuditRefs []struct {
		ID string `json:"id"`
	} `json:"auditRefs"`
}

type lighthouseJSON struct {
	LighthouseVersion string                        `json:"lighthouseVersion"`
	Categories        map[string]lighthouseCategory `json:"categories"`
	Audits            map[string]lighthouseAudit    `json:"audits"`
}

// "[Learn more](https://dequeuniversity.com/rules/axe/4.8/image-alt)"
var markdownLink = regexp.MustCompile(`\]\((https?://[^)\s]+)\)`)

// ParseLighthouseBytes trata só as auditorias da categoria accessibility.
// Auditorias sem detalhe por elemento viram "incomplete" com o motivo da
// classificação; nenhuma é descartada.
func ParseLighthouseBytes(b []byte) ([]model.Finding, error) {
	var doc lighthouseJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}

	cat, ok := doc.Categories["accessibility"]
	if !ok {
		return []model.Finding{}, nil
	}

	out := make([]model.Finding, 0, len(cat.AuditRefs))
	for _, ref := range cat.AuditRefs {
		audit, ok := doc.Audits[ref.ID]
		if !ok {
			continue
		}
		id := firstNonEmpty(audit.ID, ref.ID)
		f := model.Finding{
			ID:           id,
			Description:  firstNonEmpty(audit.Title, id),
			HelpURL:      helpFromMarkdown(audit.Description),
			WCAGCriteria: wcag.DefaultRules().Criteria(model.ToolAxe, id),
			ToolSource:   model.ToolLighthouse,
		}

		nodes := lighthouseNodes(audit)
		f.Outcome, f.ClassificationReason = classifyLighthouse(audit, len(nodes))
		if len(nodes) > 0 {
			f.SetNodes(nodes)
		}
		out = append(out, f)
	}
	return out, nil
}

func ParseLighthouseFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseLighthouseBytes)
}

func classifyLighthouse(a lighthouseAudit, nodeCount int) (model.Outcome, string) {
	switch a.ScoreDisplayMode {
	case "notApplicable":
		return model.OutcomeInapplicable, ""
	case "manual":
		return model.OutcomeIncomplete, model.ReasonManualReview
	case "binary", "numeric":
		switch {
		case a.Score == nil:
			return model.OutcomeIncomplete, model.ReasonPartialSupport
		case *a.Score >= 1:
			return model.OutcomePass, ""
		case nodeCount > 0:
			return model.OutcomeViolation, ""
		default:
			return model.OutcomeIncomplete, model.ReasonInsufficientData
		}
	default:
		// informative, error
		return model.OutcomeIncomplete, model.ReasonPartialSupport
	}
}

func lighthouseNodes(a lighthouseAudit) []model.NodeInfo {
	if a.Details == nil {
		return nil
	}
	var nodes []model.NodeInfo
	for _, it := range a.Details.Items {
		if it.Node == nil {
			continue
		}
		nodes = append(nodes, newNode(splitSelector(it.Node.Selector), it.Node.Snippet))
	}
	return nodes
}

func helpFromMarkdown(desc string) string {
	if m := markdownLink.FindStringSubmatch(desc); m != nil {
		return m[1]
	}
	return ""
}

// ParseLighthouseScores extrai as notas (0-100) das quatro categorias.
func ParseLighthouseScores(b []byte) (model.LighthouseScores, error) {
	var scores model.LighthouseScores
	if isEmptyRaw(b) {
		return scores, nil
	}
	var doc lighthouseJSON
	if err := json.Unmarshal(b, &doc); err != nil {
		return scores, err
	}
	pick := func(id string) *float64 {
		c, ok := doc.Categories[id]
		if !ok || c.Score == nil {
			return nil
		}
		v := math.Round(*c.Score * 100)
		return &v
	}
	scores.Performance = pick("performance")
	scores.Accessibility = pick("accessibility")
	scores.BestPractices = pick("best-practices")
	scores.SEO = pick("seo")
	return scores, nil
}
