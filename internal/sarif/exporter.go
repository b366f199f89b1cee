package sarif

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/report"
)

type Log struct {
	Version string `json:"version"`
	Schema  string `json:"$schema"`
	Runs    []Run  `json:"runs"`
}

type Run struct {
	Tool    Tool     `json:"tool"`
	Results []Result `json:"results"`
}

type Tool struct {
	Driver Driver `json:"driver"`
}

type Driver struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Rules   []Rule `json:"rules,omitempty"`
}

type Rule struct {
	ID               string  `json:"id"`
	ShortDescription Message `json:"shortDescription"`
	HelpURI          string  `json:"helpUri,omitempty"`
}

type Result struct {
	RuleID     string     `json:"ruleId"`
	Message    Message    `json:"message"`
	Level      string     `json:"level"` // error, warning, note
	Locations  []Location `json:"locations"`
	Properties Properties `json:"properties"`
}

type Message struct {
	Text string `json:"text"`
}

type Location struct {
	PhysicalLocation PhysicalLocation  `json:"physicalLocation"`
	LogicalLocations []LogicalLocation `json:"logicalLocations,omitempty"`
}

type PhysicalLocation struct {
	ArtifactLocation ArtifactLocation `json:"artifactLocation"`
	Region           *Region          `json:"region,omitempty"`
}

type ArtifactLocation struct {
	URI string `json:"uri"`
}

type Region struct {
	Snippet Message `json:"snippet"`
}

// LogicalLocation guarda o seletor CSS do elemento afetado.
type LogicalLocation struct {
	FullyQualifiedName string `json:"fullyQualifiedName"`
	Kind               string `json:"kind"`
}

type Properties struct {
	ToolSource   model.ToolSource `json:"toolSource"`
	WCAGCriteria []string         `json:"wcagCriteria"`
	NodeCount    int              `json:"nodeCount"`
}

// Build converte as violações do relatório em um log SARIF 2.1.0.
// Cada elemento afetado vira uma location; findings sem nós usam só a URL.
func Build(r report.Report, toolName, toolVersion string) *Log {
	violations := r.Violations()
	results := make([]Result, 0, len(violations))
	rules := map[string]Rule{}
	for _, v := range violations {
		f := v.Finding
		ruleID := fmt.Sprintf("%s/%s", f.ToolSource, f.ID)
		if _, ok := rules[ruleID]; !ok {
			rules[ruleID] = Rule{ID: ruleID, ShortDescription: Message{Text: f.Description}, HelpURI: f.HelpURL}
		}

		uri := strings.TrimSpace(v.URL)
		if uri == "" {
			uri = "UNKNOWN"
		}
		locs := make([]Location, 0, len(f.Nodes))
		for _, n := range f.Nodes {
			loc := Location{PhysicalLocation: PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: uri}}}
			if n.HTML != "" {
				loc.PhysicalLocation.Region = &Region{Snippet: Message{Text: n.HTML}}
			}
			if l := n.Locator(); l != "" {
				loc.LogicalLocations = []LogicalLocation{{FullyQualifiedName: l, Kind: "element"}}
			}
			locs = append(locs, loc)
		}
		if len(locs) == 0 {
			locs = append(locs, Location{PhysicalLocation: PhysicalLocation{ArtifactLocation: ArtifactLocation{URI: uri}}})
		}

		results = append(results, Result{
			RuleID:    ruleID,
			Level:     impactToLevel(f.Impact),
			Message:   Message{Text: strings.TrimSpace(f.Description)},
			Locations: locs,
			Properties: Properties{
				ToolSource:   f.ToolSource,
				WCAGCriteria: f.WCAGCriteria,
				NodeCount:    f.NodeCount,
			},
		})
	}
	SortResults(results)

	driver := Driver{Name: toolName, Version: toolVersion}
	for _, rule := range rules {
		driver.Rules = append(driver.Rules, rule)
	}
	sort.Slice(driver.Rules, func(i, j int) bool { return driver.Rules[i].ID < driver.Rules[j].ID })

	return &Log{
		Version: "2.1.0",
		// schema RTM reconhecido por GitHub/VSCode
		Schema: "https://schemastore.azurewebsites.net/schemas/json/sarif-2.1.0-rtm.5.json",
		Runs:   []Run{{Tool: Tool{Driver: driver}, Results: results}},
	}
}

// Export grava o log em outDir/fileBase.sarif e devolve o caminho.
func Export(r report.Report, outDir, fileBase, toolName, toolVersion string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("criar dir sarif: %w", err)
	}
	outPath := filepath.Join(outDir, fileBase+".sarif")

	data, err := json.MarshalIndent(Build(r, toolName, toolVersion), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal sarif: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return "", fmt.Errorf("escrever sarif: %w", err)
	}
	return outPath, nil
}

// SortResults ordena por URL, regra e primeiro seletor.
func SortResults(rs []Result) {
	sort.SliceStable(rs, func(i, j int) bool {
		ui, uj := rs[i].Locations[0].PhysicalLocation.ArtifactLocation.URI, rs[j].Locations[0].PhysicalLocation.ArtifactLocation.URI
		if ui != uj {
			return ui < uj
		}
		if rs[i].RuleID != rs[j].RuleID {
			return rs[i].RuleID < rs[j].RuleID
		}
		return firstTarget(rs[i]) < firstTarget(rs[j])
	})
}

func firstTarget(r Result) string {
	if ll := r.Locations[0].LogicalLocations; len(ll) > 0 {
		return ll[0].FullyQualifiedName
	}
	return ""
}

func impactToLevel(i model.Impact) string {
	switch i {
	case model.ImpactCritical, model.ImpactSerious:
		return "error"
	case model.ImpactModerate:
		return "warning"
	default:
		return "note"
	}
}
