package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/charmbracelet/lipgloss"
)

func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("gerar JSON: %w", err)
	}
	return nil
}

func Markdown(r Report) string {
	var b strings.Builder
	b.WriteString("## 📋 Relatório de Acessibilidade\n\n")
	writeCoverageTable(&b, r.Coverage.Summary)

	for _, p := range r.Pages {
		b.WriteString(fmt.Sprintf("\n### %s\n\n", p.URL))
		b.WriteString("| Engine | Estado | Violações | Passes | Tempo |\n|---|---|---|---|---|\n")
		for _, e := range p.Engines {
			c := p.Counters[e.Source]
			b.WriteString(fmt.Sprintf("| %s | %s | %d | %d | %dms |\n", e.Source, e.State, c.Violations, c.Passes, e.DurationMs))
		}
		if s := p.LighthouseScores; s != nil && s.Accessibility != nil {
			b.WriteString(fmt.Sprintf("\nLighthouse acessibilidade: **%.0f**\n", *s.Accessibility))
		}

		if len(p.MultiEngineViolations) > 0 {
			b.WriteString("\n#### Confirmadas por várias engines\n\n")
			for _, v := range p.MultiEngineViolations {
				b.WriteString(fmt.Sprintf("- **%s** (%s) %s: %s, %d elemento(s)\n",
					v.RuleID, strings.Join(v.WCAGCriteria, ", "), impactLabel(v.Impact), joinSources(v.ToolSources), v.NodeCount))
			}
		}

		violations := filterOutcome(p.Findings, model.OutcomeViolation)
		if len(violations) > 0 {
			b.WriteString(fmt.Sprintf("\n#### Violações (%d)\n\n", len(violations)))
			for _, f := range violations {
				label := impactLabel(f.Impact)
				if f.BestPractice {
					label += " (boa prática)"
				}
				b.WriteString(fmt.Sprintf("- `%s` [%s] %s %s\n", f.ID, f.ToolSource, label, f.Description))
				for _, n := range f.Nodes {
					b.WriteString(fmt.Sprintf("    - `%s`%s\n", n.Locator(), nodeSuffix(n)))
				}
			}
		}
		if len(p.Coverage.Unmapped) > 0 {
			b.WriteString(fmt.Sprintf("\n> Critérios fora do catálogo: %s\n", strings.Join(p.Coverage.Unmapped, ", ")))
		}
	}
	return b.String()
}

func writeCoverageTable(b *strings.Builder, s model.CoverageSummary) {
	b.WriteString("| Nível | Cobertos | Total | % |\n|---|---|---|---|\n")
	for _, row := range []struct {
		name string
		ls   model.LevelSummary
	}{{"A", s.LevelA}, {"AA", s.LevelAA}, {"AAA", s.LevelAAA}} {
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n", row.name, row.ls.Covered, row.ls.Total, row.ls.FormatPercentage()))
	}
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	urlStyle   = lipgloss.NewStyle().Bold(true)
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	passStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6BCB77"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

// Text é a saída de terminal.
func Text(r Report) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Cobertura WCAG "+r.CatalogVersion))
	for _, row := range []struct {
		name string
		ls   model.LevelSummary
	}{{"A", r.Coverage.Summary.LevelA}, {"AA", r.Coverage.Summary.LevelAA}, {"AAA", r.Coverage.Summary.LevelAAA}} {
		lines = append(lines, fmt.Sprintf("  %-3s %d/%d (%s%%)", row.name, row.ls.Covered, row.ls.Total, row.ls.FormatPercentage()))
	}

	for _, p := range r.Pages {
		lines = append(lines, "", urlStyle.Render(p.URL))
		for _, e := range p.Engines {
			c := p.Counters[e.Source]
			state := passStyle.Render(string(e.State))
			if e.State == EngineUnavailable {
				state = failStyle.Render(string(e.State))
			}
			lines = append(lines, fmt.Sprintf("  - %-10s %s  %s", e.Source, state,
				mutedStyle.Render(fmt.Sprintf("%d violações, %d passes, %dms", c.Violations, c.Passes, e.DurationMs))))
		}
		for _, v := range p.MultiEngineViolations {
			lines = append(lines, failStyle.Render(fmt.Sprintf("    ✖ %s (%s) por %s", v.RuleID, strings.Join(v.WCAGCriteria, ", "), joinSources(v.ToolSources))))
		}
		for _, f := range filterOutcome(p.Findings, model.OutcomeViolation) {
			lines = append(lines, fmt.Sprintf("    • %s [%s] %s", f.ID, f.ToolSource, mutedStyle.Render(fmt.Sprintf("%d elemento(s)", f.NodeCount))))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

func filterOutcome(fs []model.Finding, o model.Outcome) []model.Finding {
	var out []model.Finding
	for _, f := range fs {
		if f.Outcome == o {
			out = append(out, f)
		}
	}
	return out
}

func joinSources(ts []model.ToolSource) string {
	s := make([]string, len(ts))
	for i, t := range ts {
		s[i] = string(t)
	}
	return strings.Join(s, ", ")
}

func impactLabel(i model.Impact) string {
	if i == "" {
		return "-"
	}
	return string(i)
}

func nodeSuffix(n model.NodeInfo) string {
	var parts []string
	if n.ElementDescription != nil {
		parts = append(parts, *n.ElementDescription)
	}
	if n.IsHidden != nil && *n.IsHidden {
		parts = append(parts, "oculto")
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, ", ") + ")"
}
