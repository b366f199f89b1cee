package merge

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/Sena-ops/a11yguard/internal/adapters"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

func finding(tool model.ToolSource, id string, outcome model.Outcome, impact model.Impact, nodes int, criteria ...string) model.Finding {
	return model.Finding{
		ID:           id,
		Description:  string(tool) + ": " + id,
		Impact:       impact,
		NodeCount:    nodes,
		WCAGCriteria: criteria,
		ToolSource:   tool,
		Outcome:      outcome,
	}
}

func sampleFindings() []model.Finding {
	return []model.Finding{
		finding(model.ToolPa11y, "WCAG2AA.Principle1.Guideline1_4.1_4_3.G18.Fail", model.OutcomeViolation, "", 1, "1.4.3"),
		finding(model.ToolAxe, "color-contrast", model.OutcomeViolation, model.ImpactSerious, 3, "1.4.3"),
		finding(model.ToolAxe, "image-alt", model.OutcomePass, "", 2, "1.1.1"),
		finding(model.ToolLighthouse, "document-title", model.OutcomeViolation, model.ImpactModerate, 1, "2.4.2"),
		finding(model.ToolAxe, "region", model.OutcomeViolation, model.ImpactModerate, 4),
	}
}

func TestMergeAxeAndPa11yContrast(t *testing.T) {
	res := New(wcag.DefaultAliases()).Merge(
		[]model.ToolSource{model.ToolAxe, model.ToolPa11y, model.ToolLighthouse},
		sampleFindings(),
	)
	if len(res.MultiEngine) != 1 {
		t.Fatalf("esperado 1 violação multi-engine, obtido %d: %+v", len(res.MultiEngine), res.MultiEngine)
	}
	mev := res.MultiEngine[0]
	if !reflect.DeepEqual(mev.ToolSources, []model.ToolSource{model.ToolAxe, model.ToolPa11y}) {
		t.Errorf("engines inesperadas: %v", mev.ToolSources)
	}
	if mev.RuleID != "color-contrast" || mev.Description != "axe-core: color-contrast" {
		t.Errorf("representante deveria ser o axe-core: %+v", mev)
	}
	if mev.NodeCount != 4 {
		t.Errorf("nodeCount deveria somar 4, obtido %d", mev.NodeCount)
	}
	if mev.Impact != model.ImpactSerious {
		t.Errorf("impacto inesperado: %q", mev.Impact)
	}
	if !reflect.DeepEqual(mev.WCAGCriteria, []string{"1.4.3"}) {
		t.Errorf("critérios inesperados: %v", mev.WCAGCriteria)
	}
}

func TestCountersIndependentOfGrouping(t *testing.T) {
	engines := []model.ToolSource{model.ToolAxe, model.ToolPa11y, model.ToolLighthouse, model.ToolWave}
	got := Count(engines, sampleFindings())
	want := map[model.ToolSource]model.EngineCounter{
		model.ToolAxe:        {Violations: 2, Passes: 1},
		model.ToolPa11y:      {Violations: 1},
		model.ToolLighthouse: {Violations: 1},
		model.ToolWave:       {},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("contadores = %+v, esperado %+v", got, want)
	}
}

func TestImpactTieBreak(t *testing.T) {
	fs := []model.Finding{
		finding(model.ToolAxe, "image-alt", model.OutcomeViolation, model.ImpactSerious, 1, "1.1.1"),
		finding(model.ToolIBM, "img_alt_valid", model.OutcomeViolation, model.ImpactCritical, 1, "1.1.1"),
		finding(model.ToolAlfa, "sia-r2", model.OutcomeViolation, model.ImpactMinor, 1, "1.1.1"),
	}
	mevs := New(wcag.DefaultAliases()).MultiEngine(fs)
	if len(mevs) != 1 {
		t.Fatalf("esperado 1 grupo, obtido %d", len(mevs))
	}
	if mevs[0].Impact != model.ImpactCritical {
		t.Errorf("impacto mais grave deveria vencer, obtido %q", mevs[0].Impact)
	}
	want := []model.ToolSource{model.ToolAxe, model.ToolIBM, model.ToolAlfa}
	if !reflect.DeepEqual(mevs[0].ToolSources, want) {
		t.Errorf("ordem de prioridade inesperada: %v", mevs[0].ToolSources)
	}
}

func TestMultiEngineGrouping(t *testing.T) {
	tests := []struct {
		name     string
		findings []model.Finding
		want     int
	}{
		{
			name: "mesma engine não gera grupo",
			findings: []model.Finding{
				finding(model.ToolAxe, "color-contrast", model.OutcomeViolation, "", 1, "1.4.3"),
				finding(model.ToolAxe, "color-contrast", model.OutcomeViolation, "", 1, "1.4.3"),
			},
			want: 0,
		},
		{
			name: "buckets diferentes no mesmo critério",
			findings: []model.Finding{
				finding(model.ToolAxe, "image-alt", model.OutcomeViolation, "", 1, "1.1.1"),
				finding(model.ToolPa11y, "WCAG2AA.Principle1.Guideline1_1.1_1_1.H36", model.OutcomeViolation, "", 1, "1.1.1"),
			},
			want: 0,
		},
		{
			name: "regras sem alias agrupam pelo critério",
			findings: []model.Finding{
				finding(model.ToolAxe, "scrollable-region-focusable", model.OutcomeViolation, "", 1, "2.1.1"),
				finding(model.ToolQualWeb, "QW-ACT-R70", model.OutcomeViolation, "", 1, "2.1.1"),
			},
			want: 1,
		},
		{
			name: "passes e incompletos não entram",
			findings: []model.Finding{
				finding(model.ToolAxe, "color-contrast", model.OutcomePass, "", 1, "1.4.3"),
				finding(model.ToolPa11y, "WCAG2AA.Principle1.Guideline1_4.1_4_3.G18", model.OutcomeIncomplete, "", 1, "1.4.3"),
			},
			want: 0,
		},
		{
			name: "pa11y com runner do axe usa os aliases do axe-core",
			findings: []model.Finding{
				finding(model.ToolAxe, "color-contrast", model.OutcomeViolation, "", 1, "1.4.3"),
				finding(model.ToolPa11y, "color-contrast", model.OutcomeViolation, "", 1, "1.4.3"),
			},
			want: 1,
		},
		{
			name: "pa11y com runner do axe e wave no mesmo bucket",
			findings: []model.Finding{
				finding(model.ToolPa11y, "color-contrast", model.OutcomeViolation, "", 1, "1.4.3"),
				finding(model.ToolWave, "contrast", model.OutcomeViolation, "", 1, "1.4.3"),
			},
			want: 1,
		},
		{
			name: "critérios distintos não se encadeiam",
			findings: []model.Finding{
				finding(model.ToolAxe, "list", model.OutcomeViolation, "", 2, "1.3.1"),
				finding(model.ToolPa11y, "WCAG2AA.Principle4.Guideline4_1.4_1_2.H91.Select.Name", model.OutcomeViolation, "", 1, "4.1.2"),
			},
			want: 0,
		},
		{
			name:     "sem findings",
			findings: nil,
			want:     0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(wcag.DefaultAliases()).MultiEngine(tt.findings)
			if got == nil {
				t.Fatal("lista deve ser vazia, não nil")
			}
			if len(got) != tt.want {
				t.Errorf("esperado %d grupos, obtido %d: %+v", tt.want, len(got), got)
			}
		})
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	m := New(wcag.DefaultAliases())
	engines := []model.ToolSource{model.ToolAxe, model.ToolPa11y, model.ToolLighthouse}
	fs := sampleFindings()
	fs = append(fs,
		finding(model.ToolLighthouse, "color-contrast", model.OutcomeViolation, model.ImpactSerious, 2, "1.4.3"),
		finding(model.ToolIBM, "html_lang_exists", model.OutcomeViolation, model.ImpactSerious, 1, "3.1.1"),
		finding(model.ToolAxe, "html-has-lang", model.OutcomeViolation, model.ImpactSerious, 1, "3.1.1"),
	)

	first, err := json.Marshal(m.Merge(engines, fs))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, _ := json.Marshal(m.Merge(engines, fs))
		if string(again) != string(first) {
			t.Fatalf("saída diferente na execução %d:\n%s\n%s", i, first, again)
		}
	}
}

func TestMultiEngineDoesNotChainThroughCriteria(t *testing.T) {
	fs := []model.Finding{
		finding(model.ToolAxe, "aria-allowed-attr", model.OutcomeViolation, model.ImpactCritical, 5, "1.3.1", "4.1.2"),
		finding(model.ToolAxe, "nested-interactive", model.OutcomeViolation, model.ImpactSerious, 4, "1.3.1", "4.1.2"),
		finding(model.ToolAxe, "region", model.OutcomeViolation, model.ImpactModerate, 5, "1.3.1", "4.1.2"),
		finding(model.ToolAxe, "list", model.OutcomeViolation, model.ImpactSerious, 2, "1.3.1"),
		finding(model.ToolPa11y, "WCAG2AA.Principle4.Guideline4_1.4_1_2.H91.Select.Name", model.OutcomeViolation, "", 1, "4.1.2"),
	}
	mevs := New(wcag.DefaultAliases()).MultiEngine(fs)
	if len(mevs) != 1 {
		t.Fatalf("esperado 1 grupo, obtido %d: %+v", len(mevs), mevs)
	}
	mev := mevs[0]
	if !reflect.DeepEqual(mev.WCAGCriteria, []string{"4.1.2"}) {
		t.Errorf("só 4.1.2 foi reportado pelas duas engines, obtido %v", mev.WCAGCriteria)
	}
	if mev.NodeCount != 15 {
		t.Errorf("list (só 1.3.1) não deveria somar nós, nodeCount = %d", mev.NodeCount)
	}
}

func TestMultiEngineCollapsesSharedCriteria(t *testing.T) {
	fs := []model.Finding{
		finding(model.ToolAxe, "aria-hidden-focus", model.OutcomeViolation, model.ImpactSerious, 2, "1.3.1", "4.1.2"),
		finding(model.ToolIBM, "aria_hidden_focus_misuse", model.OutcomeViolation, model.ImpactSerious, 2, "1.3.1", "4.1.2"),
	}
	mevs := New(wcag.DefaultAliases()).MultiEngine(fs)
	if len(mevs) != 1 {
		t.Fatalf("mesmo par de findings deveria gerar um grupo, obtido %d: %+v", len(mevs), mevs)
	}
	if !reflect.DeepEqual(mevs[0].WCAGCriteria, []string{"1.3.1", "4.1.2"}) || mevs[0].NodeCount != 4 {
		t.Errorf("grupo inesperado: %+v", mevs[0])
	}
}

func TestSortViolationsBreaksTies(t *testing.T) {
	tools := []model.ToolSource{model.ToolAxe, model.ToolPa11y}
	a := model.MultiEngineViolation{RuleID: "region", Description: "a", WCAGCriteria: []string{"1.3.1"}, ToolSources: tools, NodeCount: 3}
	b := model.MultiEngineViolation{RuleID: "region", Description: "b", WCAGCriteria: []string{"1.3.1"}, ToolSources: tools, NodeCount: 3}
	c := model.MultiEngineViolation{RuleID: "region", Description: "a", WCAGCriteria: []string{"1.3.1"}, ToolSources: tools, NodeCount: 1}
	d := model.MultiEngineViolation{RuleID: "region", Description: "a", WCAGCriteria: []string{"1.3.1", "4.1.2"}, ToolSources: tools, NodeCount: 1}

	want := []model.MultiEngineViolation{c, a, b, d}
	for _, in := range [][]model.MultiEngineViolation{{a, b, c, d}, {d, c, b, a}, {b, d, a, c}} {
		sortViolations(in)
		if !reflect.DeepEqual(in, want) {
			t.Errorf("ordem inesperada: %+v", in)
		}
	}
}

func TestMergePa11yAxeRunnerFromRawOutput(t *testing.T) {
	axe, err := adapters.Normalize(model.ToolAxe, []byte(`{"violations": [{"id": "color-contrast", "impact": "serious", "tags": ["wcag2aa", "wcag143"], "nodes": [{"html": "<a>", "target": ["a"]}]}]}`))
	if err != nil {
		t.Fatal(err)
	}
	pa11y, err := adapters.Normalize(model.ToolPa11y, []byte(`[{"code": "color-contrast", "type": "error", "runner": "axe", "selector": "a", "context": "<a>", "runnerExtras": {"impact": "serious"}}]`))
	if err != nil {
		t.Fatal(err)
	}
	mevs := New(wcag.DefaultAliases()).MultiEngine(append(axe, pa11y...))
	if len(mevs) != 1 {
		t.Fatalf("esperado 1 violação multi-engine, obtido %d: %+v", len(mevs), mevs)
	}
	want := []model.ToolSource{model.ToolAxe, model.ToolPa11y}
	if !reflect.DeepEqual(mevs[0].ToolSources, want) || mevs[0].NodeCount != 2 {
		t.Errorf("grupo inesperado: %+v", mevs[0])
	}
}
