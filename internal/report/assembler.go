// Package report junta findings, diagnósticos, merge e cobertura de cada
// página no relatório final.
package report

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Sena-ops/a11yguard/internal/adapters"
	"github.com/Sena-ops/a11yguard/internal/coverage"
	"github.com/Sena-ops/a11yguard/internal/diagnostics"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/merge"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

type EngineState string

const (
	EngineOK          EngineState = "ok"
	EngineEmpty       EngineState = "empty"
	EngineUnavailable EngineState = "unavailable"
)

// PageInput é a saída bruta das engines para uma página.
// Uma engine presente em Raw com conteúdo vazio conta como indisponível.
type PageInput struct {
	URL       string
	Raw       map[model.ToolSource][]byte
	Durations map[model.ToolSource]time.Duration
	// Resolver é opcional; sem ele os nós ficam sem diagnóstico.
	Resolver diagnostics.ElementResolver
	Checks   []model.SemiAutoCheck
}

type EngineStatus struct {
	Source     model.ToolSource `json:"source"`
	State      EngineState      `json:"state"`
	Findings   int              `json:"findings"`
	DurationMs int64            `json:"durationMs"`
	Error      string           `json:"error,omitempty"`
}

type PageReport struct {
	URL                   string                                   `json:"url"`
	Engines               []EngineStatus                           `json:"engines"`
	Counters              map[model.ToolSource]model.EngineCounter `json:"counters"`
	Findings              []model.Finding                          `json:"findings"`
	MultiEngineViolations []model.MultiEngineViolation             `json:"multiEngineViolations"`
	Coverage              model.CoverageMatrix                     `json:"coverage"`
	LighthouseScores      *model.LighthouseScores                  `json:"lighthouseScores,omitempty"`
}

type Report struct {
	GeneratedAt    time.Time            `json:"generatedAt"`
	CatalogVersion string               `json:"catalogVersion"`
	AliasVersion   int                  `json:"aliasVersion"`
	Pages          []PageReport         `json:"pages"`
	Coverage       model.CoverageMatrix `json:"coverage"`
}

type Assembler struct {
	Catalog     *wcag.Catalog
	Aliases     *wcag.AliasTable
	Concurrency int
	// Now é injetável para relatórios reprodutíveis em teste.
	Now func() time.Time
}

func NewAssembler(catalog *wcag.Catalog, aliases *wcag.AliasTable, concurrency int) *Assembler {
	return &Assembler{Catalog: catalog, Aliases: aliases, Concurrency: concurrency, Now: time.Now}
}

// Assemble monta o relatório de todas as páginas e a cobertura agregada.
// Nenhuma falha de engine ou de localização interrompe o relatório.
func (a *Assembler) Assemble(ctx context.Context, pages []PageInput) Report {
	now := time.Now
	if a.Now != nil {
		now = a.Now
	}
	r := Report{
		GeneratedAt:    now().UTC(),
		CatalogVersion: a.Catalog.Version(),
		AliasVersion:   a.Aliases.Version(),
		Pages:          make([]PageReport, 0, len(pages)),
	}
	matrices := make([]model.CoverageMatrix, 0, len(pages))
	for _, p := range pages {
		pr := a.AssemblePage(ctx, p)
		r.Pages = append(r.Pages, pr)
		matrices = append(matrices, pr.Coverage)
	}
	r.Coverage = coverage.Aggregate(matrices...)
	return r
}

type adapted struct {
	status   EngineStatus
	findings []model.Finding
}

func (a *Assembler) AssemblePage(ctx context.Context, in PageInput) PageReport {
	sources := make([]model.ToolSource, 0, len(in.Raw))
	for src := range in.Raw {
		sources = append(sources, src)
	}
	sources = model.SortTools(sources)

	// adapters são puros: uma goroutine por engine
	results := make([]adapted, len(sources))
	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func(i int, src model.ToolSource) {
			defer wg.Done()
			results[i] = normalize(src, in.Raw[src], in.Durations[src])
		}(i, src)
	}
	wg.Wait()

	pr := PageReport{URL: in.URL, Engines: make([]EngineStatus, 0, len(results))}
	var ran []model.ToolSource
	findings := []model.Finding{}
	for _, res := range results {
		pr.Engines = append(pr.Engines, res.status)
		if res.status.State == EngineUnavailable {
			logging.Logger.Warnw("engine indisponível", "url", in.URL, "engine", res.status.Source, "erro", res.status.Error)
			continue
		}
		ran = append(ran, res.status.Source)
		findings = append(findings, res.findings...)
	}

	if in.Resolver != nil {
		x := diagnostics.NewExtractor(in.Resolver, a.Concurrency)
		findings = x.Enhance(ctx, findings)
	}
	model.SortFindings(findings)
	pr.Findings = findings

	merged := merge.New(a.Aliases).Merge(ran, findings)
	pr.Counters = merged.Counters
	pr.MultiEngineViolations = merged.MultiEngine
	pr.Coverage = coverage.NewBuilder(a.Catalog).Build(findings, in.Checks)

	if raw := in.Raw[model.ToolLighthouse]; !adapters.Empty(raw) {
		if scores, err := adapters.ParseLighthouseScores(raw); err == nil {
			pr.LighthouseScores = &scores
		} else {
			logging.Logger.Debugw("notas do lighthouse indisponíveis", "url", in.URL, "erro", err)
		}
	}
	return pr
}

func normalize(src model.ToolSource, raw []byte, d time.Duration) adapted {
	st := EngineStatus{Source: src, DurationMs: d.Milliseconds()}
	fs, err := adapters.Normalize(src, raw)
	switch {
	case err != nil:
		st.State = EngineUnavailable
		st.Error = err.Error()
		fs = []model.Finding{}
	case adapters.Empty(raw):
		st.State = EngineUnavailable
		st.Error = "sem saída"
	case len(fs) == 0:
		st.State = EngineEmpty
	default:
		st.State = EngineOK
	}
	st.Findings = len(fs)
	return adapted{status: st, findings: fs}
}

// Violations devolve as violações de todas as páginas, ordenadas por URL.
func (r Report) Violations() []PageViolation {
	var out []PageViolation
	for _, p := range r.Pages {
		for _, f := range p.Findings {
			if f.Outcome == model.OutcomeViolation {
				out = append(out, PageViolation{URL: p.URL, Finding: f})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

type PageViolation struct {
	URL     string
	Finding model.Finding
}
