package adapters

import (
	"fmt"
	"sort"

	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
)

// ParseFunc converte a saída bruta de uma engine em findings canônicos.
// Deve ser pura: sem estado compartilhado, segura para chamadas concorrentes.
type ParseFunc func(b []byte) ([]model.Finding, error)

var parsers = map[model.ToolSource]ParseFunc{
	model.ToolAxe:        ParseAxeBytes,
	model.ToolPa11y:      ParsePa11yBytes,
	model.ToolLighthouse: ParseLighthouseBytes,
	model.ToolIBM:        ParseIBMBytes,
	model.ToolAlfa:       ParseAlfaBytes,
	model.ToolQualWeb:    ParseQualWebBytes,
	model.ToolWave:       ParseWaveBytes,
	model.ToolCustom:     ParseCustomBytes,
}

// Register troca ou adiciona o adapter de uma engine. Deve ser chamado na
// inicialização, antes de qualquer Normalize concorrente.
func Register(src model.ToolSource, fn ParseFunc) {
	if !src.Valid() || fn == nil {
		return
	}
	parsers[src] = fn
}

func Lookup(src model.ToolSource) (ParseFunc, bool) {
	fn, ok := parsers[src]
	return fn, ok
}

// Sources lista as engines registradas na ordem de prioridade.
func Sources() []model.ToolSource {
	out := make([]model.ToolSource, 0, len(parsers))
	for s := range parsers {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Priority() < out[j].Priority() })
	return out
}

// Normalize aplica o adapter da engine. Saída vazia (engine indisponível)
// vira lista vazia sem erro; JSON ilegível devolve lista vazia e o erro,
// que o chamador registra sem interromper a análise.
func Normalize(src model.ToolSource, raw []byte) ([]model.Finding, error) {
	fn, ok := Lookup(src)
	if !ok {
		return []model.Finding{}, fmt.Errorf("engine '%s' não suportada", src)
	}
	if isEmptyRaw(raw) {
		return []model.Finding{}, nil
	}
	fs, err := fn(raw)
	if err != nil {
		return []model.Finding{}, fmt.Errorf("parse da saída de %s: %w", src, err)
	}
	return finalize(src, fs), nil
}

// Empty informa se a saída bruta não traz nada: engine que não rodou,
// travou ou estourou o tempo.
func Empty(raw []byte) bool {
	return isEmptyRaw(raw)
}

// finalize garante os invariantes do Finding independente do adapter.
func finalize(src model.ToolSource, fs []model.Finding) []model.Finding {
	if fs == nil {
		return []model.Finding{}
	}
	for i := range fs {
		f := &fs[i]
		f.ToolSource = src
		f.WCAGCriteria = wcag.NormalizeCriteria(f.WCAGCriteria)
		f.BestPractice = len(f.WCAGCriteria) == 0
		if f.Nodes != nil {
			f.NodeCount = len(f.Nodes)
		}
		if f.Outcome == "" {
			f.Outcome = model.OutcomeViolation
		}
	}
	return fs
}
