package scanner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Sena-ops/a11yguard/internal/model"
)

// ScannerFunc roda uma engine contra url. base é o binário e os argumentos
// iniciais (ex: ["npx", "@axe-core/cli"]).
type ScannerFunc func(ctx context.Context, base []string, url string) ([]byte, error)

type scannerDef struct {
	command []string
	run     ScannerFunc
}

var scanners = map[model.ToolSource]scannerDef{
	model.ToolAxe:        {command: axeCommand, run: RunAxe},
	model.ToolPa11y:      {command: pa11yCommand, run: RunPa11y},
	model.ToolLighthouse: {command: lighthouseCommand, run: RunLighthouse},
}

// Output é a saída bruta de uma engine, já persistida em Path.
type Output struct {
	Source   model.ToolSource
	Raw      []byte
	Path     string
	Duration time.Duration
}

func Supported(src model.ToolSource) bool {
	_, ok := scanners[src]
	return ok
}

// Execute roda a engine e salva o JSON bruto em outDir/<engine>-results.json.
// command sobrescreve o comando padrão quando não vazio.
func Execute(ctx context.Context, src model.ToolSource, url string, command []string, outDir string) (Output, error) {
	def, ok := scanners[src]
	if !ok {
		return Output{}, fmt.Errorf("scanner '%s' não suportado", src)
	}
	if len(command) == 0 {
		command = def.command
	}

	start := time.Now()
	raw, err := def.run(ctx, command, url)
	out := Output{Source: src, Raw: raw, Duration: time.Since(start)}
	if err != nil {
		return out, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return out, fmt.Errorf("criar diretório %s: %w", outDir, err)
	}
	out.Path = filepath.Join(outDir, fmt.Sprintf("%s-results.json", src))
	if err := os.WriteFile(out.Path, raw, 0o644); err != nil {
		return out, fmt.Errorf("salvar resultado de %s: %w", src, err)
	}
	return out, nil
}
