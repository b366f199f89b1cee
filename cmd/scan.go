package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/Sena-ops/a11yguard/internal/browser"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/report"
	"github.com/Sena-ops/a11yguard/internal/scanner"
	"github.com/spf13/cobra"
)

var scanEngines string
var scanOutput string
var scanHTML string
var scanNoBrowser bool

var scanCmd = &cobra.Command{
	Use:   "scan <url> [url...]",
	Short: "Executa as engines contra as URLs e gera o relatório agregado",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		engines, err := cfg.ToolSources()
		if err != nil {
			return err
		}
		if scanEngines != "" {
			engines, err = parseEngines(scanEngines)
			if err != nil {
				return err
			}
		}

		checks, err := cfg.LoadChecks()
		if err != nil {
			return err
		}
		a, err := newAssembler()
		if err != nil {
			return err
		}

		var pages []report.PageInput
		var closers []func()
		defer func() {
			for _, c := range closers {
				c()
			}
		}()
		for i, url := range args {
			logging.Logger.Infof("Escaneando página: %s (engines: %v)", url, engines)
			outDir := cfg.OutputDir
			if len(args) > 1 {
				outDir = filepath.Join(outDir, fmt.Sprintf("page-%d", i+1))
			}
			in := runEngines(ctx, url, engines, outDir)
			in.Checks = checks

			live := url
			if scanNoBrowser {
				live = ""
			}
			resolver, closeResolver, err := openResolver(ctx, scanHTML, live)
			if err != nil {
				return err
			}
			closers = append(closers, closeResolver)
			if page, ok := resolver.(*browser.Page); ok {
				saveSnapshot(ctx, page, outDir)
			}
			in.Resolver = resolver
			pages = append(pages, in)
		}

		r := a.Assemble(ctx, pages)
		return writeReport(cmd.OutOrStdout(), r, scanOutput)
	},
}

// runEngines roda as engines em sequência; falha de uma engine vira saída
// vazia (indisponível) e não interrompe as demais.
func runEngines(ctx context.Context, url string, engines []model.ToolSource, outDir string) report.PageInput {
	in := report.PageInput{
		URL:       url,
		Raw:       map[model.ToolSource][]byte{},
		Durations: map[model.ToolSource]time.Duration{},
	}
	for _, src := range engines {
		if !scanner.Supported(src) {
			logging.Logger.Warnw("engine sem runner, informe a saída via analyze", "engine", src)
			continue
		}
		out, err := scanner.Execute(ctx, src, url, cfg.Command(src), outDir)
		in.Durations[src] = out.Duration
		if err != nil {
			logging.Logger.Errorw("Erro ao executar scanner", "engine", src, "erro", err)
			in.Raw[src] = nil
			continue
		}
		logging.Logger.Infow("Resultado salvo com sucesso", "engine", src, "arquivo", out.Path)
		in.Raw[src] = out.Raw
	}
	return in
}

// saveSnapshot guarda o DOM renderizado junto das saídas das engines, para
// reanálise offline com analyze --html.
func saveSnapshot(ctx context.Context, page *browser.Page, outDir string) {
	doc, err := page.HTML(ctx)
	if err != nil {
		logging.Logger.Warnw("não foi possível capturar o DOM", "erro", err)
		return
	}
	path := filepath.Join(outDir, "page.html")
	err = os.MkdirAll(outDir, 0o755)
	if err == nil {
		err = os.WriteFile(path, []byte(doc), 0o644)
	}
	if err != nil {
		logging.Logger.Warnw("não foi possível salvar o snapshot", "arquivo", path, "erro", err)
		return
	}
	logging.Logger.Infow("Snapshot salvo", "arquivo", path)
}

func parseEngines(s string) ([]model.ToolSource, error) {
	var out []model.ToolSource
	for _, part := range splitAndTrim(s) {
		src, ok := model.ParseToolSource(part)
		if !ok {
			return nil, fmt.Errorf("engine '%s' não suportada", part)
		}
		out = append(out, src)
	}
	return model.SortTools(out), nil
}

func init() {
	scanCmd.Flags().StringVarP(&scanEngines, "with", "w", "", "Engines a executar (ex: axe,pa11y,lighthouse)")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "text", "Formato da saída (json, markdown, sarif, text)")
	scanCmd.Flags().StringVar(&scanHTML, "html", "", "Usa um snapshot HTML em vez do navegador para os diagnósticos")
	scanCmd.Flags().BoolVar(&scanNoBrowser, "no-browser", false, "Não abre o Chrome para extrair diagnósticos")
	rootCmd.AddCommand(scanCmd)
}

func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(strings.ToLower(part))
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
