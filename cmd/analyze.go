package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/Sena-ops/a11yguard/internal/adapters"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/parser"
	"github.com/Sena-ops/a11yguard/internal/report"
	"github.com/spf13/cobra"
)

type analyzeOptions struct {
	recursive  bool
	files      map[model.ToolSource]*string
	htmlPath   string
	pageURL    string
	live       bool
	checksPath string
	output     string
}

var analyzeOpts = analyzeOptions{files: map[model.ToolSource]*string{}}

var analyzeCmd = &cobra.Command{
	Use:   "analyze [diretório]",
	Short: "Agrega saídas JSON de engines de acessibilidade em um relatório",
	Long: `Lê as saídas brutas das engines (informadas por flag ou detectadas no diretório),
normaliza, extrai diagnósticos dos elementos, cruza as engines e monta a matriz de cobertura WCAG.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := ""
		if len(args) == 1 {
			dir = args[0]
		}
		r, err := runAnalysis(cmd.Context(), dir, analyzeOpts)
		if err != nil {
			return err
		}
		return writeReport(cmd.OutOrStdout(), r, analyzeOpts.output)
	},
}

// runAnalysis é compartilhado com o watch.
func runAnalysis(ctx context.Context, dir string, opts analyzeOptions) (report.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	raw, err := collectRaw(dir, opts)
	if err != nil {
		return report.Report{}, err
	}
	if len(raw) == 0 {
		return report.Report{}, fmt.Errorf("nenhuma saída de engine encontrada; use --axe, --pa11y, ... ou informe um diretório")
	}

	checks, err := loadChecks(opts.checksPath)
	if err != nil {
		return report.Report{}, err
	}

	live := ""
	if opts.live {
		live = opts.pageURL
	}
	resolver, closeResolver, err := openResolver(ctx, opts.htmlPath, live)
	if err != nil {
		return report.Report{}, err
	}
	defer closeResolver()

	a, err := newAssembler()
	if err != nil {
		return report.Report{}, err
	}
	label := opts.pageURL
	if label == "" {
		label = dir
	}
	return a.Assemble(ctx, []report.PageInput{{
		URL:      label,
		Raw:      raw,
		Resolver: resolver,
		Checks:   checks,
	}}), nil
}

// collectRaw junta os arquivos detectados no diretório com os informados por
// flag; a flag vence quando os dois existem para a mesma engine.
func collectRaw(dir string, opts analyzeOptions) (map[model.ToolSource][]byte, error) {
	raw := map[model.ToolSource][]byte{}
	if dir != "" {
		files, err := parser.DetectResultFiles(dir, opts.recursive)
		if err != nil {
			return nil, fmt.Errorf("escanear %s: %w", dir, err)
		}
		for _, f := range files {
			if _, dup := raw[f.Source]; dup {
				logging.Logger.Warnw("mais de um resultado para a mesma engine, mantendo o primeiro", "engine", f.Source, "ignorado", f.Path)
				continue
			}
			b, err := os.ReadFile(f.Path)
			if err != nil {
				return nil, fmt.Errorf("ler %s: %w", f.Path, err)
			}
			logging.Logger.Debugw("resultado detectado", "engine", f.Source, "arquivo", f.Path)
			raw[f.Source] = b
		}
	}
	for src, p := range opts.files {
		if p == nil || *p == "" {
			continue
		}
		b, err := os.ReadFile(*p)
		if err != nil {
			return nil, fmt.Errorf("ler resultado de %s: %w", src, err)
		}
		raw[src] = b
	}
	return raw, nil
}

func engineFlag(src model.ToolSource) string {
	if src == model.ToolAxe {
		return "axe"
	}
	return string(src)
}

func init() {
	for _, src := range adapters.Sources() {
		p := new(string)
		analyzeOpts.files[src] = p
		analyzeCmd.Flags().StringVar(p, engineFlag(src), "", fmt.Sprintf("Arquivo JSON com a saída do %s", src))
	}
	analyzeCmd.Flags().BoolVarP(&analyzeOpts.recursive, "recursive", "r", false, "Procura resultados recursivamente no diretório")
	analyzeCmd.Flags().StringVar(&analyzeOpts.htmlPath, "html", "", "Snapshot HTML da página para extrair diagnósticos")
	analyzeCmd.Flags().StringVar(&analyzeOpts.pageURL, "url", "", "URL da página analisada")
	analyzeCmd.Flags().BoolVar(&analyzeOpts.live, "live", false, "Abre a --url no Chrome para extrair diagnósticos")
	analyzeCmd.Flags().StringVar(&analyzeOpts.checksPath, "checks", "", "YAML com respostas das verificações semi-automáticas")
	analyzeCmd.Flags().StringVarP(&analyzeOpts.output, "output", "o", "text", "Formato da saída (json, markdown, sarif, text)")
	rootCmd.AddCommand(analyzeCmd)
}
