package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/browser"
	"github.com/Sena-ops/a11yguard/internal/config"
	"github.com/Sena-ops/a11yguard/internal/diagnostics"
	"github.com/Sena-ops/a11yguard/internal/dom"
	"github.com/Sena-ops/a11yguard/internal/logging"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/report"
	"github.com/Sena-ops/a11yguard/internal/sarif"
)

// writeReport escreve o relatório no formato pedido. SARIF vai para o
// diretório de saída e o caminho é impresso.
func writeReport(w io.Writer, r report.Report, format string) error {
	switch strings.ToLower(format) {
	case "json":
		return report.WriteJSON(w, r)
	case "markdown", "md":
		_, err := fmt.Fprintln(w, report.Markdown(r))
		return err
	case "sarif":
		path, err := sarif.Export(r, cfg.OutputDir, "a11yguard", "a11yguard", version)
		if err != nil {
			return err
		}
		logging.Logger.Infow("SARIF gerado", "arquivo", path)
		_, err = fmt.Fprintln(w, path)
		return err
	case "", "text":
		_, err := fmt.Fprint(w, report.Text(r))
		return err
	}
	return fmt.Errorf("formato de saída '%s' não suportado (json, markdown, sarif, text)", format)
}

func newAssembler() (*report.Assembler, error) {
	catalog, err := cfg.LoadCatalog()
	if err != nil {
		return nil, err
	}
	aliases, err := cfg.LoadAliases()
	if err != nil {
		return nil, err
	}
	return report.NewAssembler(catalog, aliases, cfg.Diagnostics.Concurrency), nil
}

// loadChecks prioriza o arquivo da flag sobre o da configuração.
func loadChecks(path string) ([]model.SemiAutoCheck, error) {
	if path != "" {
		return config.LoadChecksFile(path)
	}
	return cfg.LoadChecks()
}

// openResolver escolhe a fonte de diagnósticos: snapshot HTML estático ou
// página viva no Chrome. O close devolvido é sempre seguro de chamar.
func openResolver(ctx context.Context, htmlPath, liveURL string) (diagnostics.ElementResolver, func(), error) {
	noop := func() {}
	if !cfg.Diagnostics.Enabled {
		return nil, noop, nil
	}
	switch {
	case htmlPath != "":
		snap, err := dom.ParseFile(htmlPath, cfg.ViewportSize())
		if err != nil {
			return nil, noop, err
		}
		return snap, noop, nil
	case liveURL != "":
		page, err := browser.Open(ctx, liveURL, browser.Options{
			Viewport: cfg.ViewportSize(),
			Headers:  cfg.Browser.Headers,
			ExecPath: cfg.Browser.ExecPath,
			Headless: cfg.Browser.Headless,
		})
		if err != nil {
			// sem navegador o relatório sai sem diagnósticos
			logging.Logger.Warnw("navegador indisponível, seguindo sem diagnósticos", "url", liveURL, "erro", err)
			return nil, noop, nil
		}
		return page, page.Close, nil
	}
	return nil, noop, nil
}
