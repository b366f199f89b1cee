package scanner

import (
	"context"
)

var lighthouseCommand = []string{"lighthouse"}

// RunLighthouse gera o relatório completo (todas as categorias) em stdout,
// para que as notas de performance, best practices e SEO também sejam lidas.
func RunLighthouse(ctx context.Context, base []string, url string) ([]byte, error) {
	argv := append(append([]string{}, base...),
		url,
		"--output=json",
		"--output-path=stdout",
		"--quiet",
		"--chrome-flags=--headless=new",
	)
	return run(ctx, argv)
}
