package scanner

import (
	"context"
)

var axeCommand = []string{"axe"}

// RunAxe executa o @axe-core/cli e devolve o array JSON de resultados.
func RunAxe(ctx context.Context, base []string, url string) ([]byte, error) {
	argv := append(append([]string{}, base...), url, "--stdout")
	return run(ctx, argv)
}
