package scanner

import (
	"context"
)

var pa11yCommand = []string{"pa11y"}

// RunPa11y executa o pa11y com reporter json. Sai com código 2 quando
// encontra issues, o que não é erro de execução.
func RunPa11y(ctx context.Context, base []string, url string) ([]byte, error) {
	argv := append(append([]string{}, base...), "--reporter", "json", url)
	return run(ctx, argv, 2)
}
