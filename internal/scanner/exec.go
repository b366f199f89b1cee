package scanner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"slices"
)

// run executa argv e devolve o stdout. Códigos de saída em okCodes são
// tratados como sucesso: algumas engines saem com código != 0 quando acham problemas.
func run(ctx context.Context, argv []string, okCodes ...int) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("comando vazio")
	}
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && slices.Contains(okCodes, exitErr.ExitCode()) {
			return stdout.Bytes(), nil
		}
		return nil, fmt.Errorf("erro ao executar %s: %w\nstderr: %s", argv[0], err, stderr.String())
	}
	return stdout.Bytes(), nil
}
