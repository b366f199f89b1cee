package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
	"gopkg.in/yaml.v3"
)

type checksFile struct {
	Checks []model.SemiAutoCheck `yaml:"checks"`
}

// ParseChecks aceita uma lista direta ou um documento com a chave checks.
func ParseChecks(data []byte) ([]model.SemiAutoCheck, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, fmt.Errorf("parse das verificações: %w", err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var checks []model.SemiAutoCheck
	root := node.Content[0]
	if root.Kind == yaml.SequenceNode {
		if err := root.Decode(&checks); err != nil {
			return nil, fmt.Errorf("parse das verificações: %w", err)
		}
	} else {
		var doc checksFile
		if err := root.Decode(&doc); err != nil {
			return nil, fmt.Errorf("parse das verificações: %w", err)
		}
		checks = doc.Checks
	}

	for i := range checks {
		a := model.Answer(strings.ToLower(strings.TrimSpace(string(checks[i].Answer))))
		switch a {
		case model.AnswerYes, model.AnswerNo, model.AnswerNA, model.AnswerUnanswered:
		default:
			return nil, fmt.Errorf("verificação %s: resposta inválida %q", checks[i].ID, checks[i].Answer)
		}
		checks[i].Answer = a
	}
	return checks, nil
}

func LoadChecksFile(path string) ([]model.SemiAutoCheck, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ler verificações %s: %w", path, err)
	}
	return ParseChecks(b)
}
