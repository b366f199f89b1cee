package wcag

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"strings"
	"sync"

	"github.com/Sena-ops/a11yguard/internal/model"
	"gopkg.in/yaml.v3"
)

//go:embed data/rules.yaml
var rulesYAML []byte

//go:embed data/aliases.yaml
var aliasesYAML []byte

// RuleTable mapeia, por engine, id de regra -> critérios.
type RuleTable map[model.ToolSource]map[string][]string

var (
	defaultRules     RuleTable
	defaultRulesOnce sync.Once
)

func LoadRules(data []byte) (RuleTable, error) {
	raw := map[string]map[string][]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse da tabela de regras: %w", err)
	}
	out := make(RuleTable, len(raw))
	for tool, rules := range raw {
		src, ok := model.ParseToolSource(tool)
		if !ok {
			return nil, fmt.Errorf("engine desconhecida %q na tabela de regras", tool)
		}
		m := make(map[string][]string, len(rules))
		for id, cs := range rules {
			m[strings.ToLower(id)] = NormalizeCriteria(cs)
		}
		out[src] = m
	}
	return out, nil
}

func DefaultRules() RuleTable {
	defaultRulesOnce.Do(func() {
		t, err := LoadRules(rulesYAML)
		if err != nil {
			panic("tabela de regras embutida inválida: " + err.Error())
		}
		defaultRules = t
	})
	return defaultRules
}

// Criteria devolve os critérios da regra, ou uma lista vazia.
func (r RuleTable) Criteria(tool model.ToolSource, ruleID string) []string {
	cs := r[tool][strings.ToLower(strings.TrimSpace(ruleID))]
	out := make([]string, len(cs))
	copy(out, cs)
	return out
}

// Has informa se a engine conhece a regra.
func (r RuleTable) Has(tool model.ToolSource, ruleID string) bool {
	_, ok := r[tool][strings.ToLower(strings.TrimSpace(ruleID))]
	return ok
}

type aliasRule struct {
	Tool string `yaml:"tool"`
	Rule string `yaml:"rule"`
}

type aliasGroup struct {
	Bucket string      `yaml:"bucket"`
	Rules  []aliasRule `yaml:"rules"`
}

type aliasFile struct {
	Version int          `yaml:"version"`
	Aliases []aliasGroup `yaml:"aliases"`
}

type aliasEntry struct {
	tool    model.ToolSource
	pattern string
	bucket  string
}

// AliasTable é a tabela versionada de equivalência de regras entre engines.
// Os padrões usam a sintaxe de path.Match.
type AliasTable struct {
	version int
	entries []aliasEntry
}

func LoadAliases(data []byte) (*AliasTable, error) {
	var doc aliasFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse da tabela de aliases: %w", err)
	}
	t := &AliasTable{version: doc.Version}
	for _, g := range doc.Aliases {
		if strings.TrimSpace(g.Bucket) == "" {
			return nil, fmt.Errorf("grupo de alias sem bucket")
		}
		for _, r := range g.Rules {
			src, ok := model.ParseToolSource(r.Tool)
			if !ok {
				return nil, fmt.Errorf("bucket %s: engine desconhecida %q", g.Bucket, r.Tool)
			}
			if _, err := path.Match(r.Rule, ""); err != nil {
				return nil, fmt.Errorf("bucket %s: padrão inválido %q: %w", g.Bucket, r.Rule, err)
			}
			t.entries = append(t.entries, aliasEntry{tool: src, pattern: r.Rule, bucket: g.Bucket})
		}
	}
	return t, nil
}

func LoadAliasesFile(p string) (*AliasTable, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return nil, err
	}
	return LoadAliases(b)
}

var (
	defaultAliases     *AliasTable
	defaultAliasesOnce sync.Once
)

func DefaultAliases() *AliasTable {
	defaultAliasesOnce.Do(func() {
		t, err := LoadAliases(aliasesYAML)
		if err != nil {
			panic("tabela de aliases embutida inválida: " + err.Error())
		}
		defaultAliases = t
	})
	return defaultAliases
}

func (t *AliasTable) Version() int {
	if t == nil {
		return 0
	}
	return t.version
}

// Bucket devolve o bucket de equivalência da regra, ou "" se não houver alias.
// Vale a primeira entrada que casar, na ordem do arquivo.
func (t *AliasTable) Bucket(tool model.ToolSource, ruleID string) string {
	if t == nil {
		return ""
	}
	for _, e := range t.entries {
		if e.tool != tool {
			continue
		}
		if ok, _ := path.Match(e.pattern, ruleID); ok {
			return e.bucket
		}
	}
	return ""
}
