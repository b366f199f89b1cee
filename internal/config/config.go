package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Sena-ops/a11yguard/internal/diagnostics"
	"github.com/Sena-ops/a11yguard/internal/model"
	"github.com/Sena-ops/a11yguard/internal/wcag"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile é procurado no diretório atual quando --config não é informado.
	DefaultFile = ".a11yguard.yaml"
	// OutputDir guarda saídas brutas das engines e relatórios exportados.
	OutputDir = ".a11yguard"

	defaultConcurrency = 4
)

type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type DiagnosticsConfig struct {
	Enabled     bool `yaml:"enabled"`
	Concurrency int  `yaml:"concurrency"`
}

type BrowserConfig struct {
	Headless bool              `yaml:"headless"`
	ExecPath string            `yaml:"exec_path,omitempty"`
	Headers  map[string]string `yaml:"headers,omitempty"`
}

// Config modela o .a11yguard.yaml.
type Config struct {
	Viewport    ViewportConfig    `yaml:"viewport"`
	Diagnostics DiagnosticsConfig `yaml:"diagnostics"`
	Browser     BrowserConfig     `yaml:"browser"`
	// Engines executadas pelo comando scan, na ordem de prioridade.
	Engines []string `yaml:"engines"`
	// Commands sobrescreve o binário e os argumentos base de cada engine.
	Commands  map[string][]string `yaml:"commands,omitempty"`
	Aliases   string              `yaml:"aliases,omitempty"`
	Catalog   string              `yaml:"catalog,omitempty"`
	Checks    string              `yaml:"checks,omitempty"`
	OutputDir string              `yaml:"output_dir"`

	dir string
}

func Default() *Config {
	return &Config{
		Viewport:    ViewportConfig{Width: 1280, Height: 720},
		Diagnostics: DiagnosticsConfig{Enabled: true, Concurrency: defaultConcurrency},
		Browser:     BrowserConfig{Headless: true},
		Engines:     []string{string(model.ToolAxe), string(model.ToolPa11y), string(model.ToolLighthouse)},
		OutputDir:   OutputDir,
	}
}

// Load lê o arquivo de configuração. Com path vazio procura DefaultFile e,
// se ele não existir, devolve os padrões.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("ler config %s: %w", path, err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.dir = filepath.Dir(path)
	return cfg, nil
}

// Parse aplica o YAML sobre os padrões e valida o resultado.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("inválida: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		return fmt.Errorf("viewport deve ser positiva, obtido %dx%d", c.Viewport.Width, c.Viewport.Height)
	}
	if c.Diagnostics.Concurrency < 1 {
		return fmt.Errorf("diagnostics.concurrency deve ser >= 1, obtido %d", c.Diagnostics.Concurrency)
	}
	if _, err := c.ToolSources(); err != nil {
		return err
	}
	for name := range c.Commands {
		if _, ok := model.ParseToolSource(name); !ok {
			return fmt.Errorf("commands: engine desconhecida %q", name)
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = OutputDir
	}
	return nil
}

// ToolSources converte a lista de engines, sem duplicados e em ordem de prioridade.
func (c *Config) ToolSources() ([]model.ToolSource, error) {
	out := make([]model.ToolSource, 0, len(c.Engines))
	for _, e := range c.Engines {
		src, ok := model.ParseToolSource(e)
		if !ok {
			return nil, fmt.Errorf("engine desconhecida %q", e)
		}
		out = append(out, src)
	}
	return model.SortTools(out), nil
}

func (c *Config) ViewportSize() diagnostics.Viewport {
	return diagnostics.Viewport{Width: float64(c.Viewport.Width), Height: float64(c.Viewport.Height)}
}

// Command devolve o comando configurado para a engine, ou nil.
func (c *Config) Command(src model.ToolSource) []string {
	for name, argv := range c.Commands {
		if s, ok := model.ParseToolSource(name); ok && s == src && len(argv) > 0 {
			return argv
		}
	}
	return nil
}

// resolve interpreta caminhos relativos a partir do diretório do arquivo.
func (c *Config) resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.dir == "" {
		return p
	}
	return filepath.Join(c.dir, p)
}

func (c *Config) LoadCatalog() (*wcag.Catalog, error) {
	if c.Catalog == "" {
		return wcag.DefaultCatalog(), nil
	}
	cat, err := wcag.LoadCatalogFile(c.resolve(c.Catalog))
	if err != nil {
		return nil, fmt.Errorf("catálogo %s: %w", c.Catalog, err)
	}
	return cat, nil
}

func (c *Config) LoadAliases() (*wcag.AliasTable, error) {
	if c.Aliases == "" {
		return wcag.DefaultAliases(), nil
	}
	t, err := wcag.LoadAliasesFile(c.resolve(c.Aliases))
	if err != nil {
		return nil, fmt.Errorf("aliases %s: %w", c.Aliases, err)
	}
	return t, nil
}

// LoadChecks lê as respostas semi-automáticas configuradas; sem arquivo, nenhuma.
func (c *Config) LoadChecks() ([]model.SemiAutoCheck, error) {
	if c.Checks == "" {
		return nil, nil
	}
	return LoadChecksFile(c.resolve(c.Checks))
}
