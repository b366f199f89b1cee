package parser

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/Sena-ops/a11yguard/internal/model"
)

// ResultFile é um arquivo de saída bruta de uma engine.
type ResultFile struct {
	Source model.ToolSource
	Path   string
}

// DetectEngine analisa o conteúdo JSON para descobrir qual engine o gerou.
func DetectEngine(b []byte) (model.ToolSource, bool) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(b, &obj); err == nil {
		return detectObject(obj)
	}

	var arr []map[string]json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil || len(arr) == 0 {
		return "", false
	}
	first := arr[0]
	switch {
	case has(first, "violations"), has(first, "testEngine"):
		return model.ToolAxe, true
	case has(first, "typeCode"), has(first, "runner") && has(first, "selector"):
		return model.ToolPa11y, true
	case has(first, "outcome") && has(first, "rule"):
		return model.ToolAlfa, true
	case has(first, "wcagCriteria"):
		return model.ToolCustom, true
	}
	return "", false
}

func detectObject(obj map[string]json.RawMessage) (model.ToolSource, bool) {
	switch {
	case has(obj, "lighthouseVersion"):
		return model.ToolLighthouse, true
	case has(obj, "testEngine"), has(obj, "violations") && has(obj, "passes"):
		return model.ToolAxe, true
	case has(obj, "issues") && has(obj, "pageUrl"):
		return model.ToolPa11y, true
	case has(obj, "results") && has(obj, "summary"):
		return model.ToolIBM, true
	case has(obj, "outcomes"):
		return model.ToolAlfa, true
	case has(obj, "categories") && has(obj, "statistics"):
		return model.ToolWave, true
	case has(obj, "modules"):
		return model.ToolQualWeb, true
	case has(obj, "findings"):
		return model.ToolCustom, true
	}
	// QualWeb agrupa por URL: {"https://...": {"modules": ...}}
	for k, v := range obj {
		if !strings.HasPrefix(k, "http") {
			continue
		}
		var inner map[string]json.RawMessage
		if json.Unmarshal(v, &inner) == nil && has(inner, "modules") {
			return model.ToolQualWeb, true
		}
	}
	return "", false
}

func has(m map[string]json.RawMessage, key string) bool {
	_, ok := m[key]
	return ok
}

// DetectFile tenta primeiro o nome do arquivo (axe-results.json) e depois o conteúdo.
func DetectFile(path string) (model.ToolSource, bool) {
	base := strings.ToLower(filepath.Base(path))
	name := strings.TrimSuffix(base, filepath.Ext(base))
	for _, sep := range []string{"-", "_", "."} {
		if src, ok := model.ParseToolSource(strings.SplitN(name, sep, 2)[0]); ok {
			return src, true
		}
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return DetectEngine(b)
}

// DetectResultFiles lista os arquivos .json de um diretório com a engine de cada um.
// Arquivos que não forem reconhecidos são ignorados.
func DetectResultFiles(dir string, recursive bool) ([]ResultFile, error) {
	var out []ResultFile
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && !recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), ".json") {
			return nil
		}
		if src, ok := DetectFile(path); ok {
			out = append(out, ResultFile{Source: src, Path: path})
		}
		return nil
	})
	return out, err
}
