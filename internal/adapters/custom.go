package adapters

import (
	"encoding/json"

	"github.com/Sena-ops/a11yguard/internal/model"
)

type customJSON struct {
	Findings []model.Finding `json:"findings"`
}

// ParseCustomBytes lê findings já no formato canônico (asserções manuais ou
// checagens próprias). Os nós passam pelo mesmo truncamento das demais engines.
func ParseCustomBytes(b []byte) ([]model.Finding, error) {
	var fs []model.Finding
	if isJSONArray(b) {
		if err := json.Unmarshal(b, &fs); err != nil {
			return nil, err
		}
	} else {
		var doc customJSON
		if err := json.Unmarshal(b, &doc); err != nil {
			return nil, err
		}
		fs = doc.Findings
	}
	for i := range fs {
		fs[i].ToolSource = model.ToolCustom
		fs[i].Impact = model.ParseImpact(string(fs[i].Impact))
		for j := range fs[i].Nodes {
			fs[i].Nodes[j].HTML = model.TruncateHTML(fs[i].Nodes[j].HTML)
		}
	}
	return fs, nil
}

func ParseCustomFile(path string) ([]model.Finding, error) {
	return readFile(path, ParseCustomBytes)
}
