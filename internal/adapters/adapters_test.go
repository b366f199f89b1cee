package adapters

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Sena-ops/a11yguard/internal/model"
)

const axeSample = `{
  "url": "https://example.com",
  "violations": [{
    "id": "color-contrast",
    "impact": "serious",
    "tags": ["cat.color", "wcag2aa", "wcag143"],
    "description": "Ensures the contrast between foreground and background colors meets WCAG 2 AA",
    "help": "Elements must have sufficient color contrast",
    "helpUrl": "https://dequeuniversity.com/rules/axe/4.8/color-contrast",
    "nodes": [
      {"html": "<a class=\"icon\">x</a>", "target": ["#main > div.links > a.icon"], "failureSummary": "Fix any of the following: low contrast"},
      {"html": "<p>y</p>", "target": [["iframe#f", "p.note"]], "failureSummary": "Fix any of the following: low contrast"}
    ]
  }],
  "passes": [{
    "id": "image-alt", "impact": null, "tags": ["wcag2a", "wcag111"],
    "help": "Images must have alternate text",
    "nodes": [{"html": "<img alt=\"logo\">", "target": ["img"], "failureSummary": "should not leak"}]
  }],
  "incomplete": [],
  "inapplicable": [{"id": "video-caption", "tags": ["wcag2a", "wcag122"], "nodes": []}]
}`

func TestParseAxeBytes(t *testing.T) {
	fs, err := ParseAxeBytes([]byte(axeSample))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 {
		t.Fatalf("esperado 3 findings, obtido %d", len(fs))
	}

	v := fs[0]
	if v.Outcome != model.OutcomeViolation || v.ID != "color-contrast" {
		t.Errorf("violação inesperada: %+v", v)
	}
	if v.NodeCount != 2 || len(v.Nodes) != 2 {
		t.Errorf("esperado nodeCount 2, obtido %d/%d", v.NodeCount, len(v.Nodes))
	}
	if !reflect.DeepEqual(v.WCAGCriteria, []string{"1.4.3"}) {
		t.Errorf("critérios inesperados: %v", v.WCAGCriteria)
	}
	if v.Nodes[0].Target != "#main > div.links > a.icon" {
		t.Errorf("target inesperado: %q", v.Nodes[0].Target)
	}
	if v.Nodes[1].Target != "iframe#f > p.note" {
		t.Errorf("target aninhado inesperado: %q", v.Nodes[1].Target)
	}
	if v.Nodes[0].FailureSummary == "" {
		t.Error("failureSummary do axe deve ser preservado")
	}
	if v.Impact != model.ImpactSerious {
		t.Errorf("impacto inesperado %q", v.Impact)
	}

	p := fs[1]
	if p.Outcome != model.OutcomePass || p.Nodes[0].FailureSummary != "" {
		t.Errorf("pass não deve carregar failureSummary: %+v", p)
	}
	if p.Impact != "" {
		t.Errorf("impacto null deve virar vazio, obtido %q", p.Impact)
	}
	if fs[2].Outcome != model.OutcomeInapplicable {
		t.Errorf("esperado inapplicable, obtido %s", fs[2].Outcome)
	}
}

func TestParseAxeBytesCLIArray(t *testing.T) {
	fs, err := ParseAxeBytes([]byte("[" + axeSample + "," + axeSample + "]"))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 6 {
		t.Errorf("esperado 6 findings, obtido %d", len(fs))
	}
}

func TestParseAxeBytesTruncatesHTML(t *testing.T) {
	long := strings.Repeat("a", 400)
	raw := `{"violations":[{"id":"x","tags":["wcag412"],"nodes":[{"html":"` + long + `","target":["div"]}]}]}`
	fs, err := ParseAxeBytes([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	html := fs[0].Nodes[0].HTML
	if len(html) > model.MaxHTMLLength || !strings.HasSuffix(html, "...") {
		t.Errorf("html não truncado: len=%d", len(html))
	}
}

const pa11ySample = `[
  {"code": "WCAG2AA.Principle1.Guideline1_4.1_4_3.G18.Fail", "type": "error", "typeCode": 1,
   "message": "This element has insufficient contrast", "context": "<a class=\"icon\">x</a>",
   "selector": "#main > div.links > a.icon", "runner": "htmlcs"},
  {"code": "WCAG2AA.Principle1.Guideline1_1.1_1_1.H37", "type": "warning", "message": "Img alt"},
  {"code": "WCAG2AA.Principle2.Guideline2_4.2_4_2.H25.2", "type": "notice", "message": "Check title"},
  {"code": "color-contrast", "type": "error", "message": "axe runner", "selector": "p", "context": "<p>",
   "runner": "axe", "runnerExtras": {"impact": "serious", "helpUrl": "https://dequeuniversity.com/rules/axe/4.8/color-contrast"}}
]`

func TestParsePa11yBytes(t *testing.T) {
	fs, err := ParsePa11yBytes([]byte(pa11ySample))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 {
		t.Fatalf("notices devem ser ignorados: esperado 3, obtido %d", len(fs))
	}
	for _, f := range fs {
		if f.NodeCount != 1 || len(f.Nodes) != 1 {
			t.Errorf("%s: pa11y deve ter exatamente um nó", f.ID)
		}
		if f.Nodes[0].FailureSummary != "" {
			t.Errorf("%s: pa11y não deve fabricar failureSummary", f.ID)
		}
	}
	if fs[0].Outcome != model.OutcomeViolation || !reflect.DeepEqual(fs[0].WCAGCriteria, []string{"1.4.3"}) {
		t.Errorf("erro htmlcs inesperado: %+v", fs[0])
	}
	if fs[1].Outcome != model.OutcomeIncomplete {
		t.Errorf("warning deve virar incomplete, obtido %s", fs[1].Outcome)
	}
	if fs[1].Nodes[0].Target != "" || fs[1].Nodes[0].HTML != "" {
		t.Errorf("selector/context ausentes devem virar string vazia: %+v", fs[1].Nodes[0])
	}
	if !reflect.DeepEqual(fs[2].WCAGCriteria, []string{"1.4.3"}) || fs[2].Impact != model.ImpactSerious {
		t.Errorf("runner axe deve usar a tabela de regras: %+v", fs[2])
	}
}

func TestParsePa11yBytesObject(t *testing.T) {
	fs, err := ParsePa11yBytes([]byte(`{"pageUrl":"https://x","issues":` + pa11ySample + `}`))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 {
		t.Errorf("esperado 3, obtido %d", len(fs))
	}
}

const lighthouseSample = `{
  "lighthouseVersion": "11.4.0",
  "categories": {
    "performance": {"id": "performance", "score": 0.874, "auditRefs": []},
    "accessibility": {"id": "accessibility", "score": 0.9, "auditRefs": [
      {"id": "image-alt"}, {"id": "color-contrast"}, {"id": "document-title"},
      {"id": "focus-traps"}, {"id": "video-caption"}, {"id": "bypass"}, {"id": "missing-audit"}
    ]},
    "seo": {"id": "seo", "score": null, "auditRefs": []}
  },
  "audits": {
    "image-alt": {"id": "image-alt", "title": "Image elements have [alt] attributes",
      "description": "Informative elements should aim for short text. [Learn more](https://dequeuniversity.com/rules/axe/4.8/image-alt).",
      "score": 0, "scoreDisplayMode": "binary",
      "details": {"type": "table", "items": [{"node": {"selector": "body > img", "snippet": "<img src=\"a.png\">"}}]}},
    "color-contrast": {"id": "color-contrast", "title": "Contrast", "score": 0, "scoreDisplayMode": "binary"},
    "document-title": {"id": "document-title", "title": "Title", "score": 1, "scoreDisplayMode": "binary"},
    "focus-traps": {"id": "focus-traps", "title": "Focus traps", "score": null, "scoreDisplayMode": "manual"},
    "video-caption": {"id": "video-caption", "title": "Captions", "score": null, "scoreDisplayMode": "notApplicable"},
    "bypass": {"id": "bypass", "title": "Bypass", "score": null, "scoreDisplayMode": "informative"}
  }
}`

func TestParseLighthouseBytes(t *testing.T) {
	fs, err := ParseLighthouseBytes([]byte(lighthouseSample))
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		id      string
		outcome model.Outcome
		reason  string
		nodes   int
	}{
		{"image-alt", model.OutcomeViolation, "", 1},
		{"color-contrast", model.OutcomeIncomplete, model.ReasonInsufficientData, 0},
		{"document-title", model.OutcomePass, "", 0},
		{"focus-traps", model.OutcomeIncomplete, model.ReasonManualReview, 0},
		{"video-caption", model.OutcomeInapplicable, "", 0},
		{"bypass", model.OutcomeIncomplete, model.ReasonPartialSupport, 0},
	}
	if len(fs) != len(want) {
		t.Fatalf("esperado %d findings, obtido %d", len(want), len(fs))
	}
	for i, w := range want {
		f := fs[i]
		if f.ID != w.id || f.Outcome != w.outcome || f.ClassificationReason != w.reason || f.NodeCount != w.nodes {
			t.Errorf("%s: obtido id=%s outcome=%s reason=%q nodes=%d", w.id, f.ID, f.Outcome, f.ClassificationReason, f.NodeCount)
		}
	}
	if fs[0].HelpURL != "https://dequeuniversity.com/rules/axe/4.8/image-alt" {
		t.Errorf("helpUrl inesperado: %q", fs[0].HelpURL)
	}
	if !reflect.DeepEqual(fs[0].WCAGCriteria, []string{"1.1.1"}) {
		t.Errorf("critérios inesperados: %v", fs[0].WCAGCriteria)
	}
	if fs[0].Nodes[0].Target != "body > img" {
		t.Errorf("target inesperado: %q", fs[0].Nodes[0].Target)
	}
}

func TestParseLighthouseScores(t *testing.T) {
	s, err := ParseLighthouseScores([]byte(lighthouseSample))
	if err != nil {
		t.Fatal(err)
	}
	if s.Performance == nil || *s.Performance != 87 {
		t.Errorf("performance inesperada: %v", s.Performance)
	}
	if s.Accessibility == nil || *s.Accessibility != 90 {
		t.Errorf("accessibility inesperada: %v", s.Accessibility)
	}
	if s.SEO != nil || s.BestPractices != nil {
		t.Error("categorias sem nota devem ficar nil")
	}
}

func TestParseIBMBytes(t *testing.T) {
	raw := `{"results": [
	  {"ruleId": "img_alt_valid", "value": ["VIOLATION", "FAIL"], "path": {"dom": "/html[1]/body[1]/img[1]"}, "message": "Missing alt", "snippet": "<img src=\"a\">"},
	  {"ruleId": "img_alt_valid", "value": ["VIOLATION", "FAIL"], "path": {"dom": "/html[1]/body[1]/img[2]"}, "message": "Missing alt", "snippet": "<img src=\"b\">"},
	  {"ruleId": "text_contrast_sufficient", "value": ["VIOLATION", "POTENTIAL"], "path": {"dom": "/html[1]/body[1]/p[1]"}},
	  {"ruleId": "html_lang_exists", "value": ["VIOLATION", "PASS"], "path": {"dom": "/html[1]"}},
	  {"ruleId": "broken", "value": ["VIOLATION"]}
	]}`
	fs, err := ParseIBMBytes([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 {
		t.Fatalf("esperado 3 grupos, obtido %d", len(fs))
	}
	if fs[0].NodeCount != 2 || fs[0].Outcome != model.OutcomeViolation {
		t.Errorf("grupo img_alt_valid inesperado: %+v", fs[0])
	}
	if fs[0].Nodes[1].XPath == nil || *fs[0].Nodes[1].XPath != "/html[1]/body[1]/img[2]" {
		t.Error("xpath do checker deve ser preservado")
	}
	if fs[0].Nodes[1].Target != "" {
		t.Errorf("target é caminho CSS e deve ficar vazio, obtido %q", fs[0].Nodes[1].Target)
	}
	if fs[1].Outcome != model.OutcomeIncomplete || fs[1].ClassificationReason != model.ReasonInsufficientData {
		t.Errorf("POTENTIAL deve virar incomplete: %+v", fs[1])
	}
	if fs[2].Outcome != model.OutcomePass || !reflect.DeepEqual(fs[2].WCAGCriteria, []string{"3.1.1"}) {
		t.Errorf("pass inesperado: %+v", fs[2])
	}
}

func TestParseAlfaBytes(t *testing.T) {
	raw := `[
	  {"outcome": "failed", "rule": {"uri": "https://alfa.siteimprove.com/rules/sia-r2"}, "target": {"path": "/html/body/img"}},
	  {"outcome": "passed", "rule": {"uri": "https://alfa.siteimprove.com/rules/sia-r1", "requirements": [{"chapter": "2.4.2"}]}, "target": {"path": "/html/head/title"}},
	  {"outcome": "cantTell", "rule": {"uri": "https://alfa.siteimprove.com/rules/sia-r69"}, "target": {"path": "/html/body/p"}},
	  {"outcome": "inapplicable", "rule": {"uri": "https://alfa.siteimprove.com/rules/sia-r13"}}
	]`
	fs, err := ParseAlfaBytes([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 4 {
		t.Fatalf("esperado 4, obtido %d", len(fs))
	}
	if fs[0].ID != "sia-r2" || !reflect.DeepEqual(fs[0].WCAGCriteria, []string{"1.1.1"}) || fs[0].NodeCount != 1 {
		t.Errorf("sia-r2 inesperado: %+v", fs[0])
	}
	if n := fs[0].Nodes[0]; n.Target != "" || n.XPath == nil || *n.XPath != "/html/body/img" {
		t.Errorf("alfa localiza por XPath, nó inesperado: %+v", n)
	}
	if !reflect.DeepEqual(fs[1].WCAGCriteria, []string{"2.4.2"}) {
		t.Errorf("requirements devem ter prioridade: %v", fs[1].WCAGCriteria)
	}
	if fs[2].Outcome != model.OutcomeIncomplete || fs[3].Outcome != model.OutcomeInapplicable {
		t.Error("cantTell/inapplicable mal classificados")
	}
}

func TestParseQualWebBytes(t *testing.T) {
	raw := `{"https://example.com": {"modules": {"act-rules": {"assertions": {
	  "QW-ACT-R37": {"code": "QW-ACT-R37", "name": "Text has minimum contrast",
	    "metadata": {"outcome": "failed", "url": "https://act-rules.github.io/rules/afw4f7", "success-criteria": [{"name": "1.4.3", "level": "AA"}]},
	    "results": [
	      {"verdict": "failed", "elements": [{"pointer": "html > body > p:nth-child(2)", "htmlCode": "<p>low</p>"}]},
	      {"verdict": "passed", "elements": [{"pointer": "h1", "htmlCode": "<h1>ok</h1>"}]}
	    ]},
	  "QW-ACT-R1": {"code": "QW-ACT-R1", "name": "HTML Page has a title",
	    "metadata": {"outcome": "passed", "success-criteria": [{"name": "2.4.2"}]}, "results": []}
	}}}}}`
	fs, err := ParseQualWebBytes([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 2 {
		t.Fatalf("esperado 2, obtido %d", len(fs))
	}
	// códigos ordenados: R1 antes de R37
	if fs[0].ID != "QW-ACT-R1" || fs[0].Outcome != model.OutcomePass {
		t.Errorf("R1 inesperado: %+v", fs[0])
	}
	if fs[1].NodeCount != 1 || fs[1].Nodes[0].Target != "html > body > p:nth-child(2)" {
		t.Errorf("só elementos com o veredito da asserção devem entrar: %+v", fs[1].Nodes)
	}
}

func TestParseWaveBytes(t *testing.T) {
	raw := `{"status": {"success": true}, "categories": {
	  "error": {"count": 2, "items": {"alt_missing": {"id": "alt_missing", "description": "Missing alternative text", "count": 2,
	     "selectors": ["body > img:nth-child(1)", "body > img:nth-child(2)"],
	     "wcag": [{"name": "1.1.1 Non-text Content (Level A)", "link": "https://www.w3.org/WAI/WCAG21/Understanding/non-text-content"}]}}},
	  "contrast": {"count": 3, "items": {"contrast": {"id": "contrast", "description": "Very low contrast", "count": 3}}},
	  "alert": {"count": 1, "items": {"heading_skipped": {"id": "heading_skipped", "count": 1}}},
	  "structure": {"count": 9, "items": {"h1": {"id": "h1", "count": 1}}}
	}}`
	fs, err := ParseWaveBytes([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 3 {
		t.Fatalf("esperado 3, obtido %d", len(fs))
	}
	if fs[0].NodeCount != 2 || len(fs[0].Nodes) != 2 || !reflect.DeepEqual(fs[0].WCAGCriteria, []string{"1.1.1"}) {
		t.Errorf("alt_missing inesperado: %+v", fs[0])
	}
	if fs[1].NodeCount != 3 || fs[1].Nodes != nil || !reflect.DeepEqual(fs[1].WCAGCriteria, []string{"1.4.3"}) {
		t.Errorf("contrast sem seletores deve manter a contagem: %+v", fs[1])
	}
	if fs[2].Outcome != model.OutcomeIncomplete {
		t.Errorf("alert deve virar incomplete: %+v", fs[2])
	}
}

func TestParseCustomBytes(t *testing.T) {
	raw := `[{"id": "manual-captions", "description": "Captions reviewed", "wcagCriteria": ["1.2.2"], "outcome": "pass", "impact": "CRITICAL"}]`
	fs, err := Normalize(model.ToolCustom, []byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if len(fs) != 1 || fs[0].ToolSource != model.ToolCustom || fs[0].Impact != model.ImpactCritical {
		t.Errorf("custom inesperado: %+v", fs)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		src     model.ToolSource
		raw     string
		wantErr bool
	}{
		{"engine_sem_saida", model.ToolAxe, "", false},
		{"null", model.ToolPa11y, "null", false},
		{"json_invalido", model.ToolLighthouse, "{not json", true},
		{"engine_desconhecida", model.ToolSource("nope"), "{}", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, err := Normalize(tt.src, []byte(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Errorf("erro inesperado: %v", err)
			}
			if fs == nil || len(fs) != 0 {
				t.Errorf("esperada lista vazia não-nil, obtido %v", fs)
			}
		})
	}
}

func TestNormalizeInvariants(t *testing.T) {
	for _, src := range []model.ToolSource{model.ToolAxe, model.ToolPa11y, model.ToolLighthouse} {
		var raw string
		switch src {
		case model.ToolAxe:
			raw = axeSample
		case model.ToolPa11y:
			raw = pa11ySample
		default:
			raw = lighthouseSample
		}
		fs, err := Normalize(src, []byte(raw))
		if err != nil {
			t.Fatal(err)
		}
		for _, f := range fs {
			if f.ToolSource != src {
				t.Errorf("%s: toolSource %s", f.ID, f.ToolSource)
			}
			if f.Nodes != nil && f.NodeCount != len(f.Nodes) {
				t.Errorf("%s: nodeCount %d != %d", f.ID, f.NodeCount, len(f.Nodes))
			}
			if f.WCAGCriteria == nil {
				t.Errorf("%s: wcagCriteria nil", f.ID)
			}
		}
	}
}

func TestSources(t *testing.T) {
	got := Sources()
	if len(got) != len(model.AllTools) {
		t.Fatalf("esperado %d engines, obtido %d", len(model.AllTools), len(got))
	}
	for i, s := range model.AllTools {
		if got[i] != s {
			t.Errorf("posição %d: esperado %s, obtido %s", i, s, got[i])
		}
	}
}

func TestParseFiles(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name  string
		raw   string
		file  func(string) ([]model.Finding, error)
		bytes ParseFunc
	}{
		{"axe", axeSample, ParseAxeFile, ParseAxeBytes},
		{"pa11y", pa11ySample, ParsePa11yFile, ParsePa11yBytes},
		{"lighthouse", lighthouseSample, ParseLighthouseFile, ParseLighthouseBytes},
		{"ibm", `{}`, ParseIBMFile, ParseIBMBytes},
		{"alfa", `{}`, ParseAlfaFile, ParseAlfaBytes},
		{"qualweb", `{}`, ParseQualWebFile, ParseQualWebBytes},
		{"wave", `{}`, ParseWaveFile, ParseWaveBytes},
		{"custom", `{}`, ParseCustomFile, ParseCustomBytes},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.raw), 0o644); err != nil {
				t.Fatal(err)
			}
			got, err := tt.file(path)
			if err != nil {
				t.Fatalf("erro inesperado: %v", err)
			}
			want, _ := tt.bytes([]byte(tt.raw))
			if !reflect.DeepEqual(got, want) {
				t.Errorf("arquivo e bytes divergem:\n%+v\n%+v", got, want)
			}
			if _, err := tt.file(filepath.Join(dir, "nao-existe.json")); err == nil {
				t.Error("arquivo ausente deve falhar")
			}
		})
	}
}

func TestSplitSelector(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"html > body > a", "html > body > a"},
		{"html>body>a", "html > body > a"},
		{`a[title="a>b"]`, `a[title="a>b"]`},
		{`div > a[title='x > y'] > span`, `div > a[title='x > y'] > span`},
		{"ul > li:not(.a > .b) > a", "ul > li:not(.a > .b) > a"},
		{`a[data-x="say \"hi\" > ok"]`, `a[data-x="say \"hi\" > ok"]`},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := model.JoinTarget(splitSelector(tt.in)); got != tt.want {
				t.Errorf("obtido %q, esperado %q", got, tt.want)
			}
		})
	}

	fs, err := ParsePa11yBytes([]byte(`[{"code": "WCAG2AA.Principle2.Guideline2_4.2_4_4.H77,H78,H79,H80,H81", "type": "error", "selector": "#nav > a[title=\"a>b\"]"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if got := fs[0].Nodes[0].Target; got != `#nav > a[title="a>b"]` {
		t.Errorf("target do pa11y inesperado: %q", got)
	}
}

func TestNormalizeMarksBestPractice(t *testing.T) {
	raw := `{"violations": [
	  {"id": "region", "impact": "moderate", "tags": ["cat.keyboard", "best-practice"], "nodes": [{"html": "<div>", "target": ["div"]}]},
	  {"id": "color-contrast", "impact": "serious", "tags": ["wcag2aa", "wcag143"], "nodes": [{"html": "<a>", "target": ["a"]}]}
	]}`
	fs, err := Normalize(model.ToolAxe, []byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	got := map[string]bool{}
	for _, f := range fs {
		got[f.ID] = f.BestPractice
		if f.BestPractice != (len(f.WCAGCriteria) == 0) {
			t.Errorf("%s: bestPractice=%v com critérios %v", f.ID, f.BestPractice, f.WCAGCriteria)
		}
	}
	if want := map[string]bool{"region": true, "color-contrast": false}; !reflect.DeepEqual(got, want) {
		t.Errorf("bestPractice = %v, esperado %v", got, want)
	}
}
