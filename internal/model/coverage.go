package model

import (
	"fmt"
	"math"
)

type Level string

const (
	LevelA   Level = "A"
	LevelAA  Level = "AA"
	LevelAAA Level = "AAA"
)

type Method string

const (
	MethodAuto      Method = "auto"
	MethodSemiAuto  Method = "semi-auto"
	MethodManual    Method = "manual"
	MethodNotTested Method = "not-tested"
)

type Result string

const (
	ResultFail          Result = "fail"
	ResultNeedsReview   Result = "needs-review"
	ResultPass          Result = "pass"
	ResultNotApplicable Result = "not-applicable"
)

// Rank segue a precedência fail > needs-review > pass > not-applicable.
func (r Result) Rank() int {
	switch r {
	case ResultFail:
		return 3
	case ResultNeedsReview:
		return 2
	case ResultPass:
		return 1
	default:
		return 0
	}
}

// Rank segue auto > semi-auto > manual > not-tested.
func (m Method) Rank() int {
	switch m {
	case MethodAuto:
		return 3
	case MethodSemiAuto:
		return 2
	case MethodManual:
		return 1
	default:
		return 0
	}
}

type CriterionStatus struct {
	Criterion string       `json:"criterion"`
	Level     Level        `json:"level"`
	Title     string       `json:"title"`
	Method    Method       `json:"method"`
	Result    Result       `json:"result"`
	Tools     []ToolSource `json:"tools"`
}

type LevelSummary struct {
	Covered int `json:"covered"`
	Total   int `json:"total"`
}

// Percentage arredonda para uma casa decimal; total zero vale 0.
func (s LevelSummary) Percentage() float64 {
	if s.Total == 0 {
		return 0
	}
	return math.Round(float64(s.Covered)/float64(s.Total)*1000) / 10
}

// FormatPercentage é a forma de exibição, ex: "66.7".
func (s LevelSummary) FormatPercentage() string {
	return fmt.Sprintf("%.1f", s.Percentage())
}

type CoverageSummary struct {
	LevelA   LevelSummary `json:"levelA"`
	LevelAA  LevelSummary `json:"levelAA"`
	LevelAAA LevelSummary `json:"levelAAA"`
}

// ForLevel devolve o ponteiro para o resumo do nível.
func (s *CoverageSummary) ForLevel(l Level) *LevelSummary {
	switch l {
	case LevelA:
		return &s.LevelA
	case LevelAA:
		return &s.LevelAA
	case LevelAAA:
		return &s.LevelAAA
	}
	return nil
}

type CoverageMatrix struct {
	Criteria []CriterionStatus `json:"criteria"`
	Summary  CoverageSummary   `json:"summary"`
	// Unmapped lista critérios citados por findings mas ausentes do catálogo.
	Unmapped []string `json:"unmapped,omitempty"`
}

type Answer string

const (
	AnswerYes        Answer = "yes"
	AnswerNo         Answer = "no"
	AnswerNA         Answer = "na"
	AnswerUnanswered Answer = ""
)

// SemiAutoCheck é a resposta humana a um item de verificação semi-automática.
type SemiAutoCheck struct {
	ID        string `json:"id" yaml:"id"`
	Criterion string `json:"criterion" yaml:"criterion"`
	Answer    Answer `json:"answer" yaml:"answer"`
}
