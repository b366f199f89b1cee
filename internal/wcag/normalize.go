package wcag

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	// prefixo de nível seguido do critério: WCAG2AA.1.4.3, wcag21aa.1.4.10
	levelPrefixPattern = regexp.MustCompile(`(?i)^wcag2\d?a{1,3}\.([1-4])\.([1-9])\.(\d{1,2})(?:\.|$)`)
	// "1.4.3", "1.1.1 Non-text Content (Level A)", "WCAG21:1.4.10"
	dottedPattern = regexp.MustCompile(`(?:^|[^\d.])([1-4])\.([1-9])\.(\d{1,2})(?:[^\d.]|$)`)
	// tags do axe-core: wcag143, wcag1410
	axeTagPattern = regexp.MustCompile(`(?i)^wcag([1-4])([1-9])(\d{1,2})$`)
	// códigos do HTML_CodeSniffer (pa11y): WCAG2AA.Principle1.Guideline1_4.1_4_3.G18.Fail
	sniffPattern = regexp.MustCompile(`(?:^|\.)([1-4])_([1-9])_(\d{1,2})(?:\.|$)`)
)

// NormalizeCriterion converte tags de engines no formato pontuado ("1.4.3").
// Tags de nível (wcag2a, wcag21aa) e best-practice não são critérios.
func NormalizeCriterion(tag string) (string, bool) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return "", false
	}
	for _, p := range []*regexp.Regexp{axeTagPattern, levelPrefixPattern, sniffPattern, dottedPattern} {
		if m := p.FindStringSubmatch(tag); m != nil {
			return m[1] + "." + m[2] + "." + trimLeadingZero(m[3]), true
		}
	}
	return "", false
}

// NormalizeCriteria normaliza, remove duplicados e ordena numericamente.
// Nunca devolve nil.
func NormalizeCriteria(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := []string{}
	for _, t := range tags {
		c, ok := NormalizeCriterion(t)
		if !ok {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	SortCriteria(out)
	return out
}

// SortCriteria ordena "1.4.10" depois de "1.4.9".
func SortCriteria(cs []string) {
	sort.SliceStable(cs, func(i, j int) bool { return CompareCriteria(cs[i], cs[j]) < 0 })
}

func CompareCriteria(a, b string) int {
	pa, pb := strings.Split(a, "."), strings.Split(b, ".")
	for i := 0; i < len(pa) && i < len(pb); i++ {
		na, ea := strconv.Atoi(pa[i])
		nb, eb := strconv.Atoi(pb[i])
		if ea != nil || eb != nil {
			if pa[i] != pb[i] {
				return strings.Compare(pa[i], pb[i])
			}
			continue
		}
		if na != nb {
			if na < nb {
				return -1
			}
			return 1
		}
	}
	return len(pa) - len(pb)
}

func trimLeadingZero(s string) string {
	if len(s) > 1 && s[0] == '0' {
		return s[1:]
	}
	return s
}
