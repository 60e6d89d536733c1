package classifier

import (
	"regexp"
	"sort"
	"strings"

	"github.com/samber/lo"
)

// DefaultSubjectAliases maps informal subject names (lowercase) to the
// canonical names used in curriculum data.
var DefaultSubjectAliases = map[string]string{
	"maths":             "Mathematics",
	"math":              "Mathematics",
	"bio":               "Biology",
	"physics":           "Physics",
	"chem":              "Chemistry",
	"cs":                "Computer Science",
	"computers":         "Computer Science",
	"comp":              "Computer Science",
	"informatics":       "Informatics Practices",
	"ip":                "Informatics Practices",
	"business":          "Business Studies",
	"accounts":          "Accountancy",
	"accounting":        "Accountancy",
	"eco":               "Economics",
	"social":            "Social",
	"political science": "Politics",
	"polsci":            "Politics",
}

type aliasPattern struct {
	alias string
	re    *regexp.Regexp
}

// AliasResolver is read-only after construction and safe for concurrent use.
type AliasResolver struct {
	table    map[string]string
	patterns []aliasPattern
}

func NewAliasResolver(table map[string]string) *AliasResolver {
	normalized := make(map[string]string, len(table))
	for alias, canonical := range table {
		normalized[strings.ToLower(strings.TrimSpace(alias))] = canonical
	}

	aliases := lo.Keys(normalized)
	sortByMatchPriority(aliases)

	patterns := lo.Map(aliases, func(alias string, _ int) aliasPattern {
		return aliasPattern{alias: alias, re: regexp.MustCompile(`\b` + regexp.QuoteMeta(alias) + `\b`)}
	})

	return &AliasResolver{table: normalized, patterns: patterns}
}

// Normalize maps an informal name to its canonical form. Unknown names pass
// through unchanged, so normalizing a canonical name is a no-op.
func (r *AliasResolver) Normalize(subject string) string {
	if subject == "" {
		return ""
	}
	if canonical, ok := r.table[strings.ToLower(subject)]; ok {
		return canonical
	}
	return subject
}

// FindAlias returns the highest-priority alias that appears as a whole word
// in the lowercased query.
func (r *AliasResolver) FindAlias(queryLower string) (string, bool) {
	for _, p := range r.patterns {
		if p.re.MatchString(queryLower) {
			return p.alias, true
		}
	}
	return "", false
}

// sortByMatchPriority orders candidates longest first, then ascending, so
// the most specific name wins when several match.
func sortByMatchPriority(names []string) {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
}
