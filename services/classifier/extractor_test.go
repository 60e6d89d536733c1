package classifier

import (
	"testing"

	"schooltutor/models"
	"schooltutor/services/curriculum"

	"github.com/stretchr/testify/assert"
)

func TestExtractQueryInfo(t *testing.T) {
	profiles := fakeProfiles{"with-standard": {Standard: "10"}, "with-other": {Standard: "9"}}
	e := NewExtractor(testCurriculum(), profiles, NewAliasResolver(DefaultSubjectAliases))

	tests := []struct {
		name      string
		query     string
		sessionID string
		expected  QueryInfo
	}{
		{name: "standard and subject in query", query: "chapters for Science in 10", expected: QueryInfo{Standard: "10", Subject: "Science"}},
		{name: "longest standard wins", query: "english in class 10", expected: QueryInfo{Standard: "10", Subject: "English"}},
		{name: "query standard beats profile", query: "Mathematics in 10", sessionID: "with-other", expected: QueryInfo{Standard: "10", Subject: "Mathematics"}},
		{name: "profile standard fallback", query: "mathematics chapters", sessionID: "with-standard", expected: QueryInfo{Standard: "10", Subject: "Mathematics"}},
		{name: "no standard anywhere", query: "mathematics chapters", expected: QueryInfo{Subject: "Mathematics"}},
		{name: "longest subject wins", query: "computer science syllabus", expected: QueryInfo{Subject: "Computer Science"}},
		{name: "alias is returned raw", query: "maths chapters", sessionID: "with-standard", expected: QueryInfo{Standard: "10", Subject: "maths"}},
		{name: "alias for subject missing from data", query: "Physics chapters", expected: QueryInfo{Subject: "physics"}},
		{name: "fuzzy part match", query: "chapters of computer", expected: QueryInfo{Subject: "Computer Science"}},
		{name: "no subject", query: "show chapters", sessionID: "with-standard", expected: QueryInfo{Standard: "10"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, e.ExtractQueryInfo(tt.query, tt.sessionID))
		})
	}
}

func TestExtractFuzzyIgnoresShortParts(t *testing.T) {
	store := curriculum.NewStore(models.CurriculumData{"8": {"Hindi A": {Chapters: []string{"Vasant"}}}})
	e := NewExtractor(store, fakeProfiles{}, NewAliasResolver(DefaultSubjectAliases))

	assert.Equal(t, "", e.ExtractQueryInfo("what is a noun", "").Subject)
	assert.Equal(t, "Hindi A", e.ExtractQueryInfo("hindi chapters", "").Subject)
}

func TestNormalize(t *testing.T) {
	r := NewAliasResolver(DefaultSubjectAliases)

	tests := []struct {
		input    string
		expected string
	}{
		{input: "maths", expected: "Mathematics"},
		{input: "MATHS", expected: "Mathematics"},
		{input: "Political Science", expected: "Politics"},
		{input: "cs", expected: "Computer Science"},
		{input: "Geography", expected: "Geography"},
		{input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, r.Normalize(tt.input))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	r := NewAliasResolver(DefaultSubjectAliases)

	for alias, canonical := range DefaultSubjectAliases {
		once := r.Normalize(alias)
		assert.Equal(t, canonical, once)
		assert.Equal(t, once, r.Normalize(once), "normalizing %q twice", alias)
	}
}

func TestFindAliasMatchesWholeWords(t *testing.T) {
	r := NewAliasResolver(DefaultSubjectAliases)

	tests := []struct {
		query string
		alias string
		found bool
	}{
		{query: "political science topics", alias: "political science", found: true},
		{query: "eco chapters", alias: "eco", found: true},
		{query: "second chapter", found: false},
		{query: "physics", alias: "physics", found: true},
		{query: "astrophysics", found: false},
		{query: "maths, please", alias: "maths", found: true},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			alias, found := r.FindAlias(tt.query)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.alias, alias)
		})
	}
}
