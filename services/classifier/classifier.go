package classifier

import (
	"strings"

	"schooltutor/models"
	"schooltutor/services/curriculum"

	"github.com/samber/lo"
)

type Intent string

const (
	IntentStandards  Intent = "standards"
	IntentCurriculum Intent = "curriculum"
	IntentTutoring   Intent = "tutoring"
)

var StandardsKeywords = []string{
	"what standards", "which standards", "available standards",
	"what classes", "which classes", "available classes",
	"list standards", "show standards", "tell me standards",
	"what standard", "which standard", "tell me the standards",
	"tell me the curriculum",
}

var CurriculumKeywords = []string{
	"what chapters", "list chapters", "show chapters",
	"which chapters", "chapters in", "tell me chapters",
	"syllabus", "curriculum", "what are the chapters",
	"tell me the chapters", "chapters", "chapter",
	"topics", "what topics", "subject content",
	"what is in", "what do we study in",
}

// Input is everything a rule may look at.
type Input struct {
	QueryLower string
	Profile    models.SessionProfile
	Snapshot   *curriculum.Snapshot
}

// Rule is one entry of the priority-ordered chain; the first rule whose
// Match returns true decides the intent.
type Rule struct {
	Intent Intent
	Match  func(in Input) bool
}

type Classifier struct {
	curriculum SnapshotProvider
	profiles   ProfileReader
	aliases    *AliasResolver
	rules      []Rule
}

func NewClassifier(curriculum SnapshotProvider, profiles ProfileReader, aliases *AliasResolver) *Classifier {
	c := &Classifier{curriculum: curriculum, profiles: profiles, aliases: aliases}
	c.rules = []Rule{
		{Intent: IntentStandards, Match: isStandardsQuery},
		{Intent: IntentCurriculum, Match: c.isCurriculumQuery},
	}
	return c
}

func (c *Classifier) Classify(query, sessionID string) Intent {
	return c.ClassifyWith(c.curriculum.Snapshot(), query, c.profiles.GetUserData(sessionID))
}

// ClassifyWith is total: anything no rule claims is a tutoring query.
func (c *Classifier) ClassifyWith(snap *curriculum.Snapshot, query string, profile models.SessionProfile) Intent {
	in := Input{
		QueryLower: strings.ToLower(strings.TrimSpace(query)),
		Profile:    profile,
		Snapshot:   snap,
	}
	for _, rule := range c.rules {
		if rule.Match(in) {
			return rule.Intent
		}
	}
	return IntentTutoring
}

func isStandardsQuery(in Input) bool {
	return containsAny(in.QueryLower, StandardsKeywords)
}

// A subject mention alone could be small talk; it needs either an explicit
// curriculum keyword or a standard already known for the session.
func (c *Classifier) isCurriculumQuery(in Input) bool {
	if !c.MentionsSubject(in.Snapshot, in.QueryLower) {
		return false
	}
	return containsAny(in.QueryLower, CurriculumKeywords) || in.Profile.Standard != ""
}

// MentionsSubject reports whether the lowercased query names a known subject
// or one of its aliases.
func (c *Classifier) MentionsSubject(snap *curriculum.Snapshot, queryLower string) bool {
	mentioned := lo.ContainsBy(snap.AllSubjects(), func(subject string) bool {
		s := strings.ToLower(subject)
		if s == "" {
			return false
		}
		return strings.Contains(queryLower, s) ||
			strings.HasSuffix(queryLower, s) ||
			strings.HasPrefix(queryLower, s)
	})
	if mentioned {
		return true
	}
	_, ok := c.aliases.FindAlias(queryLower)
	return ok
}

func containsAny(s string, keywords []string) bool {
	return lo.ContainsBy(keywords, func(keyword string) bool {
		return strings.Contains(s, keyword)
	})
}
