package classifier

import (
	"strings"

	"schooltutor/models"
	"schooltutor/services/curriculum"
)

// Fuzzy subject parts shorter than this are ignored so that words like "of"
// or a single-letter section do not match every query.
const minFuzzyPartLength = 3

type SnapshotProvider interface {
	Snapshot() *curriculum.Snapshot
}

type ProfileReader interface {
	GetUserData(sessionID string) models.SessionProfile
}

// QueryInfo is what a query refers to. Subject is the raw matched text and
// still needs alias normalization.
type QueryInfo struct {
	Standard string
	Subject  string
}

type Extractor struct {
	curriculum SnapshotProvider
	profiles   ProfileReader
	aliases    *AliasResolver
}

func NewExtractor(curriculum SnapshotProvider, profiles ProfileReader, aliases *AliasResolver) *Extractor {
	return &Extractor{curriculum: curriculum, profiles: profiles, aliases: aliases}
}

func (e *Extractor) ExtractQueryInfo(query, sessionID string) QueryInfo {
	return e.Extract(e.curriculum.Snapshot(), query, e.profiles.GetUserData(sessionID))
}

// Extract resolves the standard from the query, falling back to the profile,
// and the subject from the query alone.
func (e *Extractor) Extract(snap *curriculum.Snapshot, query string, profile models.SessionProfile) QueryInfo {
	queryLower := strings.ToLower(query)

	standard := findStandard(snap, queryLower)
	if standard == "" {
		standard = profile.Standard
	}

	return QueryInfo{
		Standard: standard,
		Subject:  e.findSubject(snap, queryLower),
	}
}

func (e *Extractor) Normalize(subject string) string {
	return e.aliases.Normalize(subject)
}

func findStandard(snap *curriculum.Snapshot, queryLower string) string {
	standards := snap.Standards()
	sortByMatchPriority(standards)
	for _, std := range standards {
		if std != "" && strings.Contains(queryLower, strings.ToLower(std)) {
			return std
		}
	}
	return ""
}

func (e *Extractor) findSubject(snap *curriculum.Snapshot, queryLower string) string {
	subjects := snap.AllSubjects()
	sortByMatchPriority(subjects)

	for _, subject := range subjects {
		if subject != "" && strings.Contains(queryLower, strings.ToLower(subject)) {
			return subject
		}
	}

	if alias, ok := e.aliases.FindAlias(queryLower); ok {
		return alias
	}

	for _, subject := range subjects {
		for _, part := range strings.Fields(strings.ToLower(subject)) {
			if len(part) >= minFuzzyPartLength && strings.Contains(queryLower, part) {
				return subject
			}
		}
	}

	return ""
}
