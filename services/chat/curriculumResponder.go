package chat

import (
	"fmt"
	"sort"
	"strings"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services/classifier"
	"schooltutor/services/curriculum"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

const (
	NoCurriculumResponse    = "Sorry, no curriculum data is currently available."
	MissingStandardResponse = "Please specify which standard/class you're asking about."
	CurriculumErrorResponse = "Error processing request. Please try again."
)

type Memory interface {
	AddMessage(sessionID string, role models.Role, content string) models.Message
	GetUserData(sessionID string) models.SessionProfile
}

// CurriculumResponder answers standards and chapter lookups from the
// curriculum snapshot. Every reply is recorded as an assistant turn.
type CurriculumResponder struct {
	curriculum classifier.SnapshotProvider
	extractor  *classifier.Extractor
	memory     Memory
	log        *logger.Logger
}

func NewCurriculumResponder(curriculum classifier.SnapshotProvider, extractor *classifier.Extractor, memory Memory, log *logger.Logger) *CurriculumResponder {
	return &CurriculumResponder{curriculum: curriculum, extractor: extractor, memory: memory, log: log}
}

func (r *CurriculumResponder) StandardsResponse(sessionID string) *models.ChatResponse {
	text := StandardsText(r.curriculum.Snapshot())
	r.memory.AddMessage(sessionID, models.RoleAssistant, text)
	return models.TextResponse(text)
}

// StandardsText lists every standard in ascending order.
func StandardsText(snap *curriculum.Snapshot) string {
	if snap.IsEmpty() {
		return NoCurriculumResponse
	}
	standards := snap.Standards()

	var b strings.Builder
	b.WriteString("Here are the available standards:\n\n")
	for _, std := range standards {
		fmt.Fprintf(&b, "• Standard %s\n", std)
	}
	return b.String()
}

func (r *CurriculumResponder) HandleCurriculumQuery(query, sessionID string) (resp *models.ChatResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("Error handling curriculum query", "session_id", sessionID, "panic", rec)
			resp = models.TextResponse(CurriculumErrorResponse)
		}
		r.memory.AddMessage(sessionID, models.RoleAssistant, resp.Response)
	}()

	profile := r.memory.GetUserData(sessionID)
	text := r.CurriculumText(r.curriculum.Snapshot(), query, profile)
	return models.TextResponse(text)
}

// CurriculumText resolves the standard and subject of a query and renders the
// matching listing. It never guesses a standard.
func (r *CurriculumResponder) CurriculumText(snap *curriculum.Snapshot, query string, profile models.SessionProfile) string {
	info := r.extractor.Extract(snap, query, profile)
	standard := info.Standard
	if standard == "" {
		standard = profile.Standard
	}
	subject := r.extractor.Normalize(info.Subject)

	r.log.Info("Resolved curriculum query", "standard", standard, "subject", subject)

	if standard == "" {
		return MissingStandardResponse
	}

	if subject == "" && !snap.HasStandard(standard) {
		return fmt.Sprintf("No curriculum data found for Standard %s.", standard)
	}
	available, _ := snap.Subjects(standard)

	if subject == "" {
		return fmt.Sprintf("Available subjects for Standard %s:\n\n%s", standard, bullets(available))
	}

	if chapters, ok := snap.Chapters(standard, subject); ok {
		return fmt.Sprintf("Here are the chapters for %s in Standard %s:\n\n%s", subject, standard, bullets(chapters))
	}

	text := fmt.Sprintf("The subject '%s' is not available for Standard %s. Available subjects are:\n\n%s", subject, standard, bullets(available))
	if closest, ok := closestSubject(subject, available); ok {
		text += fmt.Sprintf("\n\nDid you mean %s?", closest)
	}
	return text
}

func bullets(items []string) string {
	return strings.Join(lo.Map(items, func(item string, _ int) string {
		return "• " + item
	}), "\n")
}

// closestSubject picks the available subject with the smallest edit distance
// to the requested one, if it is close enough to be a likely slip.
func closestSubject(requested string, available []string) (string, bool) {
	target := strings.ToLower(requested)
	maxDistance := len(target) / 3
	if maxDistance < 2 {
		maxDistance = 2
	}

	type candidate struct {
		name     string
		distance int
	}
	candidates := lo.FilterMap(available, func(name string, _ int) (candidate, bool) {
		d := fuzzy.LevenshteinDistance(target, strings.ToLower(name))
		return candidate{name: name, distance: d}, d <= maxDistance
	})
	if len(candidates) == 0 {
		return "", false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})
	return candidates[0].name, true
}
