package chat

import (
	"context"
	"sync"
	"testing"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services"
	"schooltutor/services/classifier"
	"schooltutor/services/curriculum"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTutor struct {
	mu      sync.Mutex
	memory  Memory
	queries []string
	turns   []models.Message
}

func (f *fakeTutor) Respond(_ context.Context, turn models.Message, sessionID string) *models.ChatResponse {
	f.mu.Lock()
	f.queries = append(f.queries, turn.Content)
	f.turns = append(f.turns, turn)
	f.mu.Unlock()
	f.memory.AddMessage(sessionID, models.RoleAssistant, "tutor answer")
	return models.TextResponse("tutor answer")
}

type fixture struct {
	store      *curriculum.Store
	memory     *services.MemoryService
	tutor      *fakeTutor
	responder  *CurriculumResponder
	dispatcher *Dispatcher
}

func newFixture(data models.CurriculumData) *fixture {
	log := logger.Nop()
	store := curriculum.NewStore(data)
	memory := services.NewMemoryService(0, log)
	aliases := classifier.NewAliasResolver(classifier.DefaultSubjectAliases)
	extractor := classifier.NewExtractor(store, memory, aliases)
	responder := NewCurriculumResponder(store, extractor, memory, log)
	tutor := &fakeTutor{memory: memory}

	return &fixture{
		store:      store,
		memory:     memory,
		tutor:      tutor,
		responder:  responder,
		dispatcher: NewDispatcher(memory, classifier.NewClassifier(store, memory, aliases), responder, tutor, log),
	}
}

func tenthStandard() models.CurriculumData {
	return models.CurriculumData{"10": {"Mathematics": {Chapters: []string{"Algebra", "Geometry"}}}}
}

func TestStandardsQueryWithEmptyCurriculum(t *testing.T) {
	f := newFixture(nil)

	resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "What standards are available?")

	require.NoError(t, err)
	assert.Equal(t, &models.ChatResponse{Response: "Sorry, no curriculum data is currently available.", Type: "text"}, resp)
	assert.Empty(t, f.tutor.queries)
}

func TestStandardsQueryListsSortedStandards(t *testing.T) {
	f := newFixture(models.CurriculumData{"9": {}, "10": {}, "11": {}})

	resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "which classes do you cover")

	require.NoError(t, err)
	assert.Equal(t, "Here are the available standards:\n\n• Standard 10\n• Standard 11\n• Standard 9\n", resp.Response)

	history := f.memory.GetHistory("s1", 10)
	require.Len(t, history, 2)
	assert.Equal(t, models.RoleUser, history[0].Role)
	assert.Equal(t, resp.Response, history[1].Content)
}

func TestCurriculumQueryWithoutStandardAsksForIt(t *testing.T) {
	f := newFixture(tenthStandard())

	resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "list chapters in maths")

	require.NoError(t, err)
	assert.Equal(t, MissingStandardResponse, resp.Response)
	assert.Empty(t, f.tutor.queries)
}

func TestCurriculumQueryUsesSessionStandardAndAlias(t *testing.T) {
	f := newFixture(tenthStandard())
	f.memory.AddUserData("s1", models.SessionProfile{Standard: "10"})

	resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "maths chapters")

	require.NoError(t, err)
	assert.Equal(t, "Here are the chapters for Mathematics in Standard 10:\n\n• Algebra\n• Geometry", resp.Response)
	assert.Equal(t, "text", resp.Type)
}

func TestCurriculumQueryForMissingSubject(t *testing.T) {
	f := newFixture(tenthStandard())

	resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "tell me the chapters for Physics in 10")

	require.NoError(t, err)
	assert.Equal(t, "The subject 'Physics' is not available for Standard 10. Available subjects are:\n\n• Mathematics", resp.Response)
}

func TestTutoringFallback(t *testing.T) {
	for _, profile := range []models.SessionProfile{{}, {Standard: "10", Name: "Asha"}} {
		f := newFixture(tenthStandard())
		f.memory.AddUserData("s1", profile)

		resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", "  explain photosynthesis ")

		require.NoError(t, err)
		assert.Equal(t, "tutor answer", resp.Response)
		assert.Equal(t, []string{"explain photosynthesis"}, f.tutor.queries)
	}
}

func TestTutorReceivesRecordedTurn(t *testing.T) {
	f := newFixture(tenthStandard())

	_, err := f.dispatcher.HandleMessage(context.Background(), "s1", "explain photosynthesis")
	require.NoError(t, err)

	require.Len(t, f.tutor.turns, 1)
	history := f.memory.GetHistory("s1", 10)
	require.Len(t, history, 2)
	assert.Equal(t, history[0], f.tutor.turns[0])
	assert.NotEmpty(t, f.tutor.turns[0].ID)
}

func TestHandleMessageRejectsBlankInput(t *testing.T) {
	f := newFixture(tenthStandard())

	for _, msg := range []string{"", "   ", "\n\t"} {
		resp, err := f.dispatcher.HandleMessage(context.Background(), "s1", msg)
		assert.ErrorIs(t, err, ErrEmptyMessage)
		assert.Nil(t, resp)
	}
	assert.Empty(t, f.memory.GetHistory("s1", 10), "rejected messages are not recorded")
}

func TestCurriculumText(t *testing.T) {
	data := models.CurriculumData{
		"10": {
			"Mathematics": {Chapters: []string{"Algebra", "Geometry"}},
			"Science":     {Chapters: []string{"Light"}},
		},
		"11": {
			"Accounting": {Chapters: []string{"Ledgers"}},
		},
	}
	f := newFixture(data)
	snap := f.store.Snapshot()

	tests := []struct {
		name     string
		query    string
		profile  models.SessionProfile
		expected string
	}{
		{
			name:     "subjects for standard",
			query:    "syllabus for 10",
			expected: "Available subjects for Standard 10:\n\n• Mathematics\n• Science",
		},
		{
			name:     "unknown standard from profile",
			query:    "what topics are there",
			profile:  models.SessionProfile{Standard: "7"},
			expected: "No curriculum data found for Standard 7.",
		},
		{
			name:     "chapters in stored order",
			query:    "science chapters",
			profile:  models.SessionProfile{Standard: "10"},
			expected: "Here are the chapters for Science in Standard 10:\n\n• Light",
		},
		{
			name:     "near miss gets a hint",
			query:    "accounts chapters",
			profile:  models.SessionProfile{Standard: "11"},
			expected: "The subject 'Accountancy' is not available for Standard 11. Available subjects are:\n\n• Accounting\n\nDid you mean Accounting?",
		},
		{
			name:     "missing standard",
			query:    "science chapters",
			expected: MissingStandardResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, f.responder.CurriculumText(snap, tt.query, tt.profile))
		})
	}
}

type panickingMemory struct {
	Memory
}

func (p panickingMemory) GetUserData(string) models.SessionProfile {
	panic("profile store corrupted")
}

func TestHandleCurriculumQueryRecoversFromInternalErrors(t *testing.T) {
	f := newFixture(tenthStandard())
	aliases := classifier.NewAliasResolver(classifier.DefaultSubjectAliases)
	broken := panickingMemory{Memory: f.memory}
	responder := NewCurriculumResponder(f.store, classifier.NewExtractor(f.store, f.memory, aliases), broken, logger.Nop())

	resp := responder.HandleCurriculumQuery("maths chapters", "s1")

	assert.Equal(t, CurriculumErrorResponse, resp.Response)
	history := f.memory.GetHistory("s1", 10)
	require.Len(t, history, 1)
	assert.Equal(t, CurriculumErrorResponse, history[0].Content)
}

func TestClosestSubject(t *testing.T) {
	tests := []struct {
		requested string
		available []string
		expected  string
		found     bool
	}{
		{requested: "Physics", available: []string{"Mathematics"}, found: false},
		{requested: "Accountancy", available: []string{"Economics", "Accounting"}, expected: "Accounting", found: true},
		{requested: "Maths", available: []string{"Math", "Mathematics"}, expected: "Math", found: true},
		{requested: "Biology", available: nil, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			closest, found := closestSubject(tt.requested, tt.available)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.expected, closest)
		})
	}
}
