package tutor

import (
	"context"
	"fmt"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services"
)

const (
	HistoryWindow = 10
	ErrorResponse = "I encountered an error while processing your question. Please try again."
)

type Memory interface {
	AddMessage(sessionID string, role models.Role, content string) models.Message
	GetUserData(sessionID string) models.SessionProfile
	GetHistory(sessionID string, limit int) []models.Message
}

// Responder answers free-form study questions through the LLM.
type Responder struct {
	llm    LLMClient
	memory Memory
	opts   GenerateOptions
	log    *logger.Logger
}

func NewResponder(llm LLMClient, memory Memory, opts GenerateOptions, log *logger.Logger) *Responder {
	return &Responder{llm: llm, memory: memory, opts: opts, log: log}
}

// Respond answers turn, the user message already recorded for sessionID.
// Provider errors become ErrorResponse. No session lock is held while the
// provider call is in flight.
func (r *Responder) Respond(ctx context.Context, turn models.Message, sessionID string) *models.ChatResponse {
	log := r.log.ForSession(sessionID)

	history := priorTurns(r.memory.GetHistory(sessionID, services.MaxHistory), turn.ID)
	if len(history) > HistoryWindow {
		history = history[len(history)-HistoryWindow:]
	}
	profile := r.memory.GetUserData(sessionID)
	messages := BuildMessages(profile, history, turn.Content)

	log.Info("Calling LLM for tutoring response", "messages", len(messages), "model", r.opts.Model)

	reply, err := r.generate(ctx, messages)
	if err != nil {
		log.Error("Error in LLM response", "error", err)
		reply = ErrorResponse
	}

	r.memory.AddMessage(sessionID, models.RoleAssistant, reply)
	return models.TextResponse(reply)
}

func (r *Responder) generate(ctx context.Context, messages []LLMMessage) (reply string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("llm client panicked: %v", rec)
		}
	}()
	return r.llm.Generate(ctx, messages, r.opts)
}

// priorTurns keeps the messages recorded before the turn with the given ID.
// Turns appended afterwards by concurrent requests on the same session are
// left out. An unknown or empty ID keeps the whole history.
func priorTurns(history []models.Message, turnID string) []models.Message {
	if turnID == "" {
		return history
	}
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].ID == turnID {
			return history[:i]
		}
	}
	return history
}
