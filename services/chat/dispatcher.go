package chat

import (
	"context"
	"errors"
	"strings"

	"schooltutor/logger"
	"schooltutor/models"
	"schooltutor/services/classifier"
)

var ErrEmptyMessage = errors.New("empty message")

type IntentClassifier interface {
	Classify(query, sessionID string) classifier.Intent
}

type Tutor interface {
	Respond(ctx context.Context, turn models.Message, sessionID string) *models.ChatResponse
}

// Dispatcher records the user's turn, classifies it and hands it to the
// matching responder.
type Dispatcher struct {
	memory     Memory
	classifier IntentClassifier
	curriculum *CurriculumResponder
	tutor      Tutor
	log        *logger.Logger
}

func NewDispatcher(memory Memory, classifier IntentClassifier, curriculum *CurriculumResponder, tutor Tutor, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		memory:     memory,
		classifier: classifier,
		curriculum: curriculum,
		tutor:      tutor,
		log:        log,
	}
}

// HandleMessage returns ErrEmptyMessage for blank input; every other message
// yields a response envelope.
func (d *Dispatcher) HandleMessage(ctx context.Context, sessionID, message string) (*models.ChatResponse, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	log := d.log.ForSession(sessionID)
	log.Info("Received message", "length", len(message))
	turn := d.memory.AddMessage(sessionID, models.RoleUser, message)

	intent := d.classifier.Classify(message, sessionID)
	log.Info("Processing query", "intent", intent)

	switch intent {
	case classifier.IntentStandards:
		return d.curriculum.StandardsResponse(sessionID), nil
	case classifier.IntentCurriculum:
		return d.curriculum.HandleCurriculumQuery(message, sessionID), nil
	default:
		return d.tutor.Respond(ctx, turn, sessionID), nil
	}
}
