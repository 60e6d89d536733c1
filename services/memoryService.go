package services

import (
	"sync"
	"time"

	"schooltutor/logger"
	"schooltutor/models"

	"github.com/golang/groupcache/lru"
	"github.com/google/uuid"
)

const (
	MaxHistory          = 50
	DefaultHistoryLimit = 10
)

type session struct {
	mu      sync.Mutex
	evicted bool
	history []models.Message
	profile models.SessionProfile
}

// MemoryService keeps per-session conversation history and user profiles in
// process memory. Mutations on one session are serialized by that session's
// lock; distinct sessions only contend on the short LRU lookup.
type MemoryService struct {
	mu       sync.Mutex
	sessions *lru.Cache
	now      func() time.Time
	log      *logger.Logger
}

// NewMemoryService bounds the number of tracked sessions to capacity; the
// least recently used session is evicted first. capacity <= 0 means no bound.
func NewMemoryService(capacity int, log *logger.Logger) *MemoryService {
	if capacity < 0 {
		capacity = 0
	}
	s := &MemoryService{
		sessions: lru.New(capacity),
		now:      time.Now,
		log:      log,
	}
	s.sessions.OnEvicted = func(key lru.Key, value interface{}) {
		sess := value.(*session)
		sess.mu.Lock()
		sess.evicted = true
		sess.mu.Unlock()
		s.log.Debug("Evicted session from memory", "session_id", key)
	}
	return s
}

func (s *MemoryService) lookup(sessionID string, create bool) *session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.sessions.Get(sessionID); ok {
		return v.(*session)
	}
	if !create {
		return nil
	}
	sess := &session{}
	s.sessions.Add(sessionID, sess)
	return sess
}

// acquire returns the live session for sessionID with its lock held, or nil
// when create is false and the session is unknown. A session evicted between
// the lookup and the lock is retried, so writes never land on a dropped entry.
// Lock order is s.mu before session.mu; nothing takes s.mu while holding a
// session lock.
func (s *MemoryService) acquire(sessionID string, create bool) *session {
	for {
		sess := s.lookup(sessionID, create)
		if sess == nil {
			return nil
		}
		sess.mu.Lock()
		if !sess.evicted {
			return sess
		}
		sess.mu.Unlock()
	}
}

func (s *MemoryService) AddMessage(sessionID string, role models.Role, content string) models.Message {
	msg := models.Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: s.now(),
	}

	sess := s.acquire(sessionID, true)
	sess.history = append(sess.history, msg)
	if len(sess.history) > MaxHistory {
		trimmed := make([]models.Message, MaxHistory)
		copy(trimmed, sess.history[len(sess.history)-MaxHistory:])
		sess.history = trimmed
	}
	size := len(sess.history)
	sess.mu.Unlock()

	s.log.Debug("Added message to history", "session_id", sessionID, "role", role, "history_size", size)
	return msg
}

// AddUserData replaces the stored profile; fields are not merged.
func (s *MemoryService) AddUserData(sessionID string, profile models.SessionProfile) {
	sess := s.acquire(sessionID, true)
	sess.profile = profile
	sess.mu.Unlock()

	s.log.Info("Stored user data", "session_id", sessionID, "standard", profile.Standard, "stream", profile.Stream)
}

func (s *MemoryService) GetUserData(sessionID string) models.SessionProfile {
	sess := s.acquire(sessionID, false)
	if sess == nil {
		return models.SessionProfile{}
	}
	defer sess.mu.Unlock()
	return sess.profile
}

// GetHistory returns up to limit of the newest messages, oldest first.
func (s *MemoryService) GetHistory(sessionID string, limit int) []models.Message {
	if limit <= 0 {
		return []models.Message{}
	}
	sess := s.acquire(sessionID, false)
	if sess == nil {
		return []models.Message{}
	}
	defer sess.mu.Unlock()

	start := len(sess.history) - limit
	if start < 0 {
		start = 0
	}
	out := make([]models.Message, len(sess.history)-start)
	copy(out, sess.history[start:])
	return out
}

// Clear empties the history and keeps the profile.
func (s *MemoryService) Clear(sessionID string) {
	sess := s.acquire(sessionID, false)
	if sess == nil {
		return
	}
	sess.history = nil
	sess.mu.Unlock()

	s.log.Info("Cleared conversation", "session_id", sessionID)
}

// Sessions reports how many sessions are currently tracked.
func (s *MemoryService) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions.Len()
}
