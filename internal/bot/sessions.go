package bot

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"surveybot/internal/survey"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// session хранит мастер опроса одного пользователя и поле, ожидающее текстовый ответ.
type session struct {
	mu       sync.Mutex
	wizard   *survey.Wizard
	awaiting survey.Field
	waiting  bool
	started  time.Time
}

func (s *session) await(f survey.Field) {
	s.awaiting = f
	s.waiting = true
}

func (s *session) stopWaiting() { s.waiting = false }

// applyInput применяет текстовое сообщение к ожидаемому полю.
// Возвращает подсказку для пользователя, если значение не принято.
func (s *session) applyInput(text string) (string, bool) {
	if !s.waiting {
		return "", false
	}
	f := s.awaiting

	switch f.Kind() {
	case survey.KindNumber:
		bounds := f.Bounds()
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil {
			return fmt.Sprintf("Please send a whole number from %d to %d.", bounds.Min, bounds.Max), false
		}
		s.wizard.Update(survey.MustChange(survey.Number(f, n)))

	case survey.KindText:
		s.wizard.Update(survey.MustChange(survey.Text(f, strings.TrimSpace(text))))

	default:
		return "Please use the buttons to answer this question.", false
	}

	s.stopWaiting()
	return "", true
}

// sessionStore хранит сессии пользователей с ограничением по числу и времени жизни.
// Сессия, к которой не обращались дольше ttl, удаляется вместе с мастером.
type sessionStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[int64, *session]
}

func newSessionStore(size int, ttl time.Duration, onEvict func(userID int64)) *sessionStore {
	return &sessionStore{
		lru: expirable.NewLRU[int64, *session](size, func(userID int64, _ *session) {
			if onEvict != nil {
				onEvict(userID)
			}
		}, ttl),
	}
}

// get возвращает сессию и продлевает её время жизни.
func (s *sessionStore) get(userID int64) (*session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.lru.Get(userID)
	if !ok {
		return nil, false
	}
	s.lru.Add(userID, sess)
	return sess, true
}

// start создаёт новую сессию с чистым мастером, заменяя прежнюю.
func (s *sessionStore) start(userID int64, sink survey.Sink) *session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lru.Remove(userID)
	sess := &session{
		wizard:  survey.NewWizard(sink),
		started: time.Now(),
	}
	s.lru.Add(userID, sess)
	return sess
}

// remove удаляет сессию. Возвращает false, если её не было.
func (s *sessionStore) remove(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lru.Remove(userID)
}

func (s *sessionStore) len() int {
	return s.lru.Len()
}
