package bot

import (
	"sync"
	"testing"
	"time"

	"surveybot/internal/sink"
	"surveybot/internal/survey"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSession() *session {
	return &session{wizard: survey.NewWizard(sink.Discard{Log: zerolog.Nop()}), started: time.Now()}
}

func TestApplyInputNumber(t *testing.T) {
	s := newSession()
	s.await(survey.FieldDailyTransactions)

	hint, ok := s.applyInput("many")
	assert.False(t, ok)
	assert.Equal(t, "Please send a whole number from 0 to 1000.", hint)
	assert.True(t, s.waiting)

	_, ok = s.applyInput(" 5000 ")
	require.True(t, ok)
	assert.False(t, s.waiting)
	assert.Equal(t, 1000, s.wizard.Answers().DailyTransactions)
}

func TestApplyInputText(t *testing.T) {
	s := newSession()
	s.await(survey.FieldContactEmail)

	_, ok := s.applyInput("  ama@example.com\n")
	require.True(t, ok)
	assert.Equal(t, "ama@example.com", s.wizard.Answers().ContactEmail)
}

func TestApplyInputRejectsChoiceField(t *testing.T) {
	s := newSession()
	require.Equal(t, survey.Rejected, s.wizard.Advance())
	require.True(t, s.wizard.Errors().Has(survey.FieldBusinessType))

	// Поле с выбором текстом не заполняется, ошибка остаётся
	s.await(survey.FieldBusinessType)
	hint, ok := s.applyInput("bank")
	assert.False(t, ok)
	assert.Equal(t, "Please use the buttons to answer this question.", hint)
	assert.True(t, s.wizard.Errors().Has(survey.FieldBusinessType))
}

func TestApplyInputNotWaiting(t *testing.T) {
	s := newSession()
	_, ok := s.applyInput("hello")
	assert.False(t, ok)
}

func TestSessionStoreStartReplaces(t *testing.T) {
	var mu sync.Mutex
	var evicted []int64
	store := newSessionStore(10, time.Hour, func(id int64) {
		mu.Lock()
		evicted = append(evicted, id)
		mu.Unlock()
	})

	first := store.start(1, nil)
	first.wizard.Update(survey.MustChange(survey.Choose(survey.FieldBusinessType, "bank")))

	got, ok := store.get(1)
	require.True(t, ok)
	assert.Same(t, first, got)

	second := store.start(1, nil)
	assert.NotSame(t, first, second)
	assert.Empty(t, second.wizard.Answers().BusinessType)
	assert.Equal(t, 1, store.len())
	assert.Equal(t, []int64{1}, evicted)

	assert.True(t, store.remove(1))
	assert.False(t, store.remove(1))
	_, ok = store.get(1)
	assert.False(t, ok)
}

func TestSessionStoreCapacity(t *testing.T) {
	var evicted []int64
	store := newSessionStore(2, time.Hour, func(id int64) { evicted = append(evicted, id) })

	store.start(1, nil)
	store.start(2, nil)
	store.get(1)
	store.start(3, nil)

	assert.Equal(t, 2, store.len())
	assert.Equal(t, []int64{2}, evicted)
	_, ok := store.get(1)
	assert.True(t, ok)
}

func TestSessionStoreExpires(t *testing.T) {
	store := newSessionStore(10, 50*time.Millisecond, nil)
	store.start(1, nil)

	assert.Eventually(t, func() bool {
		_, ok := store.get(1)
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}
