package bot

import (
	"testing"
	"time"

	"surveybot/internal/metrics"
	"surveybot/internal/survey"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/telebot.v3"
)

// fakeContext записывает ответы бота. Не переопределённые методы не используются обработчиками.
type fakeContext struct {
	telebot.Context
	user      *telebot.User
	data      string
	text      string
	callback  bool
	sent      []string
	edits     []string
	responses []string
}

func (c *fakeContext) Sender() *telebot.User { return c.user }
func (c *fakeContext) Data() string          { return c.data }
func (c *fakeContext) Text() string          { return c.text }

func (c *fakeContext) Callback() *telebot.Callback {
	if !c.callback {
		return nil
	}
	return &telebot.Callback{Data: c.data}
}

func (c *fakeContext) Send(what interface{}, _ ...interface{}) error {
	c.sent = append(c.sent, what.(string))
	return nil
}

func (c *fakeContext) Edit(what interface{}, _ ...interface{}) error {
	c.edits = append(c.edits, what.(string))
	return nil
}

func (c *fakeContext) Respond(resp ...*telebot.CallbackResponse) error {
	text := ""
	if len(resp) > 0 && resp[0] != nil {
		text = resp[0].Text
	}
	c.responses = append(c.responses, text)
	return nil
}

func (c *fakeContext) lastEdit() string {
	if len(c.edits) == 0 {
		return ""
	}
	return c.edits[len(c.edits)-1]
}

type recordingSink struct {
	texts []string
}

func (s *recordingSink) Deliver(text string) { s.texts = append(s.texts, text) }

func newTestBot(sink survey.Sink) (*Bot, *metrics.Metrics) {
	m := metrics.NewMetrics()
	b := newBot(nil, sink, m, zerolog.Nop(), Options{
		SessionTimeout: time.Hour,
		MaxSessions:    10,
		WhatsAppNumber: "233249970393",
	})
	return b, m
}

func fillAnswers(w *survey.Wizard) {
	w.Update(
		survey.MustChange(survey.Choose(survey.FieldBusinessType, "retail-store")),
		survey.MustChange(survey.Choose(survey.FieldBusinessSize, "single")),
		survey.MustChange(survey.SetMembers(survey.FieldChallenges, "security", "counterfeit")),
		survey.MustChange(survey.Choose(survey.FieldCurrentSolution, "manual")),
		survey.MustChange(survey.SetMembers(survey.FieldFeatures, "autoCount")),
		survey.MustChange(survey.Choose(survey.FieldTechComfort, "cautious")),
		survey.MustChange(survey.Choose(survey.FieldBudgetRange, "100-300")),
		survey.MustChange(survey.Text(survey.FieldBusinessGoals, "Open a second shop")),
		survey.MustChange(survey.Choose(survey.FieldBetaInterest, "yes")),
		survey.MustChange(survey.Text(survey.FieldContactName, "Ama")),
		survey.MustChange(survey.Text(survey.FieldContactEmail, "ama@example.com")),
	)
}

func TestSurveySubmitFlow(t *testing.T) {
	sink := &recordingSink{}
	b, m := newTestBot(sink)
	user := &telebot.User{ID: 7}

	cmd := &fakeContext{user: user}
	require.NoError(t, b.handleSurvey(cmd))
	require.Len(t, cmd.sent, 1)
	assert.Contains(t, cmd.sent[0], "Step 1/5")

	sess, ok := b.sessions.get(user.ID)
	require.True(t, ok)
	fillAnswers(sess.wizard)

	next := &fakeContext{user: user, callback: true}
	for i := 0; i < survey.StepCount-1; i++ {
		require.NoError(t, b.handleNextCallback(next))
	}
	assert.Contains(t, next.lastEdit(), "Step 5/5")
	assert.Empty(t, sink.texts)

	require.NoError(t, b.handleNextCallback(next))
	assert.Contains(t, next.lastEdit(), "Thank you, Ama!")
	require.Len(t, sink.texts, 1)
	assert.Contains(t, sink.texts[0], "Business Type: retail-store")
	assert.NotContains(t, sink.texts[0], "Biggest Wish")

	// Повторное нажатие после отправки ничего не доставляет
	require.NoError(t, b.handleNextCallback(next))
	assert.Len(t, sink.texts, 1)
	assert.Equal(t, "This survey has already been submitted.", next.responses[len(next.responses)-1])

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["submissions"])
	assert.Equal(t, int64(survey.StepCount-1), stats["steps_advanced"])
	assert.Equal(t, "0s", stats["average_latency"])
}

func TestSurveyRestartAfterSubmitKeepsSessionCount(t *testing.T) {
	b, m := newTestBot(&recordingSink{})
	user := &telebot.User{ID: 9}
	cmd := &fakeContext{user: user}

	require.NoError(t, b.handleSurvey(cmd))
	sess, _ := b.sessions.get(user.ID)
	fillAnswers(sess.wizard)
	next := &fakeContext{user: user, callback: true}
	for i := 0; i < survey.StepCount; i++ {
		require.NoError(t, b.handleNextCallback(next))
	}
	require.True(t, sess.wizard.Submitted())

	// Новый /survey заменяет отправленную анкету
	require.NoError(t, b.handleSurvey(cmd))
	fresh, ok := b.sessions.get(user.ID)
	require.True(t, ok)
	assert.NotSame(t, sess, fresh)
	assert.Equal(t, 0, fresh.wizard.Step())

	stats := m.GetStats()
	assert.Equal(t, int64(2), stats["sessions_started"])
	assert.Equal(t, int64(1), stats["active_sessions"])

	require.NoError(t, b.handleCancel(next))
	assert.Equal(t, int64(0), m.GetStats()["active_sessions"])
	assert.Contains(t, next.lastEdit(), "Survey cancelled")
}

func TestNextCallbackRejectsIncompleteStep(t *testing.T) {
	b, m := newTestBot(&recordingSink{})
	user := &telebot.User{ID: 3}
	require.NoError(t, b.handleSurvey(&fakeContext{user: user}))

	next := &fakeContext{user: user, callback: true}
	require.NoError(t, b.handleNextCallback(next))
	assert.Contains(t, next.lastEdit(), "Step 1/5")
	assert.Contains(t, next.lastEdit(), "Please select your business type")
	assert.Equal(t, int64(1), m.GetStats()["steps_rejected"])
}

func TestOptionCallback(t *testing.T) {
	b, _ := newTestBot(&recordingSink{})
	user := &telebot.User{ID: 5}
	require.NoError(t, b.handleSurvey(&fakeContext{user: user}))

	pick := &fakeContext{user: user, callback: true, data: "businessType|bank"}
	require.NoError(t, b.handleOptionCallback(pick))
	assert.Contains(t, pick.lastEdit(), "Business Type *: Bank/Financial Institution")

	bad := &fakeContext{user: user, callback: true, data: "businessType|casino"}
	require.NoError(t, b.handleOptionCallback(bad))
	assert.Equal(t, []string{"This button is no longer valid."}, bad.responses)
	assert.Empty(t, bad.edits)

	unknown := &fakeContext{user: user, callback: true, data: "nope"}
	require.NoError(t, b.handleFieldCallback(unknown))
	assert.Equal(t, []string{"This button is no longer valid."}, unknown.responses)
}

func TestTextFieldInput(t *testing.T) {
	b, _ := newTestBot(&recordingSink{})
	user := &telebot.User{ID: 11}
	require.NoError(t, b.handleSurvey(&fakeContext{user: user}))

	open := &fakeContext{user: user, callback: true, data: "dailyTransactions"}
	require.NoError(t, b.handleFieldCallback(open))
	assert.Contains(t, open.lastEdit(), "Current value: 50")

	msg := &fakeContext{user: user, text: "lots"}
	require.NoError(t, b.handleMessage(msg))
	assert.Equal(t, []string{"Please send a whole number from 0 to 1000."}, msg.sent)

	msg = &fakeContext{user: user, text: "120"}
	require.NoError(t, b.handleMessage(msg))
	require.Len(t, msg.sent, 1)
	assert.Contains(t, msg.sent[0], "Daily Transactions: 120")
}

func TestCallbackWithoutSession(t *testing.T) {
	b, _ := newTestBot(&recordingSink{})
	c := &fakeContext{user: &telebot.User{ID: 1}, callback: true, data: "businessType"}

	require.NoError(t, b.handleFieldCallback(c))
	assert.Equal(t, sessionExpired, c.lastEdit())
}

func TestStoppedBotIgnoresUpdates(t *testing.T) {
	b, _ := newTestBot(&recordingSink{})

	release := make(chan struct{})
	entered := make(chan struct{})
	slow := b.track(func(telebot.Context) error {
		close(entered)
		<-release
		return nil
	})
	go func() { _ = slow(&fakeContext{}) }()
	<-entered

	drained := make(chan struct{})
	go func() {
		b.drain()
		close(drained)
	}()

	select {
	case <-drained:
		t.Fatal("drain returned while a handler was running")
	case <-time.After(50 * time.Millisecond):
	}
	close(release)
	select {
	case <-drained:
	case <-time.After(2 * time.Second):
		t.Fatal("drain did not return")
	}

	called := false
	late := b.track(func(telebot.Context) error {
		called = true
		return nil
	})
	require.NoError(t, late(&fakeContext{}))
	assert.False(t, called)
}
