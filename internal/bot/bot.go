// Package bot содержит обработчики и логику Telegram-бота опроса.
package bot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"surveybot/internal/metrics"
	"surveybot/internal/storage"
	"surveybot/internal/survey"

	"github.com/rs/zerolog"
	"gopkg.in/telebot.v3"
)

// Кнопки основного меню
var (
	mainMenu  = &telebot.ReplyMarkup{ResizeKeyboard: true}
	btnSurvey = mainMenu.Text("📝 Take the survey")
	btnAbout  = mainMenu.Text("ℹ️ About")
	btnHelp   = mainMenu.Text("❓ Help")
)

// Точки входа inline-кнопок; сами кнопки создаются в view.go с теми же Unique
var (
	endpoints = &telebot.ReplyMarkup{}
	epField   = endpoints.Data("", uniqueField)
	epOption  = endpoints.Data("", uniqueOption)
	epToggle  = endpoints.Data("", uniqueToggle)
	epNumber  = endpoints.Data("", uniqueNumber)
	epClear   = endpoints.Data("", uniqueClear)
	epView    = endpoints.Data("", uniqueView)
	epBack    = endpoints.Data("", uniqueBack)
	epNext    = endpoints.Data("", uniqueNext)
	epCancel  = endpoints.Data("", uniqueCancel)
	epFAQ     = endpoints.Data("", uniqueFAQ)
)

func init() {
	mainMenu.Reply(
		mainMenu.Row(btnSurvey),
		mainMenu.Row(btnAbout, btnHelp),
	)
}

// Options задаёт параметры бота.
type Options struct {
	SessionTimeout time.Duration
	MaxSessions    int
	AdminKey       string
	WhatsAppNumber string
}

// Bot представляет Telegram бота с мастером опроса
type Bot struct {
	bot      *telebot.Bot
	storage  *storage.Storage
	sessions *sessionStore
	sink     survey.Sink
	metrics  *metrics.Metrics
	log      zerolog.Logger
	opts     Options

	// Обработчики держат RLock на время работы; Stop берёт Lock и ждёт их завершения
	inflight sync.RWMutex
	stopped  bool
}

// NewTelebot создает клиент Telegram с long polling.
func NewTelebot(token string, pollTimeout time.Duration) (*telebot.Bot, error) {
	b, err := telebot.NewBot(telebot.Settings{
		Token:  token,
		Poller: &telebot.LongPoller{Timeout: pollTimeout},
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка создания бота: %w", err)
	}
	return b, nil
}

// NewBot создает бота поверх клиента api. Отправленные анкеты передаются в sink.
func NewBot(api *telebot.Bot, store *storage.Storage, sink survey.Sink, m *metrics.Metrics, log zerolog.Logger, opts Options) *Bot {
	b := newBot(store, sink, m, log, opts)
	b.bot = api
	b.bot.Use(b.track)
	b.setupHandlers()
	return b
}

func newBot(store *storage.Storage, sink survey.Sink, m *metrics.Metrics, log zerolog.Logger, opts Options) *Bot {
	b := &Bot{
		storage: store,
		sink:    sink,
		metrics: m,
		log:     log.With().Str("component", "bot").Logger(),
		opts:    opts,
	}
	b.sessions = newSessionStore(opts.MaxSessions, opts.SessionTimeout, func(userID int64) {
		b.metrics.DecActiveSessions()
		b.log.Debug().Int64("user_id", userID).Msg("Сессия опроса закрыта")
	})
	return b
}

// track учитывает выполняющиеся обработчики. После Stop новые обновления игнорируются.
func (b *Bot) track(next telebot.HandlerFunc) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		b.inflight.RLock()
		defer b.inflight.RUnlock()
		if b.stopped {
			return nil
		}
		return next(c)
	}
}

// drain запрещает новые обработчики и ждёт завершения текущих
func (b *Bot) drain() {
	b.inflight.Lock()
	b.stopped = true
	b.inflight.Unlock()
}

// setupHandlers настраивает обработчики команд
func (b *Bot) setupHandlers() {
	// Стандартные команды
	b.bot.Handle("/start", b.handleStart)
	b.bot.Handle("/help", b.handleHelp)
	b.bot.Handle("/survey", b.handleSurvey)
	b.bot.Handle("/cancel", b.handleCancel)
	b.bot.Handle("/faq", b.handleFAQ)

	// Кнопки основного меню
	b.bot.Handle(&btnSurvey, b.handleSurvey)
	b.bot.Handle(&btnAbout, b.handleFAQ)
	b.bot.Handle(&btnHelp, b.handleHelp)

	// Команды получателей анкет
	b.bot.Handle("/subscribe", b.handleSubscribe)
	b.bot.Handle("/unsubscribe", b.handleUnsubscribe)
	b.bot.Handle("/stats", b.handleStats)

	// Inline-кнопки мастера
	b.bot.Handle(&epField, b.handleFieldCallback)
	b.bot.Handle(&epOption, b.handleOptionCallback)
	b.bot.Handle(&epToggle, b.handleToggleCallback)
	b.bot.Handle(&epNumber, b.handleNumberCallback)
	b.bot.Handle(&epClear, b.handleClearCallback)
	b.bot.Handle(&epView, b.handleViewCallback)
	b.bot.Handle(&epBack, b.handleBackCallback)
	b.bot.Handle(&epNext, b.handleNextCallback)
	b.bot.Handle(&epCancel, b.handleCancel)
	b.bot.Handle(&epFAQ, b.handleFAQCallback)

	// Обработчик текстовых сообщений
	b.bot.Handle(telebot.OnText, b.handleMessage)
}

// Start запускает бота
func (b *Bot) Start() {
	go b.bot.Start()
}

// Stop останавливает получение обновлений и ждёт завершения обработчиков.
// После возврата бот больше не передаёт анкеты в sink.
func (b *Bot) Stop() {
	b.bot.Stop()
	b.drain()
}

// handleStart обрабатывает команду /start
func (b *Bot) handleStart(c telebot.Context) error {
	name := ""
	if c.Sender() != nil {
		name = c.Sender().FirstName
	}
	return c.Send(fmt.Sprintf(`Hi %s! 👋

We're building smart cash counting and business insights for businesses in Ghana, and we'd love to hear about yours.

The Business Operations Survey takes about 3 minutes. Tap "📝 Take the survey" to begin.`, name), mainMenu)
}

// handleHelp обрабатывает команду /help
func (b *Bot) handleHelp(c telebot.Context) error {
	return c.Send(`Available commands:
/survey - Start or resume the survey
/cancel - Cancel the current survey
/faq - Frequently asked questions
/help - Show this message`, mainMenu)
}

// handleMessage обрабатывает текстовые сообщения: ответ на ожидаемое поле анкеты
func (b *Bot) handleMessage(c telebot.Context) error {
	if c.Sender() == nil {
		return nil
	}

	sess, ok := b.sessions.get(c.Sender().ID)
	if !ok {
		return c.Send("Use /survey to start the survey or /help to see what I can do.", mainMenu)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.wizard.Submitted() {
		return c.Send("Your survey has already been submitted. Use /survey to start a new one.", mainMenu)
	}
	if !sess.waiting {
		text, menu := renderStep(sess.wizard)
		return c.Send("Please choose a field to answer using the buttons below.\n\n"+text, menu)
	}

	if hint, accepted := sess.applyInput(c.Text()); !accepted {
		return c.Send(hint)
	}

	text, menu := renderStep(sess.wizard)
	return c.Send(text, menu)
}

// show редактирует сообщение с кнопкой или отправляет новое
func (b *Bot) show(c telebot.Context, text string, menu *telebot.ReplyMarkup) error {
	var opts []interface{}
	if menu != nil {
		opts = append(opts, menu)
	}

	if c.Callback() == nil {
		return c.Send(text, opts...)
	}

	_ = c.Respond()
	err := c.Edit(text, opts...)
	if err == nil || errors.Is(err, telebot.ErrSameMessageContent) {
		return nil
	}
	b.log.Warn().Err(err).Msg("Ошибка редактирования сообщения, отправляем новое")
	return c.Send(text, opts...)
}
