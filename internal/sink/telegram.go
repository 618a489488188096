// Package sink содержит каналы доставки отправленных анкет.
package sink

import (
	"context"
	"time"

	"surveybot/internal/metrics"

	"github.com/rs/zerolog"
	"gopkg.in/telebot.v3"
)

// MaxMessageLength задаёт предел длины сообщения Telegram в символах.
const MaxMessageLength = 4096

// Sender отправляет сообщение в Telegram. Реализуется *telebot.Bot.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// Recipients возвращает чаты, которым доставляются анкеты.
type Recipients interface {
	GetChatIDs() []int64
}

// Telegram доставляет анкеты всем зарегистрированным чатам.
// Deliver ставит текст в очередь; отправкой занимается Run.
type Telegram struct {
	sender     Sender
	recipients Recipients
	queue      chan string
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

// NewTelegram создает канал доставки с очередью заданного размера.
func NewTelegram(sender Sender, recipients Recipients, queueSize int, m *metrics.Metrics, log zerolog.Logger) *Telegram {
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Telegram{
		sender:     sender,
		recipients: recipients,
		queue:      make(chan string, queueSize),
		metrics:    m,
		log:        log.With().Str("component", "telegram_sink").Logger(),
	}
}

// Deliver ставит анкету в очередь. При переполненной очереди анкета теряется.
func (t *Telegram) Deliver(text string) {
	select {
	case t.queue <- text:
	default:
		t.log.Error().Int("queue", cap(t.queue)).Msg("Очередь доставки переполнена, анкета потеряна")
		if t.metrics != nil {
			t.metrics.IncDeliveryErrors()
		}
	}
}

// Run рассылает анкеты из очереди, пока не отменён ctx.
// Перед выходом отправляет то, что уже в очереди.
func (t *Telegram) Run(ctx context.Context) error {
	for {
		select {
		case text := <-t.queue:
			t.broadcast(text)
		case <-ctx.Done():
			for {
				select {
				case text := <-t.queue:
					t.broadcast(text)
				default:
					return nil
				}
			}
		}
	}
}

func (t *Telegram) broadcast(text string) {
	start := time.Now()
	chatIDs := t.recipients.GetChatIDs()
	if len(chatIDs) == 0 {
		t.log.Warn().Msg("Нет получателей анкет, используйте /subscribe")
		if t.metrics != nil {
			t.metrics.IncDeliveryErrors()
		}
		return
	}

	parts := SplitMessage(text, MaxMessageLength)
	for _, chatID := range chatIDs {
		ok := true
		for _, part := range parts {
			if _, err := t.sender.Send(&telebot.Chat{ID: chatID}, part); err != nil {
				t.log.Error().Err(err).Int64("chat_id", chatID).Msg("Ошибка отправки анкеты в чат")
				ok = false
				break
			}
		}
		if t.metrics == nil {
			continue
		}
		if ok {
			t.metrics.IncDeliveries()
		} else {
			t.metrics.IncDeliveryErrors()
		}
	}
	if t.metrics != nil {
		t.metrics.UpdateLatency(time.Since(start))
	}
}

// SplitMessage режет текст на части не длиннее limit символов,
// по возможности по границам строк.
func SplitMessage(text string, limit int) []string {
	runes := []rune(text)
	if limit <= 0 || len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, string(runes[:cut]))
		runes = runes[cut:]
	}
	if len(runes) > 0 {
		parts = append(parts, string(runes))
	}
	return parts
}
