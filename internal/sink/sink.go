package sink

import (
	"net/url"
	"strings"

	"surveybot/internal/survey"

	"github.com/rs/zerolog"
)

// Multi передаёт анкету каждому из вложенных каналов.
type Multi []survey.Sink

// Deliver вызывает Deliver у всех каналов по порядку.
func (m Multi) Deliver(text string) {
	for _, s := range m {
		s.Deliver(text)
	}
}

// Discard используется, когда ни один канал не настроен: анкета только логируется.
type Discard struct {
	Log zerolog.Logger
}

// Deliver записывает в лог предупреждение о потерянной анкете.
func (d Discard) Deliver(text string) {
	d.Log.Warn().Int("length", len(text)).Msg("Каналы доставки не настроены, анкета не отправлена")
}

// WhatsAppLink строит ссылку wa.me с предзаполненным текстом.
// Номер указывается с кодом страны без "+". Пустой номер даёт пустую ссылку.
func WhatsAppLink(number, text string) string {
	number = strings.TrimPrefix(strings.TrimSpace(number), "+")
	if number == "" {
		return ""
	}
	// Пробелы кодируются как %20: "+" приложение показывает буквально
	return "https://wa.me/" + number + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
