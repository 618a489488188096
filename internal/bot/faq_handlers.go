package bot

import (
	"sort"

	"gopkg.in/telebot.v3"
)

// handleFAQ показывает список вопросов FAQ
func (b *Bot) handleFAQ(c telebot.Context) error {
	faqItems := b.storage.GetAllFAQItems()

	keys := make([]string, 0, len(faqItems))
	for key := range faqItems {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	// Кнопка для каждого вопроса
	menu := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for _, key := range keys {
		rows = append(rows, menu.Row(menu.Data(faqItems[key].Question, uniqueFAQ, key)))
	}
	menu.Inline(rows...)

	return c.Send("ℹ️ About the survey\n\nChoose a question:", menu)
}

// handleFAQCallback обрабатывает нажатие на кнопку FAQ
func (b *Bot) handleFAQCallback(c telebot.Context) error {
	_ = c.Respond()

	item, exists := b.storage.GetFAQItem(c.Data())
	if !exists {
		return c.Send("Sorry, no information on this question.")
	}
	return c.Send("❓ " + item.Question + "\n\n" + item.Answer)
}
