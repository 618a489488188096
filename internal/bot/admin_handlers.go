package bot

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/telebot.v3"
)

// chatTitle возвращает название чата для списка получателей
func chatTitle(chat *telebot.Chat) string {
	if chat.Title != "" {
		return chat.Title
	}
	name := strings.TrimSpace(chat.FirstName + " " + chat.LastName)
	if name == "" && chat.Username != "" {
		name = "@" + chat.Username
	}
	return name
}

// handleSubscribe подписывает текущий чат на получение анкет: /subscribe <ключ>
func (b *Bot) handleSubscribe(c telebot.Context) error {
	if b.opts.AdminKey == "" {
		return c.Send("Subscriptions are disabled.")
	}
	if strings.TrimSpace(c.Message().Payload) != b.opts.AdminKey {
		b.log.Warn().Int64("chat_id", c.Chat().ID).Msg("Попытка подписки с неверным ключом")
		return c.Send("Invalid key.")
	}

	chat := c.Chat()
	var addedBy int64
	if c.Sender() != nil {
		addedBy = c.Sender().ID
	}
	if !b.storage.AddRecipient(chat.ID, chatTitle(chat), addedBy) {
		return c.Send("This chat already receives survey submissions.")
	}
	if err := b.storage.SaveData(); err != nil {
		b.log.Error().Err(err).Msg("Ошибка сохранения получателей")
	}

	b.log.Info().Int64("chat_id", chat.ID).Str("title", chatTitle(chat)).Msg("Добавлен получатель анкет")
	return c.Send("✅ This chat will now receive survey submissions.")
}

// handleUnsubscribe отписывает текущий чат
func (b *Bot) handleUnsubscribe(c telebot.Context) error {
	if !b.storage.RemoveRecipient(c.Chat().ID) {
		return c.Send("This chat is not subscribed.")
	}
	if err := b.storage.SaveData(); err != nil {
		b.log.Error().Err(err).Msg("Ошибка сохранения получателей")
	}

	b.log.Info().Int64("chat_id", c.Chat().ID).Msg("Получатель анкет удалён")
	return c.Send("This chat will no longer receive survey submissions.")
}

// handleStats показывает метрики бота. Доступно только чатам-получателям.
func (b *Bot) handleStats(c telebot.Context) error {
	if !b.storage.IsRecipient(c.Chat().ID) {
		return c.Send("This command is available to subscribed chats only.")
	}

	stats := b.metrics.GetStats()
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("📊 Statistics\n\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s: %v\n", k, stats[k])
	}
	fmt.Fprintf(&sb, "recipients: %d\n", len(b.storage.GetChatIDs()))
	fmt.Fprintf(&sb, "sessions_in_memory: %d", b.sessions.len())

	return c.Send(sb.String())
}
