// Package models содержит структуры данных, которые бот хранит на диске:
// получателей анкет и справочные ответы (FAQ).
package models

import "time"

// Recipient представляет чат, в который доставляются отправленные анкеты.
type Recipient struct {
	ChatID  int64     `json:"chat_id"`
	Title   string    `json:"title,omitempty"` // Имя пользователя или название группы
	AddedBy int64     `json:"added_by"`
	AddedAt time.Time `json:"added_at"`
}

// FAQItem представляет элемент FAQ (вопрос-ответ).
type FAQItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// FAQData представляет набор элементов FAQ, индексированных по ключу.
type FAQData map[string]FAQItem

// DefaultFAQ используется, если файл FAQ не найден.
var DefaultFAQ = FAQData{
	"about": {
		Question: "What is this survey about?",
		Answer:   "We are building an automated cash counting and business insights system for businesses in Ghana. Your answers help us shape it around real needs.",
	},
	"time": {
		Question: "How long does it take?",
		Answer:   "About 3 minutes. There are 5 short steps and you can go back at any time.",
	},
	"privacy": {
		Question: "What happens to my answers?",
		Answer:   "Your answers are sent once to our team when you press Submit. We only use your contact details to reach you about the beta program.",
	},
}
