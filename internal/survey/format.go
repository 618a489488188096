package survey

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SubmissionBanner содержит первую строку итогового сообщения.
const SubmissionBanner = "New Survey Submission:"

// HumanizeKey превращает идентификатор в читаемое имя:
// пробел перед каждой заглавной буквой, первая буква заглавная.
func HumanizeKey(key string) string {
	var b strings.Builder
	b.Grow(len(key) + 4)
	for _, r := range key {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	s := b.String()
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 {
		return s
	}
	return strings.TrimSpace(string(unicode.ToUpper(r)) + s[size:])
}

// Format собирает итоговое сообщение: баннер, пустая строка и строки
// "<Имя поля>: <значение>" в порядке объявления полей. Поля с пустым значением пропускаются.
func Format(a Answers) string {
	lines := make([]string, 0, len(fields))
	for _, f := range AllFields() {
		v := a.Value(f)
		if strings.TrimSpace(v) == "" {
			continue
		}
		lines = append(lines, f.Label()+": "+v)
	}
	return SubmissionBanner + "\n\n" + strings.Join(lines, "\n")
}
