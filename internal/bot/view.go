package bot

import (
	"fmt"
	"strconv"
	"strings"

	"surveybot/internal/sink"
	"surveybot/internal/survey"

	"gopkg.in/telebot.v3"
)

// Уникальные идентификаторы inline-кнопок мастера
const (
	uniqueField  = "sv_field"
	uniqueOption = "sv_opt"
	uniqueToggle = "sv_tgl"
	uniqueNumber = "sv_num"
	uniqueClear  = "sv_clear"
	uniqueView   = "sv_view"
	uniqueBack   = "sv_back"
	uniqueNext   = "sv_next"
	uniqueCancel = "sv_cancel"
	uniqueFAQ    = "faq"
)

const emptyValue = "—"

// displayValue возвращает значение поля в виде для пользователя: подписи вариантов вместо идентификаторов.
func displayValue(f survey.Field, a survey.Answers) string {
	switch f.Kind() {
	case survey.KindChoice:
		if v := a.Value(f); v != "" {
			return f.Catalog().LabelOf(v)
		}
	case survey.KindSet:
		members := a.Members(f)
		if len(members) > 0 {
			labels := make([]string, len(members))
			for i, id := range members {
				labels[i] = f.Catalog().LabelOf(id)
			}
			return strings.Join(labels, ", ")
		}
	case survey.KindNumber:
		return a.Value(f)
	default:
		if v := strings.TrimSpace(a.Value(f)); v != "" {
			return v
		}
	}
	return emptyValue
}

// renderStep строит экран текущего шага: значения полей, ошибки и навигацию.
func renderStep(w *survey.Wizard) (string, *telebot.ReplyMarkup) {
	step, _ := survey.StepAt(w.Step())
	answers := w.Answers()
	errs := w.Errors()

	var b strings.Builder
	fmt.Fprintf(&b, "Step %d/%d · %s\n%s\n\n", step.Index+1, survey.StepCount, step.Name, step.Title)

	menu := &telebot.ReplyMarkup{}
	var rows []telebot.Row
	for _, f := range step.Fields {
		marker := ""
		if step.Required(f) {
			marker = " *"
		}
		prefix := "•"
		if errs.Has(f) {
			prefix = "❗"
		}
		fmt.Fprintf(&b, "%s %s%s: %s\n", prefix, f.Label(), marker, displayValue(f, answers))
		rows = append(rows, menu.Row(menu.Data("✏️ "+f.Label(), uniqueField, f.Key())))
	}

	if !errs.Empty() {
		b.WriteString("\n⚠️ Please fix the following errors:\n")
		for _, fe := range errs.List() {
			fmt.Fprintf(&b, "• %s\n", fe.Message)
		}
	}

	var nav []telebot.Btn
	if w.Step() > 0 {
		nav = append(nav, menu.Data("⬅️ Previous", uniqueBack))
	}
	if w.IsLast() {
		nav = append(nav, menu.Data("Submit ✨", uniqueNext))
	} else {
		nav = append(nav, menu.Data("Next ➡️", uniqueNext))
	}
	rows = append(rows, menu.Row(nav...))
	rows = append(rows, menu.Row(menu.Data("✖️ Cancel survey", uniqueCancel)))
	menu.Inline(rows...)

	return strings.TrimRight(b.String(), "\n"), menu
}

// renderEditor строит экран редактирования одного поля.
func renderEditor(w *survey.Wizard, f survey.Field) (string, *telebot.ReplyMarkup) {
	answers := w.Answers()
	menu := &telebot.ReplyMarkup{}
	var rows []telebot.Row

	var b strings.Builder
	b.WriteString(f.Prompt())
	if msg, ok := w.Errors()[f]; ok {
		fmt.Fprintf(&b, "\n\n❗ %s", msg)
	}

	switch f.Kind() {
	case survey.KindChoice:
		current := answers.Value(f)
		for _, o := range f.Catalog() {
			text := o.Label
			if o.ID == current {
				text = "🔘 " + text
			}
			rows = append(rows, menu.Row(menu.Data(text, uniqueOption, f.Key(), o.ID)))
		}
		rows = append(rows, menu.Row(menu.Data("⬅️ Back to step", uniqueView)))

	case survey.KindSet:
		b.WriteString("\n\nSelect all that apply.")
		for _, o := range f.Catalog() {
			text := "▫️ " + o.Label
			if answers.Selected(f, o.ID) {
				text = "✅ " + o.Label
			}
			rows = append(rows, menu.Row(menu.Data(text, uniqueToggle, f.Key(), o.ID)))
		}
		rows = append(rows, menu.Row(menu.Data("✔️ Done", uniqueView)))

	case survey.KindNumber:
		bounds := f.Bounds()
		fmt.Fprintf(&b, "\n\nCurrent value: %s. Tap a value or send a number from %d to %d.",
			answers.Value(f), bounds.Min, bounds.Max)
		var row telebot.Row
		for _, n := range f.Presets() {
			row = append(row, menu.Data(strconv.Itoa(n), uniqueNumber, f.Key(), strconv.Itoa(n)))
			if len(row) == 5 {
				rows = append(rows, row)
				row = nil
			}
		}
		if len(row) > 0 {
			rows = append(rows, row)
		}
		rows = append(rows, menu.Row(menu.Data("⬅️ Back to step", uniqueView)))

	default:
		if v := strings.TrimSpace(answers.Value(f)); v != "" {
			fmt.Fprintf(&b, "\n\nCurrent answer: %s", v)
		}
		b.WriteString("\n\nSend your answer as a message.")
		nav := telebot.Row{menu.Data("⬅️ Back to step", uniqueView)}
		if answers.Value(f) != "" {
			nav = append(nav, menu.Data("🗑 Clear", uniqueClear, f.Key()))
		}
		rows = append(rows, nav)
	}

	menu.Inline(rows...)
	return b.String(), menu
}

// renderSuccess строит финальный экран после отправки анкеты.
func renderSuccess(w *survey.Wizard, whatsAppNumber string) (string, *telebot.ReplyMarkup) {
	answers := w.Answers()
	name := strings.TrimSpace(answers.ContactName)

	var b strings.Builder
	b.WriteString("🎉 Thank you")
	if name != "" {
		b.WriteString(", " + name)
	}
	b.WriteString("!\n\nYour responses have been submitted. Our team will review them and reach out")
	if answers.BetaInterest == "yes" || answers.BetaInterest == "maybe" {
		b.WriteString(" with details about the beta program")
	}
	b.WriteString(".\n\nUse /survey to start a new survey.")

	link := sink.WhatsAppLink(whatsAppNumber, survey.Format(answers))
	if link == "" {
		return b.String(), nil
	}
	menu := &telebot.ReplyMarkup{}
	menu.Inline(menu.Row(menu.URL("💬 Send via WhatsApp", link)))
	return b.String(), menu
}
