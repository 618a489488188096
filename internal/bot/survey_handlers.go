package bot

import (
	"strconv"
	"strings"
	"time"

	"surveybot/internal/survey"

	"gopkg.in/telebot.v3"
)

const sessionExpired = "Your survey session has expired. Use /survey to start again."

// handleSurvey начинает новый опрос или возвращает к текущему шагу
func (b *Bot) handleSurvey(c telebot.Context) error {
	if c.Sender() == nil {
		return nil
	}
	userID := c.Sender().ID

	if sess, ok := b.sessions.get(userID); ok {
		sess.mu.Lock()
		defer sess.mu.Unlock()
		if !sess.wizard.Submitted() {
			sess.stopWaiting()
			text, menu := renderStep(sess.wizard)
			return b.show(c, text, menu)
		}
	}

	sess := b.sessions.start(userID, b.sink)
	b.metrics.IncSessionsStarted()
	b.metrics.IncActiveSessions()
	b.log.Info().Int64("user_id", userID).Msg("Начат новый опрос")

	sess.mu.Lock()
	defer sess.mu.Unlock()
	text, menu := renderStep(sess.wizard)
	return b.show(c, text, menu)
}

// handleCancel прерывает опрос без отправки
func (b *Bot) handleCancel(c telebot.Context) error {
	if c.Sender() == nil {
		return nil
	}
	if !b.sessions.remove(c.Sender().ID) {
		return b.show(c, "You have no survey in progress. Use /survey to start one.", nil)
	}
	b.log.Info().Int64("user_id", c.Sender().ID).Msg("Опрос отменён пользователем")
	return b.show(c, "Survey cancelled. Your answers were discarded. Use /survey to start again.", nil)
}

// withSession выполняет fn под блокировкой сессии пользователя.
// Для отправленной анкеты кнопки больше не действуют.
func (b *Bot) withSession(c telebot.Context, fn func(sess *session) error) error {
	if c.Sender() == nil {
		return nil
	}
	sess, ok := b.sessions.get(c.Sender().ID)
	if !ok {
		return b.show(c, sessionExpired, nil)
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.wizard.Submitted() {
		return c.Respond(&telebot.CallbackResponse{Text: "This survey has already been submitted."})
	}
	return fn(sess)
}

// callbackArgs разбирает данные кнопки вида "field|value"
func callbackArgs(c telebot.Context) (survey.Field, string, error) {
	parts := strings.SplitN(c.Data(), "|", 2)
	f, err := survey.FieldByKey(parts[0])
	if err != nil {
		return 0, "", err
	}
	if len(parts) == 2 {
		return f, parts[1], nil
	}
	return f, "", nil
}

// rejectCallback отвечает на некорректную кнопку и пишет предупреждение в лог
func (b *Bot) rejectCallback(c telebot.Context, err error) error {
	b.log.Warn().Err(err).Str("data", c.Data()).Msg("Некорректные данные кнопки")
	return c.Respond(&telebot.CallbackResponse{Text: "This button is no longer valid."})
}

// handleFieldCallback открывает редактор поля
func (b *Bot) handleFieldCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		f, _, err := callbackArgs(c)
		if err != nil {
			return b.rejectCallback(c, err)
		}

		if k := f.Kind(); k == survey.KindNumber || k == survey.KindText {
			sess.await(f)
		} else {
			sess.stopWaiting()
		}
		text, menu := renderEditor(sess.wizard, f)
		return b.show(c, text, menu)
	})
}

// handleOptionCallback выбирает вариант и возвращает к шагу
func (b *Bot) handleOptionCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		f, id, err := callbackArgs(c)
		if err != nil {
			return b.rejectCallback(c, err)
		}
		change, err := survey.Choose(f, id)
		if err != nil {
			return b.rejectCallback(c, err)
		}

		sess.wizard.Update(change)
		sess.stopWaiting()
		text, menu := renderStep(sess.wizard)
		return b.show(c, text, menu)
	})
}

// handleToggleCallback переключает вариант множественного выбора, оставаясь в редакторе
func (b *Bot) handleToggleCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		f, id, err := callbackArgs(c)
		if err != nil {
			return b.rejectCallback(c, err)
		}
		change, err := survey.Toggle(f, id)
		if err != nil {
			return b.rejectCallback(c, err)
		}

		sess.wizard.Update(change)
		text, menu := renderEditor(sess.wizard, f)
		return b.show(c, text, menu)
	})
}

// handleNumberCallback устанавливает числовое значение из предложенных
func (b *Bot) handleNumberCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		f, raw, err := callbackArgs(c)
		if err != nil {
			return b.rejectCallback(c, err)
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return b.rejectCallback(c, err)
		}
		change, err := survey.Number(f, n)
		if err != nil {
			return b.rejectCallback(c, err)
		}

		sess.wizard.Update(change)
		sess.stopWaiting()
		text, menu := renderStep(sess.wizard)
		return b.show(c, text, menu)
	})
}

// handleClearCallback очищает текстовый ответ
func (b *Bot) handleClearCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		f, _, err := callbackArgs(c)
		if err != nil {
			return b.rejectCallback(c, err)
		}
		change, err := survey.Text(f, "")
		if err != nil {
			return b.rejectCallback(c, err)
		}

		sess.wizard.Update(change)
		text, menu := renderEditor(sess.wizard, f)
		return b.show(c, text, menu)
	})
}

// handleViewCallback возвращает к экрану текущего шага
func (b *Bot) handleViewCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		sess.stopWaiting()
		text, menu := renderStep(sess.wizard)
		return b.show(c, text, menu)
	})
}

// handleBackCallback переходит на предыдущий шаг
func (b *Bot) handleBackCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		sess.stopWaiting()
		sess.wizard.Retreat()
		text, menu := renderStep(sess.wizard)
		return b.show(c, text, menu)
	})
}

// handleNextCallback проверяет шаг и переходит дальше; на последнем шаге отправляет анкету
func (b *Bot) handleNextCallback(c telebot.Context) error {
	return b.withSession(c, func(sess *session) error {
		sess.stopWaiting()
		userID := c.Sender().ID
		step := sess.wizard.Step()

		outcome := sess.wizard.Advance()
		log := b.log.With().Int64("user_id", userID).Int("step", step).Str("outcome", outcome.String()).Logger()

		switch outcome {
		case survey.Rejected:
			b.metrics.IncStepsRejected()
			log.Debug().Int("errors", len(sess.wizard.Errors())).Msg("Шаг не прошёл проверку")

		case survey.Advanced:
			b.metrics.IncStepsAdvanced()
			log.Debug().Msg("Переход к следующему шагу")

		case survey.Submitted:
			b.metrics.IncSubmissions()
			duration := time.Since(sess.started)
			b.metrics.UpdateSurveyDuration(duration)
			log.Info().Dur("duration", duration).Msg("Анкета отправлена")

			text, menu := renderSuccess(sess.wizard, b.opts.WhatsAppNumber)
			return b.show(c, text, menu)
		}

		text, menu := renderStep(sess.wizard)
		return b.show(c, text, menu)
	})
}
