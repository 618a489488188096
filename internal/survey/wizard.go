package survey

// Sink принимает отформатированный текст анкеты и доставляет его адресатам.
// Вызов не блокирует мастер, результат доставки мастеру не сообщается.
type Sink interface {
	Deliver(text string)
}

// SinkFunc позволяет использовать обычную функцию как Sink.
type SinkFunc func(text string)

// Deliver вызывает f(text).
func (f SinkFunc) Deliver(text string) { f(text) }

// Outcome описывает результат попытки перехода вперёд.
type Outcome int

const (
	// Rejected: на текущем шаге есть ошибки, шаг не изменился.
	Rejected Outcome = iota
	// Advanced: мастер перешёл на следующий шаг.
	Advanced
	// Submitted: анкета отформатирована и передана в Sink.
	Submitted
	// Closed: анкета уже отправлена, мастер не принимает действий.
	Closed
)

func (o Outcome) String() string {
	switch o {
	case Rejected:
		return "rejected"
	case Advanced:
		return "advanced"
	case Submitted:
		return "submitted"
	case Closed:
		return "closed"
	}
	return "unknown"
}

// Wizard хранит состояние мастера опроса: текущий шаг, ответы и ошибки проверки.
// Не потокобезопасен: вызывающая сторона обеспечивает последовательный доступ.
type Wizard struct {
	step      int
	submitted bool
	answers   Answers
	errs      Errors
	sink      Sink
}

// NewWizard создаёт мастер на первом шаге с ответами по умолчанию.
func NewWizard(sink Sink) *Wizard {
	return &Wizard{
		answers: NewAnswers(),
		errs:    Errors{},
		sink:    sink,
	}
}

// Step возвращает индекс текущего шага.
func (w *Wizard) Step() int { return w.step }

// Submitted сообщает, что анкета отправлена.
func (w *Wizard) Submitted() bool { return w.submitted }

// Answers возвращает копию текущих ответов.
func (w *Wizard) Answers() Answers { return w.answers.Clone() }

// Errors возвращает копию текущих ошибок проверки.
func (w *Wizard) Errors() Errors { return w.errs.clone() }

// IsLast сообщает, что текущий шаг последний.
func (w *Wizard) IsLast() bool { return w.step == StepCount-1 }

// Update применяет изменения по порядку и снимает ошибки с изменённых полей,
// даже если новое значение тоже некорректно. После отправки ничего не делает.
func (w *Wizard) Update(changes ...Change) {
	if w.submitted {
		return
	}
	for _, c := range changes {
		if c.apply == nil {
			continue
		}
		c.apply(&w.answers)
		delete(w.errs, c.field)
	}
}

// Advance проверяет текущий шаг и при успехе переходит дальше.
// На последнем шаге анкета форматируется и передаётся в Sink ровно один раз.
func (w *Wizard) Advance() Outcome {
	if w.submitted {
		return Closed
	}

	errs := ValidateStep(w.step, w.answers)
	if !errs.Empty() {
		w.errs = errs
		return Rejected
	}
	w.errs = Errors{}

	if w.step < StepCount-1 {
		w.step++
		return Advanced
	}

	text := Format(w.answers)
	if w.sink != nil {
		w.sink.Deliver(text)
	}
	w.submitted = true
	return Submitted
}

// Retreat возвращает на предыдущий шаг и очищает ошибки без повторной проверки.
// На первом шаге и после отправки возвращает false.
func (w *Wizard) Retreat() bool {
	if w.submitted || w.step == 0 {
		return false
	}
	w.step--
	w.errs = Errors{}
	return true
}
