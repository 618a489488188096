package survey

import (
	"fmt"
	"strconv"
	"strings"
)

// Answers хранит ответы анкеты. Каждое поле всегда имеет значение.
type Answers struct {
	BusinessType      string
	BusinessSize      string
	DailyTransactions int
	Challenges        []string
	PainLevel         int
	CurrentSolution   string
	Features          []string
	TechComfort       string
	BudgetRange       string
	BusinessGoals     string
	BiggestWish       string
	BetaInterest      string
	ContactName       string
	ContactEmail      string
	ContactPhone      string
	BusinessLocation  string
}

// NewAnswers возвращает анкету со значениями по умолчанию.
func NewAnswers() Answers {
	return Answers{
		DailyTransactions: 50,
		Challenges:        []string{},
		PainLevel:         5,
		Features:          []string{},
	}
}

// Clone возвращает копию, не разделяющую срезы с исходной анкетой.
func (a Answers) Clone() Answers {
	c := a
	c.Challenges = append([]string{}, a.Challenges...)
	c.Features = append([]string{}, a.Features...)
	return c
}

func (a *Answers) str(f Field) *string {
	switch f {
	case FieldBusinessType:
		return &a.BusinessType
	case FieldBusinessSize:
		return &a.BusinessSize
	case FieldCurrentSolution:
		return &a.CurrentSolution
	case FieldTechComfort:
		return &a.TechComfort
	case FieldBudgetRange:
		return &a.BudgetRange
	case FieldBusinessGoals:
		return &a.BusinessGoals
	case FieldBiggestWish:
		return &a.BiggestWish
	case FieldBetaInterest:
		return &a.BetaInterest
	case FieldContactName:
		return &a.ContactName
	case FieldContactEmail:
		return &a.ContactEmail
	case FieldContactPhone:
		return &a.ContactPhone
	case FieldBusinessLocation:
		return &a.BusinessLocation
	}
	return nil
}

func (a *Answers) num(f Field) *int {
	switch f {
	case FieldDailyTransactions:
		return &a.DailyTransactions
	case FieldPainLevel:
		return &a.PainLevel
	}
	return nil
}

func (a *Answers) set(f Field) *[]string {
	switch f {
	case FieldChallenges:
		return &a.Challenges
	case FieldFeatures:
		return &a.Features
	}
	return nil
}

// Value возвращает значение поля в виде строки; множества разделяются ", ".
func (a Answers) Value(f Field) string {
	switch f.Kind() {
	case KindNumber:
		if p := a.num(f); p != nil {
			return strconv.Itoa(*p)
		}
	case KindSet:
		if p := a.set(f); p != nil {
			return strings.Join(*p, ", ")
		}
	default:
		if p := a.str(f); p != nil {
			return *p
		}
	}
	return ""
}

// Members возвращает выбранные значения поля-множества.
func (a Answers) Members(f Field) []string {
	if p := a.set(f); p != nil {
		return append([]string{}, (*p)...)
	}
	return nil
}

// Selected сообщает, отмечен ли вариант id в поле-множестве.
func (a Answers) Selected(f Field, id string) bool {
	if p := a.set(f); p != nil {
		for _, v := range *p {
			if v == id {
				return true
			}
		}
	}
	return false
}

// Change представляет типизированное изменение одного поля анкеты.
// Создаётся конструкторами Choose, Text, Number, Toggle и SetMembers.
type Change struct {
	field Field
	apply func(*Answers)
}

// Field возвращает изменяемое поле.
func (c Change) Field() Field { return c.field }

func expectKind(f Field, kinds ...Kind) error {
	if !f.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownField, int(f))
	}
	for _, k := range kinds {
		if f.Kind() == k {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrFieldKind, f.Key())
}

// Choose выбирает вариант справочника для поля KindChoice.
// Пустое значение сбрасывает выбор.
func Choose(f Field, id string) (Change, error) {
	if err := expectKind(f, KindChoice); err != nil {
		return Change{}, err
	}
	if id != "" && !f.Catalog().Has(id) {
		return Change{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Key(), id)
	}
	return Change{field: f, apply: func(a *Answers) { *a.str(f) = id }}, nil
}

// Text задаёт произвольный текст для поля KindText.
func Text(f Field, v string) (Change, error) {
	if err := expectKind(f, KindText); err != nil {
		return Change{}, err
	}
	return Change{field: f, apply: func(a *Answers) { *a.str(f) = v }}, nil
}

// Number задаёт значение числового поля, приводя его к допустимому диапазону.
func Number(f Field, n int) (Change, error) {
	if err := expectKind(f, KindNumber); err != nil {
		return Change{}, err
	}
	n = f.Bounds().Clamp(n)
	return Change{field: f, apply: func(a *Answers) { *a.num(f) = n }}, nil
}

// Toggle добавляет вариант в поле-множество или удаляет его, если он уже выбран.
func Toggle(f Field, id string) (Change, error) {
	if err := expectKind(f, KindSet); err != nil {
		return Change{}, err
	}
	if !f.Catalog().Has(id) {
		return Change{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Key(), id)
	}
	return Change{field: f, apply: func(a *Answers) {
		p := a.set(f)
		for i, v := range *p {
			if v == id {
				*p = append((*p)[:i:i], (*p)[i+1:]...)
				return
			}
		}
		*p = append(*p, id)
	}}, nil
}

// SetMembers заменяет содержимое поля-множества, повторы отбрасываются.
func SetMembers(f Field, ids ...string) (Change, error) {
	if err := expectKind(f, KindSet); err != nil {
		return Change{}, err
	}
	members := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !f.Catalog().Has(id) {
			return Change{}, fmt.Errorf("%w: %s=%q", ErrUnknownOption, f.Key(), id)
		}
		if !seen[id] {
			seen[id] = true
			members = append(members, id)
		}
	}
	return Change{field: f, apply: func(a *Answers) { *a.set(f) = append([]string{}, members...) }}, nil
}

// MustChange возвращает изменение или паникует при ошибке конструктора.
// Предназначена для статически известных значений.
func MustChange(c Change, err error) Change {
	if err != nil {
		panic(err)
	}
	return c
}
