package survey

import (
	"regexp"
	"sort"
	"strings"
)

// emailChar исключает "@" и пробельные символы Unicode, включая неразрывный
// пробел, разделители строк и BOM. \s в RE2 покрывает только ASCII.
const emailChar = `[^\t\n\v\f\r\p{Zs}\x{2028}\x{2029}\x{FEFF}@]`

var emailPattern = regexp.MustCompile(`^` + emailChar + `+@` + emailChar + `+\.` + emailChar + `+$`)

// FieldError описывает ошибку проверки конкретного поля.
type FieldError struct {
	Field   Field
	Message string
}

func (e FieldError) Error() string { return e.Field.Key() + ": " + e.Message }

// Errors хранит набор ошибок проверки по полям.
type Errors map[Field]string

// Empty сообщает, что ошибок нет.
func (e Errors) Empty() bool { return len(e) == 0 }

// Has сообщает, есть ли ошибка для поля.
func (e Errors) Has(f Field) bool {
	_, ok := e[f]
	return ok
}

// List возвращает ошибки в порядке объявления полей.
func (e Errors) List() []FieldError {
	out := make([]FieldError, 0, len(e))
	for f, msg := range e {
		out = append(out, FieldError{Field: f, Message: msg})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Field < out[j].Field })
	return out
}

func (e Errors) clone() Errors {
	c := make(Errors, len(e))
	for f, msg := range e {
		c[f] = msg
	}
	return c
}

// ValidateStep проверяет обязательные поля шага step. Для неизвестного шага ошибок нет.
func ValidateStep(step int, a Answers) Errors {
	errs := Errors{}

	switch step {
	case 0:
		if a.BusinessType == "" {
			errs[FieldBusinessType] = "Please select your business type"
		}
		if a.BusinessSize == "" {
			errs[FieldBusinessSize] = "Please select your business size"
		}

	case 1:
		if len(a.Challenges) == 0 {
			errs[FieldChallenges] = "Please select at least one challenge you face"
		}
		if a.CurrentSolution == "" {
			errs[FieldCurrentSolution] = "Please select how you currently handle cash counting"
		}

	case 2:
		if len(a.Features) == 0 {
			errs[FieldFeatures] = "Please select at least one feature that interests you"
		}
		if a.TechComfort == "" {
			errs[FieldTechComfort] = "Please indicate your comfort level with technology"
		}
		if a.BudgetRange == "" {
			errs[FieldBudgetRange] = "Please select a budget range"
		}

	case 3:
		if strings.TrimSpace(a.BusinessGoals) == "" {
			errs[FieldBusinessGoals] = "Please share your business goals"
		}
		if a.BetaInterest == "" {
			errs[FieldBetaInterest] = "Please indicate your interest in beta testing"
		}

	case 4:
		if a.ContactEmail == "" {
			errs[FieldContactEmail] = "Email address is required"
		} else if !emailPattern.MatchString(a.ContactEmail) {
			errs[FieldContactEmail] = "Please enter a valid email address"
		}
		if strings.TrimSpace(a.ContactName) == "" {
			errs[FieldContactName] = "Please enter your name"
		}
	}

	return errs
}
