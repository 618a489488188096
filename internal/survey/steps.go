package survey

// Step описывает один экран мастера.
type Step struct {
	Index  int
	Name   string
	Title  string
	Fields []Field
}

// Required сообщает, обязательно ли поле на этом шаге.
func (s Step) Required(f Field) bool {
	switch f {
	case FieldDailyTransactions, FieldPainLevel, FieldBiggestWish, FieldContactPhone, FieldBusinessLocation:
		return false
	}
	for _, sf := range s.Fields {
		if sf == f {
			return true
		}
	}
	return false
}

// Validate проверяет поля шага.
func (s Step) Validate(a Answers) Errors { return ValidateStep(s.Index, a) }

var steps = []Step{
	{
		Index:  0,
		Name:   "Business Info",
		Title:  "🏢 About Your Business",
		Fields: []Field{FieldBusinessType, FieldBusinessSize, FieldDailyTransactions},
	},
	{
		Index:  1,
		Name:   "Challenges",
		Title:  "⚠️ Your Challenges",
		Fields: []Field{FieldChallenges, FieldPainLevel, FieldCurrentSolution},
	},
	{
		Index:  2,
		Name:   "Technology",
		Title:  "⚡ Technology Preferences",
		Fields: []Field{FieldFeatures, FieldTechComfort, FieldBudgetRange},
	},
	{
		Index:  3,
		Name:   "Vision",
		Title:  "💡 Your Vision",
		Fields: []Field{FieldBusinessGoals, FieldBiggestWish, FieldBetaInterest},
	},
	{
		Index:  4,
		Name:   "Contact",
		Title:  "✉️ Contact Information",
		Fields: []Field{FieldContactName, FieldContactEmail, FieldContactPhone, FieldBusinessLocation},
	},
}

// StepCount содержит число шагов мастера.
var StepCount = len(steps)

// Steps возвращает копию реестра шагов.
func Steps() []Step {
	out := make([]Step, len(steps))
	copy(out, steps)
	return out
}

// StepAt возвращает описание шага по индексу.
func StepAt(i int) (Step, bool) {
	if i < 0 || i >= len(steps) {
		return Step{}, false
	}
	return steps[i], true
}
