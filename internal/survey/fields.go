// Package survey содержит ядро мастера опроса: поля анкеты, справочники вариантов,
// шаги, валидацию, навигацию и форматирование итогового сообщения.
package survey

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrFieldKind     = errors.New("field kind mismatch")
	ErrUnknownOption = errors.New("unknown option")
)

// Kind определяет, как поле редактируется и отображается.
type Kind int

const (
	// KindChoice: одно значение из справочника.
	KindChoice Kind = iota
	// KindSet: несколько значений из справочника.
	KindSet
	// KindNumber: целое число в диапазоне.
	KindNumber
	// KindText: произвольный текст.
	KindText
)

// Field представляет закрытый перечень полей анкеты в порядке объявления.
type Field int

const (
	FieldBusinessType Field = iota
	FieldBusinessSize
	FieldDailyTransactions
	FieldChallenges
	FieldPainLevel
	FieldCurrentSolution
	FieldFeatures
	FieldTechComfort
	FieldBudgetRange
	FieldBusinessGoals
	FieldBiggestWish
	FieldBetaInterest
	FieldContactName
	FieldContactEmail
	FieldContactPhone
	FieldBusinessLocation
)

// Option представляет вариант ответа справочника.
type Option struct {
	ID    string
	Label string
}

// Catalog представляет упорядоченный закрытый набор вариантов.
type Catalog []Option

// Has сообщает, есть ли вариант с таким идентификатором.
func (c Catalog) Has(id string) bool {
	for _, o := range c {
		if o.ID == id {
			return true
		}
	}
	return false
}

// LabelOf возвращает подпись варианта или сам идентификатор.
func (c Catalog) LabelOf(id string) string {
	for _, o := range c {
		if o.ID == id {
			return o.Label
		}
	}
	return id
}

// Range задаёт допустимый диапазон числового поля.
type Range struct {
	Min, Max int
}

// Clamp приводит значение к диапазону.
func (r Range) Clamp(n int) int {
	if n < r.Min {
		return r.Min
	}
	if n > r.Max {
		return r.Max
	}
	return n
}

type fieldSpec struct {
	key     string
	kind    Kind
	prompt  string
	catalog Catalog
	bounds  Range
	presets []int
}

var (
	BusinessTypes = Catalog{
		{"retail-store", "Retail Store/Shop"},
		{"supermarket", "Supermarket/Grocery Store"},
		{"restaurant", "Restaurant/Food Service"},
		{"pharmacy", "Pharmacy/Medical Store"},
		{"convenience", "Convenience Store"},
		{"electronics", "Electronics/Tech Store"},
		{"fashion", "Fashion/Clothing Store"},
		{"bank", "Bank/Financial Institution"},
		{"mall", "Shopping Mall"},
		{"showroom", "Showroom/Exhibition Space"},
		{"service", "Service Business"},
		{"other", "Other"},
	}

	BusinessSizes = Catalog{
		{"single", "Single Location"},
		{"2-5", "2-5 Locations"},
		{"6-10", "6-10 Locations"},
		{"10+", "10+ Locations"},
	}

	Challenges = Catalog{
		{"countingErrors", "Manual counting errors"},
		{"timeConsuming", "Time-consuming processes"},
		{"security", "Security concerns"},
		{"counterfeit", "Counterfeit money"},
		{"tracking", "Cash flow tracking"},
		{"staffTime", "Staff time management"},
	}

	CurrentSolutions = Catalog{
		{"manual", "Manual counting by staff"},
		{"basic-machine", "Basic counting machine"},
		{"pos-system", "POS system tracking"},
		{"combination", "Combination of methods"},
		{"outsourced", "Outsourced to security company"},
	}

	Features = Catalog{
		{"autoCount", "💰 Automatic cash counting"},
		{"realTimeReports", "📊 Real-time business reports"},
		{"fraudDetection", "🔍 Fraud detection"},
		{"remoteMonitoring", "📱 Remote monitoring"},
		{"predictiveAnalytics", "📈 Sales predictions"},
		{"mobileIntegration", "📲 Mobile app control"},
	}

	TechComfortLevels = Catalog{
		{"early-adopter", "🚀 Early adopter"},
		{"cautious", "🤔 Cautiously optimistic"},
		{"skeptical", "🧐 Skeptical but open"},
		{"traditional", "📝 Prefer traditional methods"},
	}

	BudgetRanges = Catalog{
		{"0-100", "GH₵ 0-100"},
		{"100-300", "GH₵ 100-300"},
		{"300-500", "GH₵ 300-500"},
		{"500-1000", "GH₵ 500-1000"},
		{"1000+", "GH₵ 1000+"},
		{"depends", "Depends on ROI"},
	}

	BetaInterests = Catalog{
		{"yes", "✅ Yes, definitely!"},
		{"maybe", "🤔 Maybe, tell me more"},
		{"no", "❌ Not interested"},
	}
)

// fields описывает поля в порядке объявления; порядок используется форматтером.
var fields = [...]fieldSpec{
	FieldBusinessType:      {key: "businessType", kind: KindChoice, prompt: "What type of business do you operate?", catalog: BusinessTypes},
	FieldBusinessSize:      {key: "businessSize", kind: KindChoice, prompt: "How many locations do you operate?", catalog: BusinessSizes},
	FieldDailyTransactions: {key: "dailyTransactions", kind: KindNumber, prompt: "Approximately how many cash transactions do you handle daily?", bounds: Range{0, 1000}, presets: []int{10, 50, 100, 250, 500, 1000}},
	FieldChallenges:        {key: "challenges", kind: KindSet, prompt: "What challenges do you face with cash handling?", catalog: Challenges},
	FieldPainLevel:         {key: "painLevel", kind: KindNumber, prompt: "How much do these challenges affect your business? (1-10)", bounds: Range{1, 10}, presets: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	FieldCurrentSolution:   {key: "currentSolution", kind: KindChoice, prompt: "How do you currently handle cash counting?", catalog: CurrentSolutions},
	FieldFeatures:          {key: "features", kind: KindSet, prompt: "Which features would be most valuable to your business?", catalog: Features},
	FieldTechComfort:       {key: "techComfort", kind: KindChoice, prompt: "How comfortable are you with adopting new technology?", catalog: TechComfortLevels},
	FieldBudgetRange:       {key: "budgetRange", kind: KindChoice, prompt: "What monthly budget would you consider for an automated solution?", catalog: BudgetRanges},
	FieldBusinessGoals:     {key: "businessGoals", kind: KindText, prompt: "What are your main business goals for the next 1-2 years?"},
	FieldBiggestWish:       {key: "biggestWish", kind: KindText, prompt: "If you could solve one business problem with technology, what would it be?"},
	FieldBetaInterest:      {key: "betaInterest", kind: KindChoice, prompt: "Would you be interested in joining our beta testing program?", catalog: BetaInterests},
	FieldContactName:       {key: "contactName", kind: KindText, prompt: "Your name"},
	FieldContactEmail:      {key: "contactEmail", kind: KindText, prompt: "Email address"},
	FieldContactPhone:      {key: "contactPhone", kind: KindText, prompt: "Phone number (optional)"},
	FieldBusinessLocation:  {key: "businessLocation", kind: KindText, prompt: "Business location (optional)"},
}

// AllFields возвращает все поля в порядке объявления.
func AllFields() []Field {
	out := make([]Field, len(fields))
	for i := range fields {
		out[i] = Field(i)
	}
	return out
}

// Valid сообщает, входит ли значение в перечень полей.
func (f Field) Valid() bool { return f >= 0 && int(f) < len(fields) }

// Key возвращает идентификатор поля в camelCase, например businessGoals.
func (f Field) Key() string {
	if !f.Valid() {
		return fmt.Sprintf("field(%d)", int(f))
	}
	return fields[f].key
}

// Label возвращает читаемое имя поля, например "Business Goals".
func (f Field) Label() string { return HumanizeKey(f.Key()) }

func (f Field) String() string { return f.Key() }

// Kind возвращает тип поля.
func (f Field) Kind() Kind {
	if !f.Valid() {
		return KindText
	}
	return fields[f].kind
}

// Prompt возвращает вопрос, который задаётся пользователю.
func (f Field) Prompt() string {
	if !f.Valid() {
		return ""
	}
	return fields[f].prompt
}

// Catalog возвращает справочник для полей KindChoice и KindSet.
func (f Field) Catalog() Catalog {
	if !f.Valid() {
		return nil
	}
	return fields[f].catalog
}

// Bounds возвращает диапазон числового поля.
func (f Field) Bounds() Range {
	if !f.Valid() {
		return Range{}
	}
	return fields[f].bounds
}

// Presets возвращает быстрые значения для числового поля.
func (f Field) Presets() []int {
	if !f.Valid() {
		return nil
	}
	return fields[f].presets
}

// FieldByKey ищет поле по идентификатору.
func FieldByKey(key string) (Field, error) {
	for i, spec := range fields {
		if spec.key == key {
			return Field(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownField, key)
}
