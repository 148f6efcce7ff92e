package normalize

import (
	"sort"
	"strings"
)

// Expansion maps an abbreviation to its spoken form.
type Expansion struct {
	Short  string
	Spoken string
	// TakesPeriod marks courtesy titles whose trailing period belongs to the
	// abbreviation ("Dr. Smith"). Era and list abbreviations keep the period
	// because it often ends the sentence.
	TakesPeriod bool
}

// Locale holds the language-specific tables used by the normalizer.
// Locales are values; the built-in ones must not be modified.
type Locale struct {
	Code          string
	Abbreviations []Expansion
	Percent       string
	Celsius       string
	Fahrenheit    string
	Thousand      string
	Million       string
	Billion       string
}

// Spanish is the default locale.
var Spanish = Locale{
	Code: "es",
	Abbreviations: []Expansion{
		{Short: "Sr", Spoken: "Señor", TakesPeriod: true},
		{Short: "Sra", Spoken: "Señora", TakesPeriod: true},
		{Short: "Srta", Spoken: "Señorita", TakesPeriod: true},
		{Short: "Dr", Spoken: "Doctor", TakesPeriod: true},
		{Short: "Dra", Spoken: "Doctora", TakesPeriod: true},
		{Short: "Av", Spoken: "Avenida", TakesPeriod: true},
		{Short: "etc", Spoken: "etcétera"},
		{Short: "a.C", Spoken: "antes de Cristo"},
		{Short: "A.C", Spoken: "antes de Cristo"},
		{Short: "a.E.C", Spoken: "antes de la era común"},
		{Short: "d.C", Spoken: "después de Cristo"},
		{Short: "E.C", Spoken: "era común"},
	},
	Percent:    "por ciento",
	Celsius:    "grados Celsius",
	Fahrenheit: "grados Fahrenheit",
	Thousand:   "mil",
	Million:    "millones",
	Billion:    "mil millones",
}

// English is used for books narrated with an English voice.
var English = Locale{
	Code: "en",
	Abbreviations: []Expansion{
		{Short: "Mr", Spoken: "Mister", TakesPeriod: true},
		{Short: "Mrs", Spoken: "Missus", TakesPeriod: true},
		{Short: "Ms", Spoken: "Miss", TakesPeriod: true},
		{Short: "Dr", Spoken: "Doctor", TakesPeriod: true},
		{Short: "Prof", Spoken: "Professor", TakesPeriod: true},
		{Short: "Jr", Spoken: "Junior", TakesPeriod: true},
		{Short: "Sr", Spoken: "Senior", TakesPeriod: true},
		{Short: "vs", Spoken: "versus", TakesPeriod: true},
		{Short: "etc", Spoken: "et cetera"},
		{Short: "B.C", Spoken: "before Christ"},
		{Short: "A.D", Spoken: "anno Domini"},
		{Short: "B.C.E", Spoken: "before common era"},
		{Short: "BCE", Spoken: "before common era"},
		{Short: "C.E", Spoken: "common era"},
	},
	Percent:    "percent",
	Celsius:    "degrees Celsius",
	Fahrenheit: "degrees Fahrenheit",
	Thousand:   "thousand",
	Million:    "million",
	Billion:    "billion",
}

var locales = map[string]Locale{
	"es": Spanish,
	"en": English,
}

// LocaleFor returns the locale for a language code such as "ES", "es-MX" or
// "EN_US". Unknown codes fall back to Spanish.
func LocaleFor(code string) Locale {
	code = strings.ToLower(strings.TrimSpace(code))
	if i := strings.IndexAny(code, "-_"); i >= 0 {
		code = code[:i]
	}
	if l, ok := locales[code]; ok {
		return l
	}
	return Spanish
}

// lookup returns the expansion for an abbreviation.
func (l Locale) lookup(short string) (Expansion, bool) {
	for _, e := range l.Abbreviations {
		if e.Short == short {
			return e, true
		}
	}
	return Expansion{}, false
}

// alternatives returns the quoted abbreviations, longest first, so that
// "a.E.C" wins over "E.C" and "Srta" over "Sr" at the same position.
func (l Locale) alternatives() []string {
	shorts := make([]string, 0, len(l.Abbreviations))
	for _, e := range l.Abbreviations {
		shorts = append(shorts, e.Short)
	}
	sort.SliceStable(shorts, func(i, j int) bool {
		return len(shorts[i]) > len(shorts[j])
	})
	return shorts
}
