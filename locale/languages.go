package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// SupportedLanguages is the fixed, ordered set of language codes that
// translation prediction covers.
var SupportedLanguages = []string{
	"ar", "ca", "de", "en", "es", "es-MX", "fr", "ga-IE", "hi", "id",
	"it", "ja", "ko", "ku", "pl", "pt", "pt-BR", "ru", "th", "tr",
	"uk", "ur", "vi", "zh", "zh-CN", "zh-TW",
}

var supported = func() map[string]int {
	m := make(map[string]int, len(SupportedLanguages))
	for i, l := range SupportedLanguages {
		m[l] = i
	}
	return m
}()

func IsSupported(code string) bool {
	_, ok := supported[code]
	return ok
}

// SupportedIndex returns the position of code in SupportedLanguages or -1.
func SupportedIndex(code string) int {
	if i, ok := supported[code]; ok {
		return i
	}
	return -1
}

// Canonical normalizes the casing of a language code, e.g. es-mx -> es-MX.
func Canonical(code string) string {
	code = strings.TrimSpace(strings.ReplaceAll(code, "_", "-"))
	for _, l := range SupportedLanguages {
		if strings.EqualFold(l, code) {
			return l
		}
	}
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	return tag.String()
}

type meta struct {
	name   string
	native string
}

var metadata = map[string]meta{
	"ar":    {"Arabic", "العربية"},
	"ca":    {"Catalan", "Català"},
	"de":    {"German", "Deutsch"},
	"en":    {"English", "English"},
	"es":    {"Spanish", "Español"},
	"es-MX": {"Spanish (Mexico)", "Español (México)"},
	"fr":    {"French", "Français"},
	"ga-IE": {"Irish", "Gaeilge"},
	"hi":    {"Hindi", "हिन्दी"},
	"id":    {"Indonesian", "Bahasa Indonesia"},
	"it":    {"Italian", "Italiano"},
	"ja":    {"Japanese", "日本語"},
	"ko":    {"Korean", "한국어"},
	"ku":    {"Kurdish", "Kurdî"},
	"pl":    {"Polish", "Polski"},
	"pt":    {"Portuguese", "Português"},
	"pt-BR": {"Portuguese (Brazil)", "Português (Brasil)"},
	"ru":    {"Russian", "Русский"},
	"th":    {"Thai", "ไทย"},
	"tr":    {"Turkish", "Türkçe"},
	"uk":    {"Ukrainian", "Українська"},
	"ur":    {"Urdu", "اردو"},
	"vi":    {"Vietnamese", "Tiếng Việt"},
	"zh":    {"Chinese", "中文"},
	"zh-CN": {"Chinese (Simplified)", "简体中文"},
	"zh-TW": {"Chinese (Traditional)", "繁體中文"},
}

// Name returns the English name of code, or the upper-cased code.
func Name(code string) string {
	if m, ok := metadata[code]; ok {
		return m.name
	}
	return strings.ToUpper(code)
}

func NativeName(code string) string {
	if m, ok := metadata[code]; ok {
		return m.native
	}
	return strings.ToUpper(code)
}
