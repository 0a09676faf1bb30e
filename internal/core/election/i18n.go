package election

import (
	"sort"

	"golang.org/x/text/language"
)

// I18nText is localizable text keyed by BCP 47 language code
type I18nText map[string]string

// DefaultLanguage is the fallback when a requested language is missing
const DefaultLanguage = "en"

// Text returns the best translation for lang, falling back to english, then
// to the first key in lexical order
func (t I18nText) Text(lang string) string {
	if len(t) == 0 {
		return ""
	}
	if v, ok := t[lang]; ok {
		return v
	}
	if lang != "" {
		if want, err := language.Parse(lang); err == nil {
			base, _ := want.Base()
			if v, ok := t[base.String()]; ok {
				return v
			}
		}
	}
	if v, ok := t[DefaultLanguage]; ok {
		return v
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return t[keys[0]]
}

// invalidKeys returns language keys that do not parse as BCP 47
func (t I18nText) invalidKeys() []string {
	var bad []string
	for k := range t {
		if _, err := language.Parse(k); err != nil {
			bad = append(bad, k)
		}
	}
	sort.Strings(bad)
	return bad
}
