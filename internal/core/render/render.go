// Package render turns diagnostics into localized sentences for people.
// The engine never calls it; transports and the CLI do
package render

import (
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"golang.org/x/text/language"

	"ballotaudit/internal/core/plaintext"
)

// message is one localized template; params lists the diagnostic params
// substituted for {0}, {1}, ... in order
type message struct {
	params []string
	text   map[string]string
}

var messages = map[string]message{
	plaintext.KindSelectedMax.MessageKey(): {
		params: []string{plaintext.ParamNumSelected, plaintext.ParamMax},
		text: map[string]string{
			"en": "{0} options selected, at most {1} allowed",
			"es": "{0} opciones seleccionadas, se permiten como máximo {1}",
		},
	},
	plaintext.KindSelectedMin.MessageKey(): {
		params: []string{plaintext.ParamNumSelected, plaintext.ParamMin},
		text: map[string]string{
			"en": "{0} options selected, at least {1} required",
			"es": "{0} opciones seleccionadas, se requieren al menos {1}",
		},
	},
	plaintext.KindExplicitNotAllowed.MessageKey(): {
		text: map[string]string{
			"en": "This contest does not accept an explicit invalid vote",
			"es": "Esta pregunta no admite el voto nulo explícito",
		},
	},
	plaintext.KindDuplicatedPosition.MessageKey(): {
		params: []string{plaintext.ParamPosition},
		text: map[string]string{
			"en": "Preference {0} is used more than once",
			"es": "La preferencia {0} se usa más de una vez",
		},
	},
	plaintext.KindPositionOutOfRange.MessageKey(): {
		params: []string{plaintext.ParamPosition, plaintext.ParamMax},
		text: map[string]string{
			"en": "Preference {0} is outside the allowed range of {1}",
			"es": "La preferencia {0} está fuera del rango permitido de {1}",
		},
	},
	plaintext.KindBlankNotAllowed.MessageKey(): {
		text: map[string]string{
			"en": "A blank vote is not allowed in this contest",
			"es": "No se permite el voto en blanco en esta pregunta",
		},
	},
	plaintext.KindWriteInOutOfRange.MessageKey(): {
		params: []string{plaintext.ParamIndex},
		text: map[string]string{
			"en": "The write-in has an unsupported character at position {0}",
			"es": "El candidato escrito tiene un carácter no admitido en la posición {0}",
		},
	},
	plaintext.KindWriteInBadTerminator.MessageKey(): {
		text: map[string]string{
			"en": "The write-in is not terminated correctly",
			"es": "El candidato escrito no termina correctamente",
		},
	},
	plaintext.KindWriteInEncodingError.MessageKey(): {
		text: map[string]string{
			"en": "The write-in could not be read as text",
			"es": "El candidato escrito no se pudo leer como texto",
		},
	},
}

// Supported lists the locales with templates, default first
var Supported = []language.Tag{language.English, language.Spanish}

var matcher = language.NewMatcher(Supported)

// Renderer formats diagnostics; it is read-only after New and safe for concurrent use
type Renderer struct {
	uni *ut.UniversalTranslator
}

// New registers every template for every supported locale
func New() (*Renderer, error) {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc, es.New())
	for key, m := range messages {
		for locale, text := range m.text {
			tr, ok := uni.GetTranslator(locale)
			if !ok {
				return nil, fmt.Errorf("render: locale %q not registered", locale)
			}
			if err := tr.Add(key, text, false); err != nil {
				return nil, fmt.Errorf("render: %s/%s: %w", locale, key, err)
			}
		}
	}
	if err := uni.VerifyTranslations(); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return &Renderer{uni: uni}, nil
}

// Render formats d in lang, falling back to english. Unknown message keys
// render as the key itself
func (r *Renderer) Render(lang string, d plaintext.Diagnostic) string {
	tr, ok := r.uni.GetTranslator(Match(lang))
	if !ok {
		tr = r.uni.GetFallback()
	}
	m, known := messages[d.MessageKey]
	if !known {
		return d.MessageKey
	}
	args := make([]string, len(m.params))
	for i, p := range m.params {
		if v, ok := d.Params[p]; ok {
			args[i] = fmt.Sprint(v)
		}
	}
	s, err := tr.T(d.MessageKey, args...)
	if err != nil {
		return d.MessageKey
	}
	return s
}

// RenderAll formats every diagnostic of c
func (r *Renderer) RenderAll(lang string, c plaintext.Contest) []string {
	out := make([]string, 0, len(c.Diagnostics))
	for _, d := range c.Diagnostics {
		out = append(out, r.Render(lang, d))
	}
	return out
}

// Match picks the supported locale closest to an Accept-Language value or
// a bare language code
func Match(acceptLanguage string) string {
	acceptLanguage = strings.TrimSpace(acceptLanguage)
	if acceptLanguage == "" {
		return "en"
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return "en"
	}
	_, idx, _ := matcher.Match(tags...)
	base, _ := Supported[idx].Base()
	return base.String()
}
