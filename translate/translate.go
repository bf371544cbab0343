// Package translate formats user-facing messages through a locale-matched
// message printer.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// supported lists the catalog languages. The first entry is the fallback
// and uses the keys themselves as messages.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.German,
	language.Spanish,
}

var catalog = map[language.Tag]map[string]string{
	language.German: {
		"invalid number %q":                "ungültige Zahl %q",
		"unknown choice %q":                "unbekannte Auswahl %q",
		"x0 is hard-wired to zero":         "x0 ist fest auf null verdrahtet",
		"address or value out of range":    "Adresse oder Wert außerhalb des Bereichs",
		"value %d does not fit in 32 bits": "Wert %d passt nicht in 32 Bit",
		"stopped after %d cycles":          "nach %d Zyklen angehalten",
		"label duplicated":                 "Marke doppelt definiert",
	},
	language.Spanish: {
		"invalid number %q":                "número no válido %q",
		"unknown choice %q":                "opción desconocida %q",
		"x0 is hard-wired to zero":         "x0 está fijado a cero",
		"address or value out of range":    "dirección o valor fuera de rango",
		"value %d does not fit in 32 bits": "el valor %d no cabe en 32 bits",
		"stopped after %d cycles":          "detenido tras %d ciclos",
		"label duplicated":                 "etiqueta duplicada",
	},
}

var printer *message.Printer

func init() {
	for tag, entries := range catalog {
		for key, msg := range entries {
			if err := message.SetString(tag, key, msg); err != nil {
				log.Printf("rv32pipe: catalog %v: %v", tag, err)
			}
		}
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("rv32pipe: locale: %v", err)
	}

	printer = message.NewPrinter(Match(locales...))
}

// Match returns the catalog language that best fits the given locale
// names. Unparseable names are skipped and no match yields en-US.
func Match(locales ...string) language.Tag {
	var tags []language.Tag
	for _, l := range locales {
		tag, err := language.Parse(l)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
	}

	_, index, confidence := language.NewMatcher(supported).Match(tags...)
	if confidence == language.No {
		return supported[0]
	}
	return supported[index]
}

// From formats an en-US Sprintf() style key for the current locale.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// In formats key for the given language.
func In(tag language.Tag, key message.Reference, args ...any) string {
	return message.NewPrinter(tag).Sprintf(key, args...)
}
