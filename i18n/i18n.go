// Package i18n provides internationalization support for pomerge's own
// user-facing strings.
//
// It wraps the gotext library to provide simple T() and N() functions.
// Translations are embedded in the binary via //go:embed and loaded at
// startup via Init(). Before Init (or when no catalog matches) both
// functions pass the msgid through unchanged, standard gettext
// behavior.
package i18n

import (
	"embed"
	"os"
	"strings"

	"github.com/leonelquinteros/gotext"
)

// locales embeds the compiled translation files.
// Directory structure: locales/{lang}/LC_MESSAGES/pomerge.po
//
//go:embed all:locales
var locales embed.FS

// domain is the gettext domain name for pomerge itself.
const domain = "pomerge"

var po *gotext.Locale

// Init initializes the i18n system. If lang is empty, it auto-detects
// from LANGUAGE, LC_ALL, LC_MESSAGES and LANG in that order, matching
// GNU gettext behavior. Call once at program startup.
func Init(lang string) {
	if lang == "" {
		lang = detectLanguage()
	}
	po = gotext.NewLocaleFSWithPath(lang, locales, "locales")
	po.AddDomain(domain)
	po.SetDomain(domain)
}

// T translates a string.
func T(msgid string) string {
	if po == nil {
		return msgid
	}
	return po.Get(msgid)
}

// N translates a string with plural forms, selected by n.
func N(msgid, plural string, n int) string {
	if po == nil {
		if n == 1 {
			return msgid
		}
		return plural
	}
	return po.GetN(msgid, plural, n)
}

// detectLanguage picks the locale from the environment, stripping any
// encoding suffix (".UTF-8") and modifier ("@latin").
func detectLanguage() string {
	for _, v := range []string{"LANGUAGE", "LC_ALL", "LC_MESSAGES", "LANG"} {
		val := os.Getenv(v)
		if val == "" || val == "C" || val == "POSIX" {
			continue
		}
		if v == "LANGUAGE" {
			// LANGUAGE is a colon-separated priority list.
			val, _, _ = strings.Cut(val, ":")
		}
		val, _, _ = strings.Cut(val, ".")
		val, _, _ = strings.Cut(val, "@")
		return val
	}
	return "en"
}
