// Package langmeta provides a shared language metadata registry
// (ISO codes, English names, native names) used to reconcile catalog
// headers: synthesizing a Language field from a Language-Team name and
// canonicalizing user-supplied catalog names.
package langmeta

import (
	"strings"

	"golang.org/x/text/language"
)

// Meta describes one language.
type Meta struct {
	Code    string
	English string
	Native  string
}

// Registry contains canonical language metadata, keyed by ISO 639 code.
var Registry = []Meta{
	{"af", "Afrikaans", "Afrikaans"},
	{"am", "Amharic", "አማርኛ"},
	{"ar", "Arabic", "العربية"},
	{"az", "Azerbaijani", "Azərbaycanca"},
	{"be", "Belarusian", "Беларуская"},
	{"bg", "Bulgarian", "Български"},
	{"bn", "Bengali", "বাংলা"},
	{"bs", "Bosnian", "Bosanski"},
	{"ca", "Catalan", "Català"},
	{"cs", "Czech", "Čeština"},
	{"cy", "Welsh", "Cymraeg"},
	{"da", "Danish", "Dansk"},
	{"de", "German", "Deutsch"},
	{"el", "Greek", "Ελληνικά"},
	{"en", "English", "English"},
	{"eo", "Esperanto", "Esperanto"},
	{"es", "Spanish", "Español"},
	{"et", "Estonian", "Eesti"},
	{"eu", "Basque", "Euskara"},
	{"fa", "Persian", "فارسی"},
	{"fi", "Finnish", "Suomi"},
	{"fr", "French", "Français"},
	{"ga", "Irish", "Gaeilge"},
	{"gl", "Galician", "Galego"},
	{"gu", "Gujarati", "ગુજરાતી"},
	{"he", "Hebrew", "עברית"},
	{"hi", "Hindi", "हिन्दी"},
	{"hr", "Croatian", "Hrvatski"},
	{"hu", "Hungarian", "Magyar"},
	{"hy", "Armenian", "Հայերեն"},
	{"id", "Indonesian", "Bahasa Indonesia"},
	{"is", "Icelandic", "Íslenska"},
	{"it", "Italian", "Italiano"},
	{"ja", "Japanese", "日本語"},
	{"ka", "Georgian", "ქართული"},
	{"kk", "Kazakh", "Қазақ тілі"},
	{"km", "Khmer", "ខ្មែរ"},
	{"kn", "Kannada", "ಕನ್ನಡ"},
	{"ko", "Korean", "한국어"},
	{"lt", "Lithuanian", "Lietuvių"},
	{"lv", "Latvian", "Latviešu"},
	{"mk", "Macedonian", "Македонски"},
	{"ml", "Malayalam", "മലയാളം"},
	{"mn", "Mongolian", "Монгол"},
	{"mr", "Marathi", "मराठी"},
	{"ms", "Malay", "Bahasa Melayu"},
	{"mt", "Maltese", "Malti"},
	{"my", "Burmese", "မြန်မာ"},
	{"nb", "Norwegian Bokmal", "Norsk bokmål"},
	{"ne", "Nepali", "नेपाली"},
	{"nl", "Dutch", "Nederlands"},
	{"nn", "Norwegian Nynorsk", "Norsk nynorsk"},
	{"no", "Norwegian", "Norsk"},
	{"pa", "Punjabi", "ਪੰਜਾਬੀ"},
	{"pl", "Polish", "Polski"},
	{"pt", "Portuguese", "Português"},
	{"ro", "Romanian", "Română"},
	{"ru", "Russian", "Русский"},
	{"si", "Sinhala", "සිංහල"},
	{"sk", "Slovak", "Slovenčina"},
	{"sl", "Slovenian", "Slovenščina"},
	{"sq", "Albanian", "Shqip"},
	{"sr", "Serbian", "Српски"},
	{"sv", "Swedish", "Svenska"},
	{"sw", "Swahili", "Kiswahili"},
	{"ta", "Tamil", "தமிழ்"},
	{"te", "Telugu", "తెలుగు"},
	{"th", "Thai", "ไทย"},
	{"tr", "Turkish", "Türkçe"},
	{"uk", "Ukrainian", "Українська"},
	{"ur", "Urdu", "اردو"},
	{"uz", "Uzbek", "Oʻzbekcha"},
	{"vi", "Vietnamese", "Tiếng Việt"},
	{"zh", "Chinese", "中文"},
}

// Variants are language-plus-territory entries whose English names
// differ from the plain language name. Checked before Registry so
// e.g. "Brazilian Portuguese" resolves to pt_BR rather than pt.
var Variants = []Meta{
	{"pt_BR", "Brazilian Portuguese", "Português (Brasil)"},
	{"zh_CN", "Simplified Chinese", "简体中文"},
	{"zh_TW", "Traditional Chinese", "繁體中文"},
	{"en_GB", "British English", "English (UK)"},
	{"en_US", "American English", "English (US)"},
	{"es_AR", "Argentinian Spanish", "Español (Argentina)"},
	{"es_MX", "Mexican Spanish", "Español (México)"},
	{"fr_CA", "Canadian French", "Français (Canada)"},
	{"de_AT", "Austrian German", "Deutsch (Österreich)"},
	{"de_CH", "Swiss German", "Deutsch (Schweiz)"},
	{"nl_BE", "Flemish", "Vlaams"},
}

// CodeForEnglishName resolves the English name of a language to its
// code, checking territory variants first. The match is exact, since
// Language-Team values are conventionally capitalized English names.
func CodeForEnglishName(name string) (string, bool) {
	for _, m := range Variants {
		if m.English == name {
			return m.Code, true
		}
	}
	for _, m := range Registry {
		if m.English == name {
			return m.Code, true
		}
	}
	return "", false
}

// NativeName returns the native name for a code, falling back to the
// base language and finally to the code itself.
func NativeName(code string) string {
	if n := lookupNative(code); n != "" {
		return n
	}
	if base, _, ok := strings.Cut(code, "_"); ok {
		if n := lookupNative(base); n != "" {
			return n
		}
	}
	return code
}

func lookupNative(code string) string {
	for _, m := range Variants {
		if m.Code == code {
			return m.Native
		}
	}
	for _, m := range Registry {
		if m.Code == code {
			return m.Native
		}
	}
	return ""
}

// Canonical normalizes a user-supplied catalog name ("pt-br", "PT_BR")
// to gettext's ll_CC spelling. Unparseable input is returned unchanged
// and treated as opaque by callers.
func Canonical(name string) string {
	tag, err := language.Parse(strings.ReplaceAll(name, "_", "-"))
	if err != nil {
		return name
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return name
	}
	region, confidence := tag.Region()
	if confidence != language.Exact || !region.IsCountry() {
		return base.String()
	}
	return base.String() + "_" + region.String()
}
