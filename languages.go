package lingo

import "strings"

// Language describes one UI-selectable language.
type Language struct {
	Code         string // UI-facing ISO 639 code; cache entries always key on this
	DisplayName  string // English display name
	NativeName   string // name in the language itself
	Glyph        string // short glyph shown in the language picker
	FallbackCode string // substitute code sent to the remote engine, empty when natively supported
}

// Languages is the closed set of languages the application ships with.
// Several regional languages of the deployment area lack native support from
// the remote engine and are routed through a widely supported substitute.
var Languages = []Language{
	{Code: "en", DisplayName: "English", NativeName: "English", Glyph: "A"},
	{Code: "hi", DisplayName: "Hindi", NativeName: "हिन्दी", Glyph: "अ"},
	{Code: "as", DisplayName: "Assamese", NativeName: "অসমীয়া", Glyph: "অ"},
	{Code: "bn", DisplayName: "Bengali", NativeName: "বাংলা", Glyph: "ব"},
	{Code: "ne", DisplayName: "Nepali", NativeName: "नेपाली", Glyph: "न"},
	{Code: "brx", DisplayName: "Bodo", NativeName: "बर'", Glyph: "ब", FallbackCode: "hi"},
	{Code: "mni", DisplayName: "Manipuri", NativeName: "মৈতৈলোন্", Glyph: "ম", FallbackCode: "bn"},
	{Code: "kha", DisplayName: "Khasi", NativeName: "Ka Ktien Khasi", Glyph: "K", FallbackCode: "en"},
	{Code: "lus", DisplayName: "Mizo", NativeName: "Mizo ṭawng", Glyph: "M", FallbackCode: "en"},
	{Code: "grt", DisplayName: "Garo", NativeName: "A·chikku", Glyph: "G", FallbackCode: "en"},
}

var languageIndex = func() map[string]Language {
	idx := make(map[string]Language, len(Languages))
	for _, l := range Languages {
		idx[l.Code] = l
	}
	return idx
}()

// LookupLanguage returns the descriptor for a language code.
func LookupLanguage(code string) (Language, bool) {
	l, ok := languageIndex[normalizeBaseLang(code)]
	return l, ok
}

// ResolveAPICode returns the code sent to the remote engine for a UI-facing
// language code: the configured fallback if one exists, the code itself
// otherwise. Applied only at the adapter boundary; cache keys are never
// affected.
func ResolveAPICode(code string) string {
	if l, ok := LookupLanguage(code); ok && l.FallbackCode != "" {
		return l.FallbackCode
	}
	return code
}

// SupportedCodes lists the UI-facing codes of the closed language set.
func SupportedCodes() []string {
	codes := make([]string, len(Languages))
	for i, l := range Languages {
		codes[i] = l.Code
	}
	return codes
}

// LanguageName returns the human-readable name for a language code.
// Falls back to the code itself if not found.
func LanguageName(code string) string {
	if l, ok := LookupLanguage(code); ok {
		return l.DisplayName
	}
	return code
}

// RTLLanguages contains language codes that use right-to-left text direction.
var RTLLanguages = map[string]bool{
	"ar": true, // Arabic
	"he": true, // Hebrew
	"fa": true, // Persian/Farsi
	"ur": true, // Urdu
	"ps": true, // Pashto
	"sd": true, // Sindhi
}

// GetDirection returns "rtl" for right-to-left languages, "ltr" otherwise.
func GetDirection(code string) string {
	if RTLLanguages[normalizeBaseLang(code)] {
		return "rtl"
	}
	return "ltr"
}

// IsRTL returns true if the language uses right-to-left text direction.
func IsRTL(code string) bool {
	return GetDirection(code) == "rtl"
}

// normalizeBaseLang extracts the base language code (e.g., "en" from "en_US").
func normalizeBaseLang(code string) string {
	code = strings.ReplaceAll(strings.TrimSpace(code), "-", "_")
	if i := strings.IndexByte(code, '_'); i >= 0 {
		code = code[:i]
	}
	return strings.ToLower(code)
}

// sameLanguage reports whether two codes address the same base language, in
// which case translation is an identity operation.
func sameLanguage(a, b string) bool {
	return normalizeBaseLang(a) == normalizeBaseLang(b)
}
