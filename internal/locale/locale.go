package locale

// Language selects which side of a localized text pair is rendered.
type Language string

const (
	Arabic  Language = "ar"
	English Language = "en"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == Arabic || l == English
}

// Text is a localized string pair. Arabic is the primary language on the
// platform; English is optional and falls back to Arabic when empty.
type Text struct {
	Ar string `json:"ar"`
	En string `json:"en,omitempty"`
}

// In returns the text for the given language, falling back to Arabic when
// the English side is empty.
func (t Text) In(lang Language) string {
	if lang == English && t.En != "" {
		return t.En
	}
	return t.Ar
}

// IsZero reports whether both sides of the pair are empty.
func (t Text) IsZero() bool {
	return t.Ar == "" && t.En == ""
}

// Pick chooses between a primary (Arabic) and an optional English string,
// mirroring the pair fallback for entities that carry two flat fields
// instead of a pair.
func Pick(lang Language, ar, en string) string {
	if lang == English && en != "" {
		return en
	}
	return ar
}
