package cnst

const (
	// XLang is the header (and gin context key) carrying the preferred response language
	XLang = "X-Lang"

	LangEN = "en"
	LangZH = "zh"

	LangDefault = LangEN
)
