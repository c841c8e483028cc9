package i18n

import (
	"embed"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/gin-gonic/gin"
	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/scentory/scentory/internal/common/cnst"
)

//go:embed locales/*.toml
var builtinLocales embed.FS

var (
	translatorMu sync.RWMutex
	translator   *I18n
	defaultLang  = cnst.LangDefault
)

// InitTranslator builds the global translator from the embedded bundles and,
// when overrideDir is not empty, every *.toml file found there.
func InitTranslator(overrideDir string) error {
	t := NewI18n(language.English)
	if err := t.LoadEmbedded(); err != nil {
		return err
	}
	if overrideDir != "" {
		if err := t.LoadTranslations(overrideDir); err != nil {
			return err
		}
	}

	translatorMu.Lock()
	translator = t
	translatorMu.Unlock()
	return nil
}

// GetTranslator returns the global translator, initializing it from the
// embedded bundles on first use.
func GetTranslator() *I18n {
	translatorMu.RLock()
	t := translator
	translatorMu.RUnlock()
	if t != nil {
		return t
	}
	if err := InitTranslator(""); err != nil {
		return nil
	}
	translatorMu.RLock()
	defer translatorMu.RUnlock()
	return translator
}

// I18n manages internationalization and translations
type I18n struct {
	bundle      *i18n.Bundle
	defaultLang language.Tag
}

// NewI18n creates a new I18n instance with the specified default language
func NewI18n(defaultLang language.Tag) *I18n {
	bundle := i18n.NewBundle(defaultLang)
	bundle.RegisterUnmarshalFunc("toml", toml.Unmarshal)

	return &I18n{
		bundle:      bundle,
		defaultLang: defaultLang,
	}
}

// LoadEmbedded loads the translations compiled into the binary
func (i *I18n) LoadEmbedded() error {
	entries, err := builtinLocales.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("failed to read embedded translations: %w", err)
	}
	for _, entry := range entries {
		if _, err := i.bundle.LoadMessageFileFS(builtinLocales, "locales/"+entry.Name()); err != nil {
			return fmt.Errorf("failed to load embedded translation %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// LoadTranslations loads translation files from the specified directory
func (i *I18n) LoadTranslations(translationsDir string) error {
	files, err := os.ReadDir(translationsDir)
	if err != nil {
		return fmt.Errorf("failed to read translations directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".toml") {
			continue
		}
		if _, err := i.bundle.LoadMessageFile(filepath.Join(translationsDir, file.Name())); err != nil {
			return fmt.Errorf("failed to load translation %s: %w", file.Name(), err)
		}
	}

	return nil
}

// Translate returns a localized string for the given message ID and language
func (i *I18n) Translate(msgID string, lang string, templateData map[string]any) string {
	localizer := i18n.NewLocalizer(i.bundle, language.Make(lang).String(), i.defaultLang.String())

	lc := &i18n.LocalizeConfig{MessageID: msgID}
	if len(templateData) > 0 {
		lc.TemplateData = templateData
	}

	msg, err := localizer.Localize(lc)
	if err != nil {
		return msgID
	}
	return msg
}

// LanguageFromRequest picks the response language: X-Lang first, then the
// highest weighted supported entry of Accept-Language, then the default.
func LanguageFromRequest(r *http.Request) string {
	if lang := r.Header.Get(cnst.XLang); lang != "" {
		return normalizeLang(lang)
	}

	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil {
		return defaultLang
	}
	for _, tag := range tags {
		if lang, ok := supportedBase(tag); ok {
			return lang
		}
	}
	return defaultLang
}

// normalizeLang maps a language tag such as "zh_TW" or "EN-us" onto a
// supported base language
func normalizeLang(lang string) string {
	tag, err := language.Parse(strings.ReplaceAll(lang, "_", "-"))
	if err != nil {
		return defaultLang
	}
	if base, ok := supportedBase(tag); ok {
		return base
	}
	return defaultLang
}

func supportedBase(tag language.Tag) (string, bool) {
	base, _ := tag.Base()
	switch b := base.String(); b {
	case cnst.LangEN, cnst.LangZH:
		return b, true
	default:
		return "", false
	}
}

func languageFromContext(c *gin.Context) string {
	if c == nil {
		return defaultLang
	}
	if lang := c.GetString(cnst.XLang); lang != "" {
		return lang
	}
	if c.Request != nil {
		return LanguageFromRequest(c.Request)
	}
	return defaultLang
}

// TranslateMessage translates a message ID using the context's language preference
func TranslateMessage(c *gin.Context, msgID string, data map[string]any) string {
	if t := GetTranslator(); t != nil {
		return t.Translate(msgID, languageFromContext(c), data)
	}
	return msgID
}
