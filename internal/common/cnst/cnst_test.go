package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppConstants(t *testing.T) {
	assert.Equal(t, "scentory", AppName)
	assert.Equal(t, "apiserver.yaml", ApiServerYaml)
}

func TestLangConstants(t *testing.T) {
	assert.Equal(t, "X-Lang", XLang)
	assert.Equal(t, LangEN, LangDefault)
	assert.NotEqual(t, LangEN, LangZH)
}

func TestParseRole(t *testing.T) {
	assert.Equal(t, RoleAdmin, ParseRole("ADMIN"))
	assert.Equal(t, RoleUser, ParseRole("USER"))
	assert.Equal(t, RoleUser, ParseRole(""))
	assert.Equal(t, RoleUser, ParseRole("admin"))
	assert.False(t, Role("ROOT").Valid())
}
