package version

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGet_IsSemver(t *testing.T) {
	assert.Regexp(t, regexp.MustCompile(`^v\d+\.\d+\.\d+$`), Get())
}

func TestUserAgent(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })

	Version = "v1.2.3\n"
	assert.Equal(t, "scentory/1.2.3", UserAgent())
}
