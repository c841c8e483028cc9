package openapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestDocument_Validates(t *testing.T) {
	doc := Document("Perfume Tracker", "v0.1.0")
	require.NoError(t, doc.Validate(context.Background()))
	assert.Equal(t, "Perfume Tracker", doc.Info.Title)
}

func TestDocument_Routes(t *testing.T) {
	doc := Document("Perfume Tracker", "v0.1.0")

	for _, path := range []string{
		"/", "/auth/register", "/auth/login", "/auth/me", "/auth/logout",
		"/perfumes", "/perfumes/{id}", "/perfumes/{id}/purchases",
		"/purchases", "/purchases/{id}",
		"/stats/spending", "/stats/most_expensive",
		"/admin/stats/dashboard", "/admin/stats/top-users", "/admin/users", "/admin/users/{id}",
	} {
		assert.NotNil(t, doc.Paths.Value(path), path)
	}

	perfume := doc.Paths.Value("/perfumes/{id}")
	require.NotNil(t, perfume.Get)
	require.NotNil(t, perfume.Patch)
	require.NotNil(t, perfume.Delete)
	assert.ElementsMatch(t, []string{"204", "401", "403", "404"}, StatusCodes(perfume.Delete))
	require.NotNil(t, perfume.Get.Security)

	adminUser := doc.Paths.Value("/admin/users/{id}")
	require.NotNil(t, adminUser.Delete)
	assert.ElementsMatch(t, []string{"204", "400", "401", "403", "404"}, StatusCodes(adminUser.Delete))

	health := doc.Paths.Value("/").Get
	require.NotNil(t, health)
	assert.Nil(t, health.Security)

	login := doc.Paths.Value("/auth/login").Post
	require.NotNil(t, login)
	form := login.RequestBody.Value.Content.Get("application/x-www-form-urlencoded")
	require.NotNil(t, form)
	assert.ElementsMatch(t, []string{"username", "password"}, form.Schema.Value.Required)
	assert.Nil(t, login.RequestBody.Value.Content.Get("multipart/form-data"))
	assert.Len(t, login.RequestBody.Value.Content, 1)
}

func TestDocument_JSON(t *testing.T) {
	raw, err := json.Marshal(Document("Perfume Tracker", "v0.1.0"))
	require.NoError(t, err)

	body := string(raw)
	assert.Equal(t, "3.0.3", gjson.Get(body, "openapi").String())
	assert.Equal(t, "#/components/schemas/User", gjson.Get(body, `paths./auth/me.get.responses.200.content.application/json.schema.$ref`).String())
	assert.True(t, gjson.Get(body, "components.schemas.TopUsers.properties.most_perfumes.nullable").Bool())
	assert.Equal(t, http.StatusText(http.StatusNoContent), gjson.Get(body, `paths./auth/logout.post.responses.204.description`).String())
}
