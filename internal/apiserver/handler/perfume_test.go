package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPerfumeCRUD(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")

	res := s.do(http.MethodPost, "/perfumes", token, map[string]any{
		"name": "Sauvage", "brand": "Dior", "concentration": "EDT", "season": "SUMMER",
	})
	require.Equal(t, http.StatusCreated, res.Code, res.Body)
	assert.True(t, res.get("available").Bool())
	assert.Equal(t, "EDT", res.get("concentration").String())
	id := res.get("id").Int()
	path := fmt.Sprintf("/perfumes/%d", id)

	res = s.do(http.MethodGet, path, token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "Sauvage", res.get("name").String())

	res = s.do(http.MethodPatch, path, token, map[string]any{"available": false, "season": "WINTER"})
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.False(t, res.get("available").Bool())
	assert.Equal(t, "WINTER", res.get("season").String())
	assert.Equal(t, "Dior", res.get("brand").String())

	res = s.do(http.MethodPatch, path, token, map[string]any{"season": "SPRING"})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = s.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNoContent, res.Code)
	res = s.do(http.MethodGet, path, token, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
	assert.Equal(t, "Perfume not found", res.get("error").String())

	res = s.do(http.MethodGet, "/perfumes/abc", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestPerfumeValidation(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")

	res := s.do(http.MethodPost, "/perfumes", token, map[string]any{
		"name": "X", "brand": "Y", "concentration": "COLOGNE", "season": "ALL",
	})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.get("error").String(), "concentration")

	res = s.do(http.MethodPost, "/perfumes", token, map[string]any{"brand": "Y", "concentration": "EDP", "season": "ALL"})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.get("error").String(), "name")
}

func TestPerfumeCrossUser(t *testing.T) {
	s := newTestServer(t)
	alice := s.signup("alice")
	bob := s.signup("bob")
	id := s.createPerfume(alice, "Sauvage", "Dior")
	path := fmt.Sprintf("/perfumes/%d", id)

	res := s.do(http.MethodGet, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = s.do(http.MethodPatch, path, bob, map[string]any{"name": "Mine"})
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = s.do(http.MethodDelete, path, bob, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)
	res = s.do(http.MethodGet, path+"/purchases", bob, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = s.do(http.MethodGet, "/perfumes", bob, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.get("total").Int())
	assert.Equal(t, "[]", res.get("items").Raw)

	res = s.do(http.MethodGet, "/perfumes/99999", bob, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestPerfumeListing(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")
	s.createPerfume(token, "Sauvage", "Dior")
	s.createPerfume(token, "Aventus", "Creed")
	s.createPerfume(token, "Bleu", "Chanel")

	res := s.do(http.MethodGet, "/perfumes?sort_by=name&order=desc", token, nil)
	require.Equal(t, http.StatusOK, res.Code, res.Body)
	assert.Equal(t, []any{"Sauvage", "Bleu", "Aventus"}, res.get("items.#.name").Value())

	res = s.do(http.MethodGet, "/perfumes?limit=1", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.LessOrEqual(t, len(res.get("items").Array()), 1)
	assert.EqualValues(t, 3, res.get("total").Int())

	res = s.do(http.MethodGet, "/perfumes?brand=dior", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.get("total").Int())

	res = s.do(http.MethodGet, "/perfumes?concentration=EDT", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 0, res.get("total").Int())

	res = s.do(http.MethodGet, "/perfumes?sort_by=price", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.get("error").String(), "name, brand")

	for _, q := range []string{"order=sideways", "limit=0", "limit=101", "offset=-1", "limit=abc", "available=maybe", "season=SPRING"} {
		res = s.do(http.MethodGet, "/perfumes?"+q, token, nil)
		assert.Equal(t, http.StatusBadRequest, res.Code, q)
	}
}
