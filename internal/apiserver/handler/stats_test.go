package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpendingSummary(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")

	res := s.do(http.MethodGet, "/stats/spending", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.JSONEq(t, `{"total_spent":0,"total_purchases":0,"average_price":0}`, res.Body)

	perfume := s.createPerfume(token, "Sauvage", "Dior")
	s.createPurchase(token, perfume, "2024-01-01", 10)
	s.createPurchase(token, perfume, "2024-02-01", 25)

	res = s.do(http.MethodGet, "/stats/spending", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, 35.0, res.get("total_spent").Float())
	assert.EqualValues(t, 2, res.get("total_purchases").Int())
	assert.Equal(t, 17.5, res.get("average_price").Float())

	res = s.do(http.MethodGet, "/stats/spending?start_date=2024-01-15", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.EqualValues(t, 1, res.get("total_purchases").Int())

	res = s.do(http.MethodGet, "/stats/spending?start_date=2024-03-01&end_date=2024-01-01", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestMostExpensive(t *testing.T) {
	s := newTestServer(t)
	token := s.signup("alice")
	dior := s.createPerfume(token, "Sauvage", "Dior")
	creed := s.createPerfume(token, "Aventus", "Creed")
	s.createPurchase(token, dior, "2024-01-01", 90)
	s.createPurchase(token, creed, "2024-01-02", 300)

	res := s.do(http.MethodGet, "/stats/most_expensive", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	require.Len(t, res.root().Array(), 2)
	assert.EqualValues(t, 1, res.get("0.rank").Int())
	assert.Equal(t, "Aventus", res.get("0.perfume_name").String())
	assert.Equal(t, "Creed", res.get("0.brand").String())
	assert.Equal(t, "2024-01-02", res.get("0.date").String())

	res = s.do(http.MethodGet, "/stats/most_expensive?num=1", token, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.root().Array(), 1)

	res = s.do(http.MethodGet, "/stats/most_expensive?num=0", token, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	other := s.signup("bob")
	res = s.do(http.MethodGet, "/stats/most_expensive", other, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "[]", res.Body)
}
