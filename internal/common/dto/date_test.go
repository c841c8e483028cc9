package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_JSON(t *testing.T) {
	d := NewDate(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC))
	out, err := json.Marshal(struct {
		D Date `json:"d"`
	}{d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2024-02-29"}`, string(out))

	var in struct {
		D *Date `json:"d"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"d":"2024-03-01"}`), &in))
	require.NotNil(t, in.D)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), in.D.Time)

	assert.Error(t, json.Unmarshal([]byte(`{"d":"03/01/2024"}`), &in))
	assert.Error(t, json.Unmarshal([]byte(`{"d":20240301}`), &in))
}

func TestNewPage_NeverNull(t *testing.T) {
	out, err := json.Marshal(NewPage[int](nil, 0))
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(out))
}
