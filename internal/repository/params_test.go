package repository

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRelations(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string // JSON of the normalized tree; empty means nil
	}{
		{name: "empty", raw: ""},
		{name: "not json", raw: "not json"},
		{name: "array", raw: `["client"]`},
		{name: "scalar", raw: `true`},
		{name: "empty object", raw: `{}`},
		{name: "boolean entries", raw: `{"client":true,"appointments":false}`, want: `{"appointments":false,"client":true}`},
		{name: "drops other shapes", raw: `{"client":true,"bad":"yes","n":1,"list":[1]}`, want: `{"client":true}`},
		{
			name: "object keeps booleans and nested with",
			raw:  `{"client":{"name":true,"email":"x","with":{"patients":true,"oops":3}}}`,
			want: `{"client":{"name":true,"with":{"patients":true}}}`,
		},
		{name: "nested with of wrong shape is dropped", raw: `{"client":{"name":false,"with":"all"}}`, want: `{"client":{"name":false}}`},
		{name: "empty object node is kept", raw: `{"client":{}}`, want: `{"client":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelations(tt.raw)
			if tt.want == "" {
				assert.Nil(t, got)
				return
			}
			b, err := json.Marshal(got)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(b))
		})
	}
}

func TestParseColumns(t *testing.T) {
	assert.Nil(t, ParseColumns(""))
	assert.Nil(t, ParseColumns("{"))
	assert.Nil(t, ParseColumns(`[true]`))
	assert.Nil(t, ParseColumns(`{"a":"not-bool"}`))
	assert.Equal(t, Columns{"name": true, "notes": false}, ParseColumns(`{"name":true,"notes":false,"a":"not-bool"}`))
}

func TestParseProjection_MalformedInputNeverFails(t *testing.T) {
	p := ParseProjection("not json", `{"a": "not-bool"}`)
	assert.Nil(t, p.With)
	assert.Nil(t, p.Columns)

	p = ParseProjection(`{"client":true}`, `{"name":true,"a":"x"}`)
	assert.Equal(t, Relations{"client": {Include: true}}, p.With)
	assert.Equal(t, Columns{"name": true}, p.Columns)
}

func TestColumns_SelectedOmitted(t *testing.T) {
	c := Columns{"b": true, "a": true, "c": false}
	assert.Equal(t, []string{"a", "b"}, c.Selected())
	assert.Equal(t, []string{"c"}, c.Omitted())

	var none Columns
	assert.Empty(t, none.Selected())
}
