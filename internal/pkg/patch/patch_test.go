package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_States(t *testing.T) {
	tests := []struct {
		name     string
		field    Field[string]
		isAbsent bool
		isSet    bool
		isClear  bool
	}{
		{
			name:     "zero value is absent",
			field:    Field[string]{},
			isAbsent: true,
		},
		{
			name:     "Absent constructor",
			field:    Absent[string](),
			isAbsent: true,
		},
		{
			name:  "Set carries a value",
			field: Set("BSIT"),
			isSet: true,
		},
		{
			name:    "Clear nulls the column",
			field:   Clear[string](),
			isClear: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.isAbsent, tt.field.IsAbsent())
			assert.Equal(t, tt.isSet, tt.field.IsSet())
			assert.Equal(t, tt.isClear, tt.field.IsClear())
		})
	}
}

func TestField_Value(t *testing.T) {
	v, ok := Set(42).Value()
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	_, ok = Clear[int]().Value()
	assert.False(t, ok)

	_, ok = Absent[int]().Value()
	assert.False(t, ok)
}

func TestField_MustValuePanicsWhenNotSet(t *testing.T) {
	assert.Panics(t, func() {
		Clear[int]().MustValue()
	})
}

func TestField_UnmarshalJSON(t *testing.T) {
	type payload struct {
		MiddleName Field[string] `json:"middleName"`
		Height     Field[float64] `json:"height"`
	}

	tests := []struct {
		name  string
		body  string
		check func(t *testing.T, p payload)
	}{
		{
			name: "missing key stays absent",
			body: `{}`,
			check: func(t *testing.T, p payload) {
				assert.True(t, p.MiddleName.IsAbsent())
				assert.True(t, p.Height.IsAbsent())
			},
		},
		{
			name: "explicit null clears",
			body: `{"middleName": null}`,
			check: func(t *testing.T, p payload) {
				assert.True(t, p.MiddleName.IsClear())
				assert.True(t, p.Height.IsAbsent())
			},
		},
		{
			name: "value sets",
			body: `{"middleName": "Santos", "height": 172.5}`,
			check: func(t *testing.T, p payload) {
				assert.Equal(t, "Santos", p.MiddleName.MustValue())
				assert.Equal(t, 172.5, p.Height.MustValue())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p payload
			require.NoError(t, json.Unmarshal([]byte(tt.body), &p))
			tt.check(t, p)
		})
	}
}

func TestField_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Set("Santos"))
	require.NoError(t, err)
	assert.JSONEq(t, `"Santos"`, string(out))

	out, err = json.Marshal(Clear[string]())
	require.NoError(t, err)
	assert.Equal(t, "null", string(out))
}
