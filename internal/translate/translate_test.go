package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapArgument_Totality(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"number", 3.5, float32(3.5)},
		{"whole number", float64(1), float32(1)},
		{"string", "hi", "hi"},
		{"bool true", true, int32(1)},
		{"bool false", false, int32(0)},
		{"null", nil, "null"},
		{"object", map[string]interface{}{"a": 1.0}, `{"a":1}`},
		{"nested array", []interface{}{1.0, "x"}, `[1,"x"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapArgument(tt.in))
		})
	}
}

func TestNormalizeArgs(t *testing.T) {
	t.Run("absent args become empty list", func(t *testing.T) {
		assert.Empty(t, NormalizeArgs(nil))
	})

	t.Run("scalar is wrapped", func(t *testing.T) {
		assert.Equal(t, []interface{}{5.0}, NormalizeArgs(5.0))
	})

	t.Run("list is used as-is", func(t *testing.T) {
		assert.Equal(t, []interface{}{1.0, "a"}, NormalizeArgs([]interface{}{1.0, "a"}))
	})
}

func TestTranslate_ScalarAndListArgsEquivalent(t *testing.T) {
	scalar, err := Translate([]byte(`{"address":"/gain","args":5}`))
	require.NoError(t, err)

	list, err := Translate([]byte(`{"address":"/gain","args":[5]}`))
	require.NoError(t, err)

	assert.Equal(t, list.Arguments, scalar.Arguments)
	assert.Equal(t, []interface{}{float32(5)}, scalar.Arguments)
}

func TestTranslate_AddressValidation(t *testing.T) {
	t.Run("missing address rejected", func(t *testing.T) {
		_, err := Translate([]byte(`{"args":[1]}`))
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("no leading slash rejected", func(t *testing.T) {
		_, err := Translate([]byte(`{"address":"bad"}`))
		assert.ErrorIs(t, err, ErrInvalidAddress)
	})

	t.Run("leading slash accepted", func(t *testing.T) {
		msg, err := Translate([]byte(`{"address":"/ok"}`))
		require.NoError(t, err)
		assert.Equal(t, "/ok", msg.Address)
		assert.Empty(t, msg.Arguments)
	})
}

func TestTranslate_MalformedPayload(t *testing.T) {
	_, err := Translate([]byte("this is not json"))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestTranslate_TintScenario(t *testing.T) {
	msg, err := Translate([]byte(`{"address":"/pre/tint","args":[0.2,0.4,0.6,1.0]}`))
	require.NoError(t, err)

	assert.Equal(t, "/pre/tint", msg.Address)
	require.Len(t, msg.Arguments, 4)
	assert.Equal(t, []interface{}{float32(0.2), float32(0.4), float32(0.6), float32(1.0)}, msg.Arguments)
}

func TestTranslate_LightsScenario(t *testing.T) {
	msg, err := Translate([]byte(`{"address":"/lights","args":[1,0,0,1,0,0,1,1]}`))
	require.NoError(t, err)

	require.Len(t, msg.Arguments, 8)
	want := []interface{}{
		float32(1), float32(0), float32(0), float32(1),
		float32(0), float32(0), float32(1), float32(1),
	}
	assert.Equal(t, want, msg.Arguments)
}

func TestTranslate_MixedTypesNeverReject(t *testing.T) {
	msg, err := Translate([]byte(`{"address":"/mix","args":[true,false,"hi",null,{"a":1},[1,2]]}`))
	require.NoError(t, err)

	want := []interface{}{int32(1), int32(0), "hi", "null", `{"a":1}`, `[1,2]`}
	assert.Equal(t, want, msg.Arguments)
}

func TestTranslate_NullArgsTreatedAsEmpty(t *testing.T) {
	msg, err := Translate([]byte(`{"address":"/empty","args":null}`))
	require.NoError(t, err)
	assert.Empty(t, msg.Arguments)
}
