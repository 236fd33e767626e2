package invoice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexFieldStructuredRoundTrip(t *testing.T) {
	f := NewStructuredField(json.RawMessage(`[{"description": "Booking fee", "amount": 5000}]`))
	require.True(t, f.IsStructured())

	stored := f.Encode()
	decoded := DecodeFlexField(stored)

	assert.True(t, decoded.IsStructured())
	assert.JSONEq(t, `[{"description":"Booking fee","amount":5000}]`, string(decoded.JSONValue()))
}

func TestFlexFieldMalformedStoredPayload(t *testing.T) {
	// Legacy rows hold free text that was never JSON
	decoded := DecodeFlexField(`3 BHK flat, corner unit`)

	assert.False(t, decoded.IsStructured())
	assert.False(t, decoded.IsZero())

	// The read never fails and the caller still receives valid JSON
	assert.Equal(t, `"3 BHK flat, corner unit"`, string(decoded.JSONValue()))

	// Re-encoding preserves the original text byte for byte
	assert.Equal(t, `3 BHK flat, corner unit`, decoded.Encode())
}

func TestFlexFieldTruncatedJSON(t *testing.T) {
	decoded := DecodeFlexField(`[{"description": "Booking`)

	assert.False(t, decoded.IsStructured())
	assert.Equal(t, `[{"description": "Booking`, decoded.Encode())
}

func TestFlexFieldZero(t *testing.T) {
	var f FlexField
	assert.True(t, f.IsZero())
	assert.Nil(t, f.JSONValue())
	assert.Equal(t, "", f.Encode())

	v, err := f.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestFlexFieldScan(t *testing.T) {
	var structured FlexField
	require.NoError(t, structured.Scan(`{"count": 2}`))
	assert.True(t, structured.IsStructured())

	var raw FlexField
	require.NoError(t, raw.Scan([]byte(`not json at all`)))
	assert.False(t, raw.IsStructured())
	assert.Equal(t, `not json at all`, raw.Encode())

	var null FlexField
	require.NoError(t, null.Scan(nil))
	assert.True(t, null.IsZero())
}

func TestFlexFieldJSONMarshalling(t *testing.T) {
	f := NewStructuredField(json.RawMessage(`{"a": 1}`))
	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))

	var back FlexField
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.IsStructured())

	var empty FlexField
	require.NoError(t, json.Unmarshal([]byte(`null`), &empty))
	assert.True(t, empty.IsZero())
}

func TestFlexFieldStringLeafStaysJSON(t *testing.T) {
	// A JSON string leaf is valid JSON, so it stays structured
	decoded := DecodeFlexField(`"already a string"`)
	assert.True(t, decoded.IsStructured())
	assert.Equal(t, `"already a string"`, string(decoded.JSONValue()))
}
