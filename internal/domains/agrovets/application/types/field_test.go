package types

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func TestUpdateAgrovetInput_DistinguishesOmittedFromEmpty(t *testing.T) {
	var payload struct {
		Name     Field[string] `json:"name"`
		Location Field[string] `json:"location"`
		Contact  Field[string] `json:"contact"`
		Email    Field[string] `json:"email"`
	}
	err := json.Unmarshal([]byte(`{"name":"","location":"Nakuru","email":null}`), &payload)
	require.NoError(t, err)

	name, ok := payload.Name.Get()
	require.True(t, ok)
	require.Empty(t, name)

	require.Equal(t, Some("Nakuru"), payload.Location)
	require.False(t, payload.Contact.Set)
	require.False(t, payload.Email.Set)
}

func TestField_MarshalOmittedAsNull(t *testing.T) {
	out, err := json.Marshal(struct {
		A Field[string] `json:"a"`
		B Field[string] `json:"b"`
	}{A: Some("x")})
	require.NoError(t, err)
	require.JSONEq(t, `{"a":"x","b":null}`, string(out))
}
