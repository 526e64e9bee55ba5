package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objecthub/dynamicjson-go/value"
)

// S5/S6 scenario: the Validator's value.Value entry point delegates to
// the same engine as Validate(interface{}) and sees the same errors.
func TestValidateValueAgreesWithValidate(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{
		"type": "object",
		"properties": {"name": {"type": "string", "minLength": 3}},
		"required": ["name"]
	}`))
	require.NoError(t, err)

	doc, err := value.Decode([]byte(`{"name": "Jo"}`))
	require.NoError(t, err)

	viaValue := schema.ValidateValue(doc)
	viaAny := schema.Validate(doc.ToAny())

	assert.False(t, viaValue.IsValid())
	assert.Equal(t, viaAny.IsValid(), viaValue.IsValid())
	assert.Contains(t, viaValue.Errors, "properties")
}

func TestValidateValueAcceptsConformingDocument(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{"type": "array", "items": {"type": "integer"}}`))
	require.NoError(t, err)

	doc, err := value.Decode([]byte(`[1, 2, 3]`))
	require.NoError(t, err)

	result := schema.ValidateValue(doc)
	assert.True(t, result.IsValid())
}

// A schema compiled from a value.Value document behaves the same as
// one compiled from its bytes.
func TestCompileValueMatchesCompile(t *testing.T) {
	doc, err := value.Decode([]byte(`{"type": "string"}`))
	require.NoError(t, err)

	compiler := NewCompiler()
	schema, err := compiler.CompileValue(doc)
	require.NoError(t, err)
	assert.Equal(t, SchemaType{"string"}, schema.Type)

	instance, err := value.Decode([]byte(`123`))
	require.NoError(t, err)
	assert.False(t, schema.ValidateValue(instance).IsValid())
}

func TestSchemaRawCarriesDocument(t *testing.T) {
	compiler := NewCompiler()
	schema, err := compiler.Compile([]byte(`{"type": "boolean"}`))
	require.NoError(t, err)

	typ, ok := schema.Raw.Get("type")
	require.True(t, ok)
	assert.Equal(t, "boolean", typ.String())
}
