package themes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryIsTotalAndComplete(t *testing.T) {
	require.NoError(t, ValidateRegistry())

	// 每个枚举键都能查到，且字段给全
	for _, key := range Keys() {
		schema, ok := Lookup(string(key))
		require.True(t, ok, "key %q missing from registry", key)
		assert.NotEmpty(t, schema.DisplayName)
		assert.NotEmpty(t, schema.BackgroundColor)
		assert.NotEmpty(t, schema.AccentColor)
		assert.NotEmpty(t, schema.TextColor)
		assert.NotEmpty(t, schema.HeadingFont)
		assert.NotEmpty(t, schema.BodyFont)
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	_, ok := Lookup("vaporwave")
	assert.False(t, ok)
	assert.False(t, IsValidKey("vaporwave"))
	assert.False(t, IsValidKey(""))
}

func TestDefaultKeyIsValid(t *testing.T) {
	assert.True(t, IsValidKey(string(DefaultKey())))
}

func TestAllReturnsCopy(t *testing.T) {
	all := All()
	require.Len(t, all, len(Keys()))

	// 修改副本不影响内部表
	all[KeyClassic] = Schema{}
	schema, ok := Lookup(string(KeyClassic))
	require.True(t, ok)
	assert.NotEmpty(t, schema.DisplayName)
}
