package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestKeyFromContext_Fallback(t *testing.T) {
	assert.Equal(t, DefaultKey, KeyFromContext(context.Background()))

	ctx := WithKey(context.Background(), "north")
	assert.Equal(t, "north", KeyFromContext(ctx))

	// Empty key falls back too.
	ctx = WithKey(context.Background(), "")
	assert.Equal(t, DefaultKey, KeyFromContext(ctx))
}

func TestNewRegistry_RequiresDefault(t *testing.T) {
	_, err := NewRegistry(map[string]*gorm.DB{"north": {}})
	require.Error(t, err)

	reg, err := NewRegistry(map[string]*gorm.DB{DefaultKey: {}, "north": {}})
	require.NoError(t, err)
	assert.True(t, reg.Has("north"))
	assert.False(t, reg.Has("south"))
	assert.Equal(t, []string{DefaultKey, "north"}, reg.Keys())
}

func TestRegistry_UnknownTenant(t *testing.T) {
	reg, err := NewRegistry(map[string]*gorm.DB{DefaultKey: {}})
	require.NoError(t, err)

	_, err = reg.DB(WithKey(context.Background(), "ghost"))
	require.Error(t, err)
}
