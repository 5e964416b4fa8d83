package cache_key_builder_test

import (
	"strings"
	"testing"

	"AdminFilter/util/cache_key_builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListKey_Format(t *testing.T) {
	key, err := cache_key_builder.ListKey("Post", map[string]any{"page": 1})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "list:Post:"))
	assert.Len(t, strings.TrimPrefix(key, "list:Post:"), 40)
}

func TestListKey_OrderIndependent(t *testing.T) {
	a := map[string]any{"createdAt": map[string]any{"type": 3}, "author": []int{1}}
	b := map[string]any{"author": []int{1}, "createdAt": map[string]any{"type": 3}}

	ka, err := cache_key_builder.ListKey("Post", a)
	require.NoError(t, err)
	kb, err := cache_key_builder.ListKey("Post", b)
	require.NoError(t, err)

	assert.Equal(t, ka, kb)
}

func TestListKey_DiffersByParamsAndResource(t *testing.T) {
	k1, _ := cache_key_builder.ListKey("Post", map[string]any{"page": 1})
	k2, _ := cache_key_builder.ListKey("Post", map[string]any{"page": 2})
	k3, _ := cache_key_builder.ListKey("Tag", map[string]any{"page": 1})

	assert.NotEqual(t, k1, k2)
	assert.NotEqual(t, k1, k3)
}

func TestListKey_UnmarshalableParams(t *testing.T) {
	_, err := cache_key_builder.ListKey("Post", map[string]any{"ch": make(chan int)})
	assert.Error(t, err)
}

func TestListKeyBuilder_Pattern(t *testing.T) {
	kb := cache_key_builder.NewListKeyBuilder("admin")
	assert.Equal(t, "admin:Post:*", kb.Pattern("Post"))

	key, err := kb.BuildKey("Post", nil)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "admin:Post:"))
}
