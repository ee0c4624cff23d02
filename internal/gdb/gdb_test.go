package gdb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestADM2Province(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"NATIONAL CAPITAL REGION - MANILA", "METROPOLITAN MANILA FIRST DISTRICT"},
		{"NATIONAL CAPITAL REGION - FOURTH DISTRICT", "METROPOLITAN MANILA FOURTH DISTRICT"},
		{"BASILAN", "CITY OF ISABELA (NOT A PROVINCE)"},
		{"COMPOSTELA VALLEY", "DAVAO DE ORO"},
		{"LAGUNA", "LAGUNA"},
	}
	for _, c := range cases {
		got, excluded := ADM2Province(c.in)
		assert.False(t, excluded, "input %q", c.in)
		assert.Equal(t, c.want, got, "input %q", c.in)
	}

	_, excluded := ADM2Province("SPECIAL GEOGRAPHIC AREA")
	assert.True(t, excluded)
}

func TestMemCache(t *testing.T) {
	ctx := context.Background()
	c := NewMemCache()
	_, ok := c.Get(ctx, "PH0403405000")
	assert.False(t, ok)
	c.Put(ctx, "PH0403405000", []byte("geojson"))
	b, ok := c.Get(ctx, "PH0403405000")
	require.True(t, ok)
	assert.Equal(t, []byte("geojson"), b)
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewFileCache(dir)
	require.NotNil(t, c)

	_, ok := c.Get(ctx, "PH0403405000")
	assert.False(t, ok)
	c.Put(ctx, "PH0403405000", []byte("geojson"))
	b, ok := c.Get(ctx, "PH0403405000")
	require.True(t, ok)
	assert.Equal(t, []byte("geojson"), b)

	// 落盘文件名按代码命名
	_, err := os.Stat(filepath.Join(dir, "PH0403405000.geojson"))
	assert.NoError(t, err)

	assert.Nil(t, NewFileCache(""))
}

func TestChainCache(t *testing.T) {
	ctx := context.Background()
	mem := NewMemCache()
	file := NewFileCache(t.TempDir())
	chain := NewChain(mem, nil, file)
	require.NotNil(t, chain)

	// 写入广播到全部层级
	chain.Put(ctx, "PH01", []byte("a"))
	_, ok := mem.Get(ctx, "PH01")
	assert.True(t, ok)
	_, ok = file.Get(ctx, "PH01")
	assert.True(t, ok)

	// 仅深层命中时仍可取回
	file.Put(ctx, "PH02", []byte("b"))
	b, ok := chain.Get(ctx, "PH02")
	require.True(t, ok)
	assert.Equal(t, []byte("b"), b)

	assert.Nil(t, NewChain(nil, nil))
}

func TestOpenMissingGDB(t *testing.T) {
	assert.Nil(t, Open(filepath.Join(t.TempDir(), "absent.gdb"), "", nil))
}
