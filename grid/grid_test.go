package grid

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorustyt/gridnavmesh/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func TestParseText(t *testing.T) {
	g, err := ParseText(strings.NewReader("; comment\n..#.\n....\n\n"))
	require.NoError(t, err)
	assert.Equal(t, 4, g.Width())
	assert.Equal(t, 2, g.Height())
	assert.False(t, g.Walkable(2, 0))
	assert.True(t, g.Walkable(3, 1))
	assert.Equal(t, 7, WalkableCount(g))
	assert.Equal(t, "..#.\n....\n", FormatText(g))

	_, err = ParseText(strings.NewReader("..\n...\n"))
	assert.True(t, errors.Is(err, common.ErrPrecondition))
	_, err = ParseText(strings.NewReader(".a\n"))
	assert.True(t, errors.Is(err, common.ErrPrecondition))
}

func TestCheckSize(t *testing.T) {
	assert.NoError(t, CheckSize(NewBoolGrid(MaxSize, 1, true)))
	err := CheckSize(NewBoolGrid(MaxSize+1, 1, true))
	assert.True(t, errors.Is(err, common.ErrCapacity))
}

func TestIsWalkableOutside(t *testing.T) {
	g := NewBoolGrid(2, 2, true)
	assert.True(t, IsWalkable(g, 1, 1))
	assert.False(t, IsWalkable(g, -1, 0))
	assert.False(t, IsWalkable(g, 0, 2))
}

func TestPackMsbFirst(t *testing.T) {
	g := NewBoolGrid(3, 3, false)
	g.Set(0, 0, true)
	g.Set(2, 2, true)
	data := Pack(g)
	require.Len(t, data, 8+2)
	assert.Equal(t, byte(0x80), data[8])
	assert.Equal(t, byte(0x80), data[9])
}

func TestHashDetectsChanges(t *testing.T) {
	a := NewBoolGrid(8, 8, true)
	b := NewBoolGrid(8, 8, true)
	assert.Equal(t, Hash(a), Hash(b))
	b.Set(3, 4, false)
	assert.NotEqual(t, Hash(a), Hash(b))
	// same bits, different shape
	assert.NotEqual(t, Hash(NewBoolGrid(4, 16, true)), Hash(a))
}

func TestLoadImages(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			img.Set(x, y, color.White)
		}
	}
	img.Set(1, 1, color.Black)

	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map.png"), buf.Bytes(), 0o644))
	buf.Reset()
	require.NoError(t, bmp.Encode(&buf, img))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "map.bmp"), buf.Bytes(), 0o644))

	for _, name := range []string{"map.png", "map.bmp"} {
		g, err := Load(filepath.Join(dir, name))
		require.NoError(t, err, name)
		assert.Equal(t, 3, g.Width(), name)
		assert.Equal(t, 2, g.Height(), name)
		assert.False(t, g.Walkable(1, 1), name)
		assert.Equal(t, 5, WalkableCount(g), name)
	}
}
