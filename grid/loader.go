package grid

import (
	"bufio"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorustyt/gridnavmesh/common"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// ParseText reads a grid drawn with '.' for walkable cells and '#' (or 'X')
// for blocked ones, one row per line. Blank lines and lines starting with
// ';' are ignored.
func ParseText(r io.Reader) (*BoolGrid, error) {
	var rows []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if line == "" || strings.HasPrefix(line, ";") {
			continue
		}
		rows = append(rows, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, common.Preconditionf("grid text is empty")
	}
	w := len(rows[0])
	g := NewBoolGrid(w, len(rows), false)
	if err := CheckSize(g); err != nil {
		return nil, err
	}
	for y, row := range rows {
		if len(row) != w {
			return nil, common.Preconditionf("row %d has %d cells, want %d", y, len(row), w)
		}
		for x, c := range row {
			switch c {
			case '.':
				g.Set(x, y, true)
			case '#', 'X':
			default:
				return nil, common.Preconditionf("row %d: unexpected cell %q", y, c)
			}
		}
	}
	return g, nil
}

// FormatText is the inverse of ParseText.
func FormatText(g WalkabilityGrid) string {
	var sb strings.Builder
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			if g.Walkable(x, y) {
				sb.WriteByte('.')
			} else {
				sb.WriteByte('#')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// FromImage maps every pixel to a cell: bright opaque pixels are walkable.
func FromImage(img image.Image) (*BoolGrid, error) {
	b := img.Bounds()
	g := NewBoolGrid(b.Dx(), b.Dy(), false)
	if err := CheckSize(g); err != nil {
		return nil, err
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			c := img.At(b.Min.X+x, b.Min.Y+y)
			_, _, _, a := c.RGBA()
			gray := color.GrayModel.Convert(c).(color.Gray)
			g.Set(x, y, a >= 0x8000 && gray.Y >= 128)
		}
	}
	return g, nil
}

// Load reads a grid file. ".txt" and ".grid" files are parsed as text,
// anything else is decoded as an image (png, bmp or tiff).
func Load(path string) (*BoolGrid, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".grid":
		return ParseText(f)
	}
	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return FromImage(img)
}
