package floodfill

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// gridFromRows 按行构建画布，rows[0] 是第 1 行
func gridFromRows(rows ...[]string) *domain.FloodFill {
	g := &domain.FloodFill{SizeX: len(rows[0]), SizeY: len(rows)}
	for y, row := range rows {
		for x, c := range row {
			g.Pixels = append(g.Pixels, domain.Pixel{X: x + 1, Y: y + 1, Color: c})
		}
	}
	return g
}

// colorAt 返回 (x, y) 处像素的颜色
func colorAt(t *testing.T, g *domain.FloodFill, x, y int) string {
	t.Helper()
	for _, p := range g.Pixels {
		if p.X == x && p.Y == y {
			return p.Color
		}
	}
	t.Fatalf("no pixel at (%d,%d)", x, y)
	return ""
}

func TestFloodFiller_Paint_EndToEnd(t *testing.T) {
	g := gridFromRows(
		[]string{"red", "red"},
		[]string{"blue", "red"},
	)

	n, err := NewFloodFiller().Paint(g, 1, 1, "green")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	assert.Equal(t, "green", colorAt(t, g, 1, 1))
	assert.Equal(t, "green", colorAt(t, g, 2, 1))
	assert.Equal(t, "green", colorAt(t, g, 2, 2))
	assert.Equal(t, "blue", colorAt(t, g, 1, 2))
}

func TestFloodFiller_Paint_SingleCell(t *testing.T) {
	g := gridFromRows([]string{"red"})

	n, err := NewFloodFiller().Paint(g, 1, 1, "green")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, []domain.Pixel{{X: 1, Y: 1, Color: "green"}}, g.Pixels)
}

func TestFloodFiller_Paint_DiagonalConnectivity(t *testing.T) {
	g := gridFromRows(
		[]string{"A", "B"},
		[]string{"B", "A"},
	)

	_, err := NewFloodFiller().Paint(g, 1, 1, "C")
	require.NoError(t, err)

	assert.Equal(t, "C", colorAt(t, g, 1, 1))
	assert.Equal(t, "C", colorAt(t, g, 2, 2))
	assert.Equal(t, "B", colorAt(t, g, 1, 2))
	assert.Equal(t, "B", colorAt(t, g, 2, 1))
}

func TestFloodFiller_Paint_Containment(t *testing.T) {
	// 两块红色区域被一整列蓝色隔开
	g := gridFromRows(
		[]string{"red", "red", "blue", "red"},
		[]string{"red", "red", "blue", "red"},
		[]string{"red", "red", "blue", "red"},
	)

	n, err := NewFloodFiller().Paint(g, 1, 2, "green")
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	want := gridFromRows(
		[]string{"green", "green", "blue", "red"},
		[]string{"green", "green", "blue", "red"},
		[]string{"green", "green", "blue", "red"},
	)
	if diff := cmp.Diff(want.Pixels, g.Pixels); diff != "" {
		t.Errorf("Paint() mismatch (-want +got):\n%s", diff)
	}
}

func TestFloodFiller_Paint_SameColorIsNoop(t *testing.T) {
	g := gridFromRows(
		[]string{"red", "blue"},
		[]string{"red", "red"},
	)
	before := g.Clone()

	n, err := NewFloodFiller().Paint(g, 1, 1, "red")
	require.NoError(t, err)
	assert.Zero(t, n)
	if diff := cmp.Diff(before, g); diff != "" {
		t.Errorf("no-op paint changed grid (-before +after):\n%s", diff)
	}
}

func TestFloodFiller_Paint_OutOfBounds(t *testing.T) {
	tests := []struct {
		name string
		x, y int
	}{
		{"zero x", 0, 1},
		{"zero y", 1, 0},
		{"negative", -3, -3},
		{"x too large", 3, 1},
		{"y too large", 1, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gridFromRows(
				[]string{"red", "red"},
				[]string{"red", "red"},
			)
			before := g.Clone()

			n, err := NewFloodFiller().Paint(g, tt.x, tt.y, "green")
			assert.True(t, errors.Is(err, ErrPixelNotFound), "got %v", err)
			assert.Zero(t, n)
			if diff := cmp.Diff(before, g); diff != "" {
				t.Errorf("failed paint changed grid (-before +after):\n%s", diff)
			}
		})
	}
}

func TestFloodFiller_Paint_MissingSeedPixel(t *testing.T) {
	g := &domain.FloodFill{SizeX: 2, SizeY: 1, Pixels: []domain.Pixel{{X: 2, Y: 1, Color: "red"}}}

	_, err := NewFloodFiller().Paint(g, 1, 1, "green")
	assert.True(t, errors.Is(err, ErrPixelNotFound))
	assert.Equal(t, "red", g.Pixels[0].Color)
}

func TestFloodFiller_Paint_UnorderedPixels(t *testing.T) {
	g := &domain.FloodFill{SizeX: 2, SizeY: 2, Pixels: []domain.Pixel{
		{X: 2, Y: 2, Color: "red"},
		{X: 1, Y: 2, Color: "blue"},
		{X: 2, Y: 1, Color: "red"},
		{X: 1, Y: 1, Color: "red"},
	}}

	n, err := NewFloodFiller().Paint(g, 2, 2, "green")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "blue", colorAt(t, g, 1, 2))
	assert.Equal(t, "green", colorAt(t, g, 1, 1))
}

func TestFloodFiller_Paint_RepeatedPaintsReuseGrid(t *testing.T) {
	g := gridFromRows(
		[]string{"red", "red", "blue"},
		[]string{"blue", "red", "blue"},
	)
	filler := NewFloodFiller()

	_, err := filler.Paint(g, 1, 1, "green")
	require.NoError(t, err)
	// (1,2) 的蓝色与第 3 列的蓝色不相邻
	n, err := filler.Paint(g, 3, 1, "green")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	// 所有非 (1,2) 的像素现在都是 green，再整体涂回 red
	n, err = filler.Paint(g, 1, 1, "red")
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "blue", colorAt(t, g, 1, 2))
}

func TestFloodFiller_Paint_LargeUniformGrid(t *testing.T) {
	const size = 600
	pixels, err := NewGridFactory(func(int) int { return 0 }).Create(size, size, []string{"white"})
	require.NoError(t, err)
	g := &domain.FloodFill{SizeX: size, SizeY: size, Pixels: pixels}

	n, err := NewFloodFiller().Paint(g, size/2, size/2, "black")
	require.NoError(t, err)
	assert.Equal(t, size*size, n)
	for _, p := range g.Pixels {
		if p.Color != "black" {
			t.Fatalf("pixel %+v was not repainted", p)
		}
	}
}
