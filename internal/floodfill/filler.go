package floodfill

import (
	"fmt"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// neighbors 是 8 连通的相对偏移：四个正交方向加四个对角方向。
var neighbors = [8][2]int{
	{-1, 0}, {1, 0}, {0, -1}, {0, 1},
	{-1, -1}, {1, -1}, {-1, 1}, {1, 1},
}

// FloodFiller 在画布上执行油漆桶式的区域填色。
type FloodFiller struct{}

// NewFloodFiller 创建 FloodFiller 实例
func NewFloodFiller() *FloodFiller {
	return &FloodFiller{}
}

// Paint 从 (x, y) 开始，把与种子像素颜色相同、8 连通可达的所有像素改为 newColor。
// 返回被重新着色的像素数量。
//
// 种子不存在时返回 ErrPixelNotFound，画布保持不变。
// newColor 与种子当前颜色相同时什么都不做，返回 0。
func (f *FloodFiller) Paint(grid *domain.FloodFill, x, y int, newColor string) (int, error) {
	if grid == nil {
		return 0, fmt.Errorf("%w: grid is nil", ErrPixelNotFound)
	}
	if !grid.Contains(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) outside %dx%d grid", ErrPixelNotFound, x, y, grid.SizeX, grid.SizeY)
	}

	index := indexPixels(grid)
	seed := index[offset(grid.SizeX, x, y)]
	if seed < 0 {
		return 0, fmt.Errorf("%w: no pixel stored at (%d,%d)", ErrPixelNotFound, x, y)
	}

	pixels := grid.Pixels
	oldColor := pixels[seed].Color
	if oldColor == newColor {
		return 0, nil
	}

	// visited 只在本次调用内有效，不会写回像素。
	visited := make([]bool, len(index))
	visited[offset(grid.SizeX, x, y)] = true
	pixels[seed].Color = newColor
	repainted := 1

	stack := []domain.Pixel{{X: x, Y: y}}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, d := range neighbors {
			nx, ny := p.X+d[0], p.Y+d[1]
			if !grid.Contains(nx, ny) {
				continue
			}
			off := offset(grid.SizeX, nx, ny)
			if visited[off] {
				continue
			}
			i := index[off]
			if i < 0 || pixels[i].Color != oldColor {
				continue
			}
			// 先标记再入栈，保证每个像素只处理一次
			visited[off] = true
			pixels[i].Color = newColor
			repainted++
			stack = append(stack, domain.Pixel{X: nx, Y: ny})
		}
	}

	return repainted, nil
}

// indexPixels 建立坐标到 grid.Pixels 下标的映射，缺失的坐标为 -1。
func indexPixels(grid *domain.FloodFill) []int {
	index := make([]int, grid.Area())
	for i := range index {
		index[i] = -1
	}
	for i, p := range grid.Pixels {
		if !grid.Contains(p.X, p.Y) {
			continue
		}
		index[offset(grid.SizeX, p.X, p.Y)] = i
	}
	return index
}

func offset(sizeX, x, y int) int {
	return (y-1)*sizeX + (x - 1)
}
