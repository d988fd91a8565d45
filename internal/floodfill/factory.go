// Package floodfill 实现画布的初始化和区域填色算法。
//
// 这里的代码是同步的，不做任何加锁；同一个画布的并发访问由调用方串行化。
package floodfill

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// ColorPicker 返回 [0, n) 范围内的一个下标。
type ColorPicker func(n int) int

// GridFactory 负责为新画布生成初始像素矩阵。
type GridFactory struct {
	pick ColorPicker
}

// NewGridFactory 创建 GridFactory。pick 为 nil 时使用均匀随机选择。
func NewGridFactory(pick ColorPicker) *GridFactory {
	if pick == nil {
		pick = newRandomPicker(time.Now().UnixNano())
	}
	return &GridFactory{pick: pick}
}

// Create 生成 sizeX×sizeY 个像素，按行优先顺序排列（第 1 行的所有列，然后第 2 行……），
// 每个像素的颜色从 colors 中有放回地随机选取。
func (f *GridFactory) Create(sizeX, sizeY int, colors []string) ([]domain.Pixel, error) {
	if err := ValidatePalette(colors); err != nil {
		return nil, err
	}
	if sizeX <= 0 || sizeY <= 0 {
		return []domain.Pixel{}, nil
	}

	pixels := make([]domain.Pixel, 0, sizeX*sizeY)
	for row := 1; row <= sizeY; row++ {
		for column := 1; column <= sizeX; column++ {
			idx := f.pick(len(colors))
			if idx < 0 || idx >= len(colors) {
				return nil, fmt.Errorf("floodfill: color picker returned index %d for palette of %d", idx, len(colors))
			}
			pixels = append(pixels, domain.Pixel{X: column, Y: row, Color: colors[idx]})
		}
	}
	return pixels, nil
}

// ValidatePalette 检查调色板是否可用于生成像素。
func ValidatePalette(colors []string) error {
	if len(colors) == 0 {
		return fmt.Errorf("%w: palette is empty", ErrInvalidPalette)
	}
	for i, c := range colors {
		if c == "" {
			return fmt.Errorf("%w: color at index %d is empty", ErrInvalidPalette, i)
		}
	}
	return nil
}

// newRandomPicker 返回并发安全的随机选择器（rand.Rand 本身不是并发安全的）。
func newRandomPicker(seed int64) ColorPicker {
	var mu sync.Mutex
	r := rand.New(rand.NewSource(seed))
	return func(n int) int {
		mu.Lock()
		defer mu.Unlock()
		return r.Intn(n)
	}
}
