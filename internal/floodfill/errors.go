package floodfill

import "errors"

var (
	// ErrInvalidPalette 调色板为空或包含不可用的颜色
	ErrInvalidPalette = errors.New("floodfill: invalid palette")
	// ErrPixelNotFound 指定坐标处没有像素
	ErrPixelNotFound = errors.New("floodfill: pixel not found")
)
