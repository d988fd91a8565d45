// Package render 把画布渲染成 PNG 图片。
package render

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// MaxScale 限制每个像素放大后的边长
const MaxScale = 64

// namedColors 是常见颜色名到十六进制值的映射
var namedColors = map[string]string{
	"black":   "#000000",
	"white":   "#ffffff",
	"red":     "#ff0000",
	"green":   "#008000",
	"lime":    "#00ff00",
	"blue":    "#0000ff",
	"yellow":  "#ffff00",
	"orange":  "#ffa500",
	"purple":  "#800080",
	"pink":    "#ffc0cb",
	"brown":   "#a52a2a",
	"gray":    "#808080",
	"grey":    "#808080",
	"cyan":    "#00ffff",
	"magenta": "#ff00ff",
}

// ResolveColor 把颜色记号解析成 RGB 颜色。
// 支持 #RRGGBB / #RGB 和常见颜色名；其他记号按哈希映射到一个固定的颜色，
// 保证同一记号总是渲染成同一颜色。
func ResolveColor(token string) color.Color {
	t := strings.ToLower(strings.TrimSpace(token))
	if hex, ok := namedColors[t]; ok {
		t = hex
	}
	if strings.HasPrefix(t, "#") {
		if c, err := colorful.Hex(expandShortHex(t)); err == nil {
			return toNRGBA(c)
		}
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(token))
	hue := float64(h.Sum32() % 360)
	return toNRGBA(colorful.Hsv(hue, 0.55, 0.85))
}

// PNG 以 scale 倍放大渲染画布，每个像素变成 scale×scale 的方块。
func PNG(ff *domain.FloodFill, scale int) ([]byte, error) {
	if ff == nil || ff.SizeX <= 0 || ff.SizeY <= 0 {
		return nil, fmt.Errorf("render: grid has no pixels")
	}
	if scale < 1 || scale > MaxScale {
		return nil, fmt.Errorf("render: scale must be between 1 and %d", MaxScale)
	}

	img := image.NewNRGBA(image.Rect(0, 0, ff.SizeX, ff.SizeY))
	cache := make(map[string]color.Color)
	for _, p := range ff.Pixels {
		if !ff.Contains(p.X, p.Y) {
			continue
		}
		c, ok := cache[p.Color]
		if !ok {
			c = ResolveColor(p.Color)
			cache[p.Color] = c
		}
		img.Set(p.X-1, p.Y-1, c)
	}

	var out image.Image = img
	if scale > 1 {
		out = imaging.Resize(img, ff.SizeX*scale, ff.SizeY*scale, imaging.NearestNeighbor)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("render: failed to encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func expandShortHex(s string) string {
	if len(s) != 4 {
		return s
	}
	return "#" + strings.Repeat(s[1:2], 2) + strings.Repeat(s[2:3], 2) + strings.Repeat(s[3:4], 2)
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
