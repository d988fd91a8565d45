// Package domain 定义了 floodfill 服务的核心数据结构。
package domain

import "time"

// Pixel 是画布上的一个像素。坐标从 1 开始。
type Pixel struct {
	X     int    `json:"x"`
	Y     int    `json:"y"`
	Color string `json:"color"`
}

// FloodFill 表示一个属于某个用户的矩形像素画布。
// Pixels 始终完整覆盖 [1,SizeX]×[1,SizeY]，每个坐标恰好出现一次。
type FloodFill struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"type:varchar(191);index;not null" json:"-"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	SizeX     int       `gorm:"not null" json:"sizeX"`
	SizeY     int       `gorm:"not null" json:"sizeY"`
	Colors    []string  `gorm:"serializer:json;type:text;not null" json:"colors"`
	Pixels    []Pixel   `gorm:"serializer:json;type:longtext;not null" json:"pixels"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"-"`
}

// TableName 固定表名为 floodfills
func (FloodFill) TableName() string {
	return "floodfills"
}

// Area 返回画布应有的像素个数
func (f *FloodFill) Area() int {
	return f.SizeX * f.SizeY
}

// Contains 判断坐标 (x, y) 是否在画布内，坐标从 1 开始
func (f *FloodFill) Contains(x, y int) bool {
	return x >= 1 && x <= f.SizeX && y >= 1 && y <= f.SizeY
}

// Clone 返回一个深拷贝，修改副本不会影响原对象。
func (f *FloodFill) Clone() *FloodFill {
	if f == nil {
		return nil
	}
	c := *f
	c.Colors = append([]string(nil), f.Colors...)
	c.Pixels = append([]Pixel(nil), f.Pixels...)
	return &c
}
