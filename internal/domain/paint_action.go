package domain

import "time"

// PaintAction 记录一次成功的填色操作。
type PaintAction struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	FloodFillID   uint      `gorm:"index;not null" json:"floodfillId"`
	UserID        string    `gorm:"type:varchar(191);index;not null" json:"-"`
	X             int       `gorm:"not null" json:"x"`
	Y             int       `gorm:"not null" json:"y"`
	Color         string    `gorm:"size:255;not null" json:"color"`
	PreviousColor string    `gorm:"size:255;not null" json:"previousColor"`
	Repainted     int       `gorm:"not null" json:"repainted"`
	CreatedAt     time.Time `gorm:"index;not null" json:"createdAt"`
}
