package repository

import (
	"context"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// PaintActionRepository 保存和查询填色历史。
type PaintActionRepository interface {
	// SaveBatch 批量保存填色记录。
	SaveBatch(ctx context.Context, actions []domain.PaintAction) error

	// FindByFloodFill 返回某个画布最近的填色记录，最新的在前。
	// limit <= 0 表示不限制。
	FindByFloodFill(ctx context.Context, userID string, floodfillID uint, limit int) ([]domain.PaintAction, error)

	// DeleteByFloodFill 删除画布的全部历史（画布删除时调用）。
	DeleteByFloodFill(ctx context.Context, userID string, floodfillID uint) error
}
