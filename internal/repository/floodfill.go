package repository

import (
	"context"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// FloodFillRepository 定义了画布数据的存储和检索操作。
// 所有查询都限定在所属用户范围内。
type FloodFillRepository interface {
	// FindAllByUser 返回用户拥有的全部画布，按 ID 升序。
	FindAllByUser(ctx context.Context, userID string) ([]domain.FloodFill, error)

	// FindByID 根据用户和画布 ID 查找画布。
	// 如果不存在（或属于其他用户），返回 ErrFloodFillNotFound。
	FindByID(ctx context.Context, userID string, id uint) (*domain.FloodFill, error)

	// Create 保存新画布，并由存储层分配 ID 写回 floodfill.ID。
	Create(ctx context.Context, floodfill *domain.FloodFill) error

	// Update 覆盖已有画布的像素等字段。不存在时返回 ErrFloodFillNotFound。
	Update(ctx context.Context, floodfill *domain.FloodFill) error

	// Delete 删除画布。不存在时返回 ErrFloodFillNotFound。
	Delete(ctx context.Context, userID string, id uint) error
}
