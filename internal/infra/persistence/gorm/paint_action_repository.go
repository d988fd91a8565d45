package gormpersistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// GormPaintActionRepository 是 PaintActionRepository 接口的 GORM 实现
type GormPaintActionRepository struct {
	db *gorm.DB
}

// NewGormPaintActionRepository 创建 GormPaintActionRepository 实例
func NewGormPaintActionRepository(db *gorm.DB) *GormPaintActionRepository {
	if db == nil {
		panic("database connection cannot be nil for GormPaintActionRepository")
	}
	return &GormPaintActionRepository{db: db}
}

// SaveBatch 实现批量保存填色记录
func (r *GormPaintActionRepository) SaveBatch(ctx context.Context, actions []domain.PaintAction) error {
	if len(actions) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Create(&actions).Error; err != nil {
		return fmt.Errorf("gorm: failed to save paint action batch (size %d): %w", len(actions), err)
	}
	return nil
}

// FindByFloodFill 实现查询画布的填色历史，最新的在前
func (r *GormPaintActionRepository) FindByFloodFill(ctx context.Context, userID string, floodfillID uint, limit int) ([]domain.PaintAction, error) {
	var actions []domain.PaintAction
	query := r.db.WithContext(ctx).
		Where("flood_fill_id = ? AND user_id = ?", floodfillID, userID).
		Order("created_at desc, id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&actions).Error; err != nil {
		return nil, fmt.Errorf("gorm: failed to get paint actions for floodfill %d: %w", floodfillID, err)
	}
	return actions, nil
}

// DeleteByFloodFill 实现删除画布的全部历史
func (r *GormPaintActionRepository) DeleteByFloodFill(ctx context.Context, userID string, floodfillID uint) error {
	err := r.db.WithContext(ctx).
		Where("flood_fill_id = ? AND user_id = ?", floodfillID, userID).
		Delete(&domain.PaintAction{}).Error
	if err != nil {
		return fmt.Errorf("gorm: failed to delete paint actions for floodfill %d: %w", floodfillID, err)
	}
	return nil
}
