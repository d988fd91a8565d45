package gormpersistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
)

// GormFloodFillRepository 是 FloodFillRepository 接口的 GORM 实现
type GormFloodFillRepository struct {
	db *gorm.DB
}

// NewGormFloodFillRepository 创建 GormFloodFillRepository 实例
func NewGormFloodFillRepository(db *gorm.DB) *GormFloodFillRepository {
	if db == nil {
		panic("database connection cannot be nil for GormFloodFillRepository")
	}
	return &GormFloodFillRepository{db: db}
}

// FindAllByUser 实现根据用户查找全部画布
func (r *GormFloodFillRepository) FindAllByUser(ctx context.Context, userID string) ([]domain.FloodFill, error) {
	var floodfills []domain.FloodFill
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&floodfills).Error
	if err != nil {
		return nil, fmt.Errorf("gorm: find floodfills by user '%s': %w", userID, err)
	}
	return floodfills, nil
}

// FindByID 实现根据用户和 ID 查找画布
func (r *GormFloodFillRepository) FindByID(ctx context.Context, userID string, id uint) (*domain.FloodFill, error) {
	var ff domain.FloodFill
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&ff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrFloodFillNotFound
		}
		return nil, fmt.Errorf("gorm: find floodfill by id %d: %w", id, err)
	}
	return &ff, nil
}

// Create 实现保存新画布，ID 由数据库自增分配
func (r *GormFloodFillRepository) Create(ctx context.Context, floodfill *domain.FloodFill) error {
	if err := r.db.WithContext(ctx).Create(floodfill).Error; err != nil {
		return fmt.Errorf("gorm: create floodfill (user: %s, name: %s): %w", floodfill.UserID, floodfill.Name, err)
	}
	return nil
}

// Update 实现覆盖画布的像素和元数据
func (r *GormFloodFillRepository) Update(ctx context.Context, floodfill *domain.FloodFill) error {
	result := r.db.WithContext(ctx).
		Model(&domain.FloodFill{}).
		Where("id = ? AND user_id = ?", floodfill.ID, floodfill.UserID).
		Select("name", "colors", "pixels", "updated_at").
		Updates(floodfill)
	if result.Error != nil {
		return fmt.Errorf("gorm: update floodfill %d: %w", floodfill.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrFloodFillNotFound
	}
	return nil
}

// Delete 实现删除画布
func (r *GormFloodFillRepository) Delete(ctx context.Context, userID string, id uint) error {
	result := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&domain.FloodFill{})
	if result.Error != nil {
		return fmt.Errorf("gorm: delete floodfill %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return repository.ErrFloodFillNotFound
	}
	return nil
}
