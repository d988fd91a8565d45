package memory

import (
	"context"
	"sync"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// PaintActionRepository 是 PaintActionRepository 接口的内存实现
type PaintActionRepository struct {
	mu      sync.RWMutex
	nextID  uint
	actions []domain.PaintAction
}

// NewPaintActionRepository 创建 PaintActionRepository 实例
func NewPaintActionRepository() *PaintActionRepository {
	return &PaintActionRepository{}
}

// SaveBatch 实现 PaintActionRepository
func (r *PaintActionRepository) SaveBatch(ctx context.Context, actions []domain.PaintAction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range actions {
		r.nextID++
		a.ID = r.nextID
		r.actions = append(r.actions, a)
	}
	return nil
}

// FindByFloodFill 实现 PaintActionRepository，最新的记录在前
func (r *PaintActionRepository) FindByFloodFill(ctx context.Context, userID string, floodfillID uint, limit int) ([]domain.PaintAction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.PaintAction, 0)
	for i := len(r.actions) - 1; i >= 0; i-- {
		a := r.actions[i]
		if a.FloodFillID != floodfillID || a.UserID != userID {
			continue
		}
		result = append(result, a)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}

// DeleteByFloodFill 实现 PaintActionRepository
func (r *PaintActionRepository) DeleteByFloodFill(ctx context.Context, userID string, floodfillID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.actions[:0]
	for _, a := range r.actions {
		if a.FloodFillID == floodfillID && a.UserID == userID {
			continue
		}
		kept = append(kept, a)
	}
	r.actions = kept
	return nil
}
