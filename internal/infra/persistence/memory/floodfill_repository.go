// Package memory 提供进程内的仓库实现，用于开发环境和测试。
// 数据不会在重启后保留。
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
)

// FloodFillRepository 是 FloodFillRepository 接口的内存实现。
// ID 由单调递增的计数器分配，删除后不会复用。
type FloodFillRepository struct {
	mu         sync.RWMutex
	nextID     uint
	floodfills map[uint]*domain.FloodFill
}

// NewFloodFillRepository 创建内存仓库，seed 中的画布保留原有 ID。
func NewFloodFillRepository(seed ...domain.FloodFill) *FloodFillRepository {
	r := &FloodFillRepository{floodfills: make(map[uint]*domain.FloodFill)}
	for i := range seed {
		ff := seed[i].Clone()
		r.floodfills[ff.ID] = ff
		if ff.ID >= r.nextID {
			r.nextID = ff.ID
		}
	}
	return r
}

// SampleFloodFill 返回开发环境使用的示例画布
func SampleFloodFill() domain.FloodFill {
	return domain.FloodFill{
		ID:     1,
		UserID: "Antonio",
		Name:   "Sample test panel",
		SizeX:  1,
		SizeY:  1,
		Colors: []string{"red", "blue", "yellow"},
		Pixels: []domain.Pixel{{X: 1, Y: 1, Color: "red"}},
	}
}

// FindAllByUser 实现 FloodFillRepository
func (r *FloodFillRepository) FindAllByUser(ctx context.Context, userID string) ([]domain.FloodFill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.FloodFill, 0)
	for _, ff := range r.floodfills {
		if ff.UserID == userID {
			result = append(result, *ff.Clone())
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

// FindByID 实现 FloodFillRepository
func (r *FloodFillRepository) FindByID(ctx context.Context, userID string, id uint) (*domain.FloodFill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ff, ok := r.floodfills[id]
	if !ok || ff.UserID != userID {
		return nil, repository.ErrFloodFillNotFound
	}
	return ff.Clone(), nil
}

// Create 实现 FloodFillRepository
func (r *FloodFillRepository) Create(ctx context.Context, floodfill *domain.FloodFill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	floodfill.ID = r.nextID
	r.floodfills[floodfill.ID] = floodfill.Clone()
	return nil
}

// Update 实现 FloodFillRepository
func (r *FloodFillRepository) Update(ctx context.Context, floodfill *domain.FloodFill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.floodfills[floodfill.ID]
	if !ok || existing.UserID != floodfill.UserID {
		return repository.ErrFloodFillNotFound
	}
	r.floodfills[floodfill.ID] = floodfill.Clone()
	return nil
}

// Delete 实现 FloodFillRepository
func (r *FloodFillRepository) Delete(ctx context.Context, userID string, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	ff, ok := r.floodfills[id]
	if !ok || ff.UserID != userID {
		return repository.ErrFloodFillNotFound
	}
	delete(r.floodfills, id)
	return nil
}
