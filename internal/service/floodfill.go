package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/floodfill"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"

	"github.com/sirupsen/logrus"
)

// DefaultMaxGridArea 限制单个画布的像素总数
const DefaultMaxGridArea = 250000

// DefaultHistoryLimit 是历史查询默认返回的条数
const DefaultHistoryLimit = 50

// PaintRecorder 负责把填色记录交给持久化（同步写库或投递后台任务）。
type PaintRecorder interface {
	Record(ctx context.Context, action domain.PaintAction) error
}

// RepositoryRecorder 直接把填色记录写入仓库。
type RepositoryRecorder struct {
	actionRepo repository.PaintActionRepository
}

// NewRepositoryRecorder 创建 RepositoryRecorder 实例
func NewRepositoryRecorder(actionRepo repository.PaintActionRepository) *RepositoryRecorder {
	if actionRepo == nil {
		panic("PaintActionRepository cannot be nil for RepositoryRecorder")
	}
	return &RepositoryRecorder{actionRepo: actionRepo}
}

// Record 实现 PaintRecorder
func (r *RepositoryRecorder) Record(ctx context.Context, action domain.PaintAction) error {
	return r.actionRepo.SaveBatch(ctx, []domain.PaintAction{action})
}

// PaintNotifier 在填色成功后通知正在观看画布的客户端
type PaintNotifier interface {
	Notify(ctx context.Context, ff *domain.FloodFill, action domain.PaintAction) error
}

// CreateFloodFillInput 是创建画布所需的参数
type CreateFloodFillInput struct {
	Name   string
	SizeX  int
	SizeY  int
	Colors []string
}

// PaintInput 是一次填色请求。X/Y 为 nil 表示请求中缺少坐标。
type PaintInput struct {
	X     *int
	Y     *int
	Color string
}

// FloodFillService 负责画布的增删改查和填色。
type FloodFillService struct {
	floodfillRepo repository.FloodFillRepository
	actionRepo    repository.PaintActionRepository
	locker        repository.GridLocker
	recorder      PaintRecorder
	notifier      PaintNotifier
	factory       *floodfill.GridFactory
	filler        *floodfill.FloodFiller
	maxArea       int
	now           func() time.Time
}

// NewFloodFillService 创建 FloodFillService 实例。
// factory 为 nil 时使用随机颜色；maxArea <= 0 时使用 DefaultMaxGridArea。
func NewFloodFillService(
	floodfillRepo repository.FloodFillRepository,
	actionRepo repository.PaintActionRepository,
	locker repository.GridLocker,
	recorder PaintRecorder,
	factory *floodfill.GridFactory,
	maxArea int,
) *FloodFillService {
	if floodfillRepo == nil || actionRepo == nil || locker == nil || recorder == nil {
		panic("repositories, locker and recorder must be non-nil for FloodFillService")
	}
	if factory == nil {
		factory = floodfill.NewGridFactory(nil)
	}
	if maxArea <= 0 {
		maxArea = DefaultMaxGridArea
	}
	return &FloodFillService{
		floodfillRepo: floodfillRepo,
		actionRepo:    actionRepo,
		locker:        locker,
		recorder:      recorder,
		factory:       factory,
		filler:        floodfill.NewFloodFiller(),
		maxArea:       maxArea,
		now:           time.Now,
	}
}

// SetNotifier 设置填色通知，nil 表示不通知
func (s *FloodFillService) SetNotifier(notifier PaintNotifier) {
	s.notifier = notifier
}

// ListFloodFills 返回用户拥有的全部画布
func (s *FloodFillService) ListFloodFills(ctx context.Context, userID string) ([]domain.FloodFill, error) {
	floodfills, err := s.floodfillRepo.FindAllByUser(ctx, userID)
	if err != nil {
		logrus.WithField("user_id", userID).WithError(err).Error("ListFloodFills: Repository error")
		return nil, ErrInternalServer
	}
	if floodfills == nil {
		floodfills = []domain.FloodFill{}
	}
	return floodfills, nil
}

// GetFloodFill 根据 ID 获取用户的画布
func (s *FloodFillService) GetFloodFill(ctx context.Context, userID string, id uint) (*domain.FloodFill, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id})
	ff, err := s.floodfillRepo.FindByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, repository.ErrFloodFillNotFound) {
			logCtx.Debug("GetFloodFill: FloodFill not found")
			return nil, notFound(id)
		}
		logCtx.WithError(err).Error("GetFloodFill: Repository error")
		return nil, ErrInternalServer
	}
	if ff == nil {
		logCtx.Warn("GetFloodFill: Repository returned nil floodfill without error")
		return nil, notFound(id)
	}
	return ff, nil
}

// CreateFloodFill 生成初始像素矩阵并保存新画布，ID 由存储层分配。
func (s *FloodFillService) CreateFloodFill(ctx context.Context, userID string, in CreateFloodFillInput) (*domain.FloodFill, error) {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "size_x": in.SizeX, "size_y": in.SizeY})

	if in.SizeX < 1 || in.SizeY < 1 {
		return nil, fmt.Errorf("%w: sizeX and sizeY must be positive", ErrInvalidDimensions)
	}
	if in.SizeX > s.maxArea || in.SizeY > s.maxArea || in.SizeX*in.SizeY > s.maxArea {
		return nil, fmt.Errorf("%w: grid area exceeds %d pixels", ErrInvalidDimensions, s.maxArea)
	}

	pixels, err := s.factory.Create(in.SizeX, in.SizeY, in.Colors)
	if err != nil {
		if errors.Is(err, floodfill.ErrInvalidPalette) {
			logCtx.WithError(err).Warn("CreateFloodFill: Invalid palette")
			return nil, ErrInvalidPalette
		}
		logCtx.WithError(err).Error("CreateFloodFill: Failed to build pixel matrix")
		return nil, ErrInternalServer
	}

	ff := &domain.FloodFill{
		UserID: userID,
		Name:   in.Name,
		SizeX:  in.SizeX,
		SizeY:  in.SizeY,
		Colors: append([]string(nil), in.Colors...),
		Pixels: pixels,
	}
	if err := s.floodfillRepo.Create(ctx, ff); err != nil {
		logCtx.WithError(err).Error("CreateFloodFill: Failed to save floodfill")
		return nil, ErrInternalServer
	}

	logCtx.WithField("floodfill_id", ff.ID).Info("FloodFill created successfully")
	return ff, nil
}

// PaintFloodFill 从 (x, y) 开始填色并保存结果。
// 同一个画布上的修改通过 GridLocker 串行执行。
func (s *FloodFillService) PaintFloodFill(ctx context.Context, userID string, id uint, in PaintInput) (*domain.FloodFill, error) {
	if in.X == nil || in.Y == nil {
		return nil, fmt.Errorf("%w: x and y are required", ErrInvalidPaint)
	}
	if in.Color == "" {
		return nil, fmt.Errorf("%w: color is required", ErrInvalidPaint)
	}
	x, y := *in.X, *in.Y
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id, "x": x, "y": y, "color": in.Color})

	release, err := s.lock(ctx, userID, id)
	if err != nil {
		logCtx.WithError(err).Warn("PaintFloodFill: Could not lock floodfill")
		return nil, err
	}
	defer release()

	ff, err := s.GetFloodFill(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	previous, _ := colorAt(ff, x, y)
	repainted, err := s.filler.Paint(ff, x, y, in.Color)
	if err != nil {
		if errors.Is(err, floodfill.ErrPixelNotFound) {
			logCtx.WithError(err).Warn("PaintFloodFill: Seed pixel not found")
			return nil, fmt.Errorf("%w at (%d,%d)", ErrPixelNotFound, x, y)
		}
		logCtx.WithError(err).Error("PaintFloodFill: Paint failed")
		return nil, ErrInternalServer
	}
	if repainted == 0 {
		logCtx.Debug("PaintFloodFill: Color unchanged, nothing to do")
		return ff, nil
	}

	if err := s.floodfillRepo.Update(ctx, ff); err != nil {
		if errors.Is(err, repository.ErrFloodFillNotFound) {
			return nil, notFound(id)
		}
		logCtx.WithError(err).Error("PaintFloodFill: Failed to save floodfill")
		return nil, ErrInternalServer
	}

	action := domain.PaintAction{
		FloodFillID:   ff.ID,
		UserID:        userID,
		X:             x,
		Y:             y,
		Color:         in.Color,
		PreviousColor: previous,
		Repainted:     repainted,
		CreatedAt:     s.now().UTC(),
	}
	// 历史记录失败不影响填色结果
	if err := s.recorder.Record(ctx, action); err != nil {
		logCtx.WithError(err).Warn("PaintFloodFill: Failed to record paint action")
	}
	if s.notifier != nil {
		if err := s.notifier.Notify(ctx, ff, action); err != nil {
			logCtx.WithError(err).Warn("PaintFloodFill: Failed to notify watchers")
		}
	}

	logCtx.WithField("repainted", repainted).Info("FloodFill painted successfully")
	return ff, nil
}

// DeleteFloodFill 删除画布及其填色历史
func (s *FloodFillService) DeleteFloodFill(ctx context.Context, userID string, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id})

	release, err := s.lock(ctx, userID, id)
	if err != nil {
		logCtx.WithError(err).Warn("DeleteFloodFill: Could not lock floodfill")
		return err
	}
	defer release()

	if err := s.floodfillRepo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, repository.ErrFloodFillNotFound) {
			return notFound(id)
		}
		logCtx.WithError(err).Error("DeleteFloodFill: Repository error")
		return ErrInternalServer
	}
	if err := s.actionRepo.DeleteByFloodFill(ctx, userID, id); err != nil {
		logCtx.WithError(err).Warn("DeleteFloodFill: Failed to delete paint history")
	}

	logCtx.Info("FloodFill deleted successfully")
	return nil
}

// ListPaintHistory 返回画布最近的填色记录，最新的在前
func (s *FloodFillService) ListPaintHistory(ctx context.Context, userID string, id uint, limit int) ([]domain.PaintAction, error) {
	if _, err := s.GetFloodFill(ctx, userID, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	actions, err := s.actionRepo.FindByFloodFill(ctx, userID, id, limit)
	if err != nil {
		logrus.WithFields(logrus.Fields{"user_id": userID, "floodfill_id": id}).WithError(err).Error("ListPaintHistory: Repository error")
		return nil, ErrInternalServer
	}
	if actions == nil {
		actions = []domain.PaintAction{}
	}
	return actions, nil
}

// --- 私有辅助函数 ---

func (s *FloodFillService) lock(ctx context.Context, userID string, id uint) (func(), error) {
	release, err := s.locker.Acquire(ctx, lockKey(userID, id))
	if err != nil {
		if errors.Is(err, repository.ErrLockNotAcquired) {
			return nil, ErrGridBusy
		}
		return nil, ErrInternalServer
	}
	return release, nil
}

func lockKey(userID string, id uint) string {
	return fmt.Sprintf("floodfill:%s:%d", userID, id)
}

func notFound(id uint) error {
	return fmt.Errorf("%w: id %d", ErrFloodFillNotFound, id)
}

func colorAt(ff *domain.FloodFill, x, y int) (string, bool) {
	for _, p := range ff.Pixels {
		if p.X == x && p.Y == y {
			return p.Color, true
		}
	}
	return "", false
}
