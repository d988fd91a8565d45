package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/tasks"
)

// PaintRecordHandler 处理填色历史持久化任务
type PaintRecordHandler struct {
	actionRepo repository.PaintActionRepository
}

// NewPaintRecordHandler 创建 Handler 实例
func NewPaintRecordHandler(actionRepo repository.PaintActionRepository) *PaintRecordHandler {
	if actionRepo == nil {
		panic("PaintActionRepository cannot be nil for PaintRecordHandler")
	}
	return &PaintRecordHandler{actionRepo: actionRepo}
}

// ProcessTask 实现 asynq.Handler 接口
func (h *PaintRecordHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	taskID := ""
	if rw := t.ResultWriter(); rw != nil {
		taskID = rw.TaskID()
	}
	currentRetry, _ := asynq.GetRetryCount(ctx)

	logCtx := logrus.WithFields(logrus.Fields{
		"task_id":   taskID,
		"task_type": t.Type(),
		"retry":     currentRetry,
	})

	var payload tasks.PaintRecordPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logCtx.WithError(err).Error("Failed to unmarshal task payload")
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	action := payload.PaintAction()
	logCtx = logCtx.WithFields(logrus.Fields{"floodfill_id": action.FloodFillID, "user_id": action.UserID})
	if err := h.actionRepo.SaveBatch(ctx, []domain.PaintAction{action}); err != nil {
		logCtx.WithError(err).Error("Failed to save paint action")
		return fmt.Errorf("failed to save paint action for floodfill %d: %w", action.FloodFillID, err)
	}

	logCtx.Debug("Paint record task processed successfully")
	return nil
}
