package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

// 任务类型常量
const (
	TypePaintRecord = "floodfill:paint_record" // 填色历史持久化任务
)

// QueuePaintRecord 是填色历史任务所在的队列，worker 只消费这一个队列
const QueuePaintRecord = "paint_records"

// PaintRecordPayload 是填色历史任务的数据。
// PaintAction 的 JSON 不包含用户，所以单独携带 UserID。
type PaintRecordPayload struct {
	UserID string             `json:"userId"`
	Action domain.PaintAction `json:"action"`
}

// PaintAction 返回带有用户信息的完整记录
func (p PaintRecordPayload) PaintAction() domain.PaintAction {
	action := p.Action
	action.UserID = p.UserID
	return action
}

// NewPaintRecordTask 创建一个填色历史持久化任务
func NewPaintRecordTask(action domain.PaintAction) (*asynq.Task, error) {
	payload, err := json.Marshal(PaintRecordPayload{UserID: action.UserID, Action: action})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal paint record payload: %w", err)
	}
	return asynq.NewTask(TypePaintRecord, payload, asynq.MaxRetry(5), asynq.Timeout(30*time.Second)), nil
}

// Enqueuer 是 asynq.Client 的最小接口，便于测试替换
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher 把填色记录投递到 asynq 队列，由 worker 异步写库。
type Dispatcher struct {
	client Enqueuer
	queue  string
}

// NewDispatcher 创建 Dispatcher 实例
func NewDispatcher(client Enqueuer, queue string) *Dispatcher {
	if client == nil {
		panic("asynq client cannot be nil for Dispatcher")
	}
	if queue == "" {
		queue = QueuePaintRecord
	}
	return &Dispatcher{client: client, queue: queue}
}

// Record 实现 service.PaintRecorder
func (d *Dispatcher) Record(ctx context.Context, action domain.PaintAction) error {
	task, err := NewPaintRecordTask(action)
	if err != nil {
		return err
	}
	if _, err := d.client.EnqueueContext(ctx, task, asynq.Queue(d.queue)); err != nil {
		return fmt.Errorf("failed to enqueue %s task: %w", TypePaintRecord, err)
	}
	return nil
}
