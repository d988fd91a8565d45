package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/tasks"
)

// WorkerServer 消费填色历史队列，把记录写入 PaintActionRepository
type WorkerServer struct {
	server     *asynq.Server
	log        *logrus.Entry
	actionRepo repository.PaintActionRepository
}

// NewWorkerServer 创建一个新的 WorkerServer 实例
func NewWorkerServer(redisOpt asynq.RedisClientOpt, concurrency int, actionRepo repository.PaintActionRepository, logger *logrus.Logger) *WorkerServer {
	logEntry := logger.WithField("component", "worker_server")
	if concurrency <= 0 {
		concurrency = 10
	}

	server := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:  concurrency,
			Queues:       map[string]int{tasks.QueuePaintRecord: 1},
			ErrorHandler: paintRecordErrorHandler(logEntry),
		},
	)

	return &WorkerServer{
		server:     server,
		log:        logEntry,
		actionRepo: actionRepo,
	}
}

// paintRecordErrorHandler 记录失败的任务。重试耗尽的记录不会再写入历史，用 Error 级别标出来。
func paintRecordErrorHandler(log *logrus.Entry) asynq.ErrorHandlerFunc {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retryCount, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)
		fields := logrus.Fields{
			"task_type": task.Type(),
			"retries":   retryCount,
			"max_retry": maxRetry,
		}
		var payload tasks.PaintRecordPayload
		if json.Unmarshal(task.Payload(), &payload) == nil {
			fields["floodfill_id"] = payload.Action.FloodFillID
			fields["user_id"] = payload.UserID
		}

		entry := log.WithFields(fields).WithError(err)
		if retryCount >= maxRetry || errors.Is(err, asynq.SkipRetry) {
			entry.Error("Paint record dropped")
			return
		}
		entry.Warn("Paint record failed, will retry")
	}
}

// Mux 返回注册了全部任务处理器的 ServeMux
func (ws *WorkerServer) Mux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypePaintRecord, NewPaintRecordHandler(ws.actionRepo).ProcessTask)
	return mux
}

// Start 运行 Worker Server，应在单独的 goroutine 中调用
func (ws *WorkerServer) Start() {
	ws.log.WithField("queue", tasks.QueuePaintRecord).Info("Worker server starting...")
	if err := ws.server.Run(ws.Mux()); err != nil {
		if errors.Is(err, asynq.ErrServerClosed) {
			ws.log.Info("Worker server stopped.")
			return
		}
		ws.log.WithError(err).Error("Could not run worker server")
	}
}

// Shutdown 等待正在执行的任务完成后关闭
func (ws *WorkerServer) Shutdown() {
	ws.server.Shutdown()
	ws.log.Info("Worker server shut down complete.")
}
