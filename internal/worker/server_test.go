package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/repository/mocks"
	"github.com/acsiqueiraGit/FloodFillBackend/internal/tasks"
)

func TestWorkerServer_MuxRoutesPaintRecord(t *testing.T) {
	repo := new(mocks.PaintActionRepository)
	ws := &WorkerServer{actionRepo: repo}
	mux := ws.Mux()
	ctx := context.Background()

	action := domain.PaintAction{FloodFillID: 9, UserID: "bob", X: 1, Y: 1, Color: "red", Repainted: 1}
	task, err := tasks.NewPaintRecordTask(action)
	require.NoError(t, err)
	repo.On("SaveBatch", ctx, []domain.PaintAction{action}).Return(nil).Once()

	assert.NoError(t, mux.ProcessTask(ctx, task))
	repo.AssertExpectations(t)

	err = mux.ProcessTask(ctx, asynq.NewTask("floodfill:unknown", nil))
	assert.Error(t, err)
	repo.AssertNumberOfCalls(t, "SaveBatch", 1)
}

func TestPaintRecordErrorHandler_LogsFloodFill(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handle := paintRecordErrorHandler(logger.WithField("component", "worker_server"))

	task, err := tasks.NewPaintRecordTask(domain.PaintAction{FloodFillID: 4, UserID: "alice"})
	require.NoError(t, err)
	handle(context.Background(), task, errors.New("db down"))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "Paint record dropped", entry.Message)
	assert.Equal(t, uint(4), entry.Data["floodfill_id"])
	assert.Equal(t, "alice", entry.Data["user_id"])
	assert.Equal(t, tasks.TypePaintRecord, entry.Data["task_type"])
}

func TestPaintRecordErrorHandler_MalformedPayload(t *testing.T) {
	logger, hook := test.NewNullLogger()
	handle := paintRecordErrorHandler(logger.WithField("component", "worker_server"))

	err := errors.Join(errors.New("bad payload"), asynq.SkipRetry)
	handle(context.Background(), asynq.NewTask(tasks.TypePaintRecord, []byte("{")), err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.NotContains(t, entry.Data, "floodfill_id")
}
