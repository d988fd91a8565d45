package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acsiqueiraGit/FloodFillBackend/internal/domain"
)

type enqueuerStub struct {
	tasks []*asynq.Task
	opts  []asynq.Option
	err   error
}

func (e *enqueuerStub) EnqueueContext(_ context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	e.opts = append(e.opts, opts...)
	if e.err != nil {
		return nil, e.err
	}
	return &asynq.TaskInfo{ID: "1", Type: task.Type()}, nil
}

func TestDispatcher_Record(t *testing.T) {
	stub := &enqueuerStub{}
	d := NewDispatcher(stub, "")

	action := domain.PaintAction{FloodFillID: 3, UserID: "alice", X: 1, Y: 2, Color: "green", Repainted: 4}
	require.NoError(t, d.Record(context.Background(), action))

	require.Len(t, stub.tasks, 1)
	assert.Equal(t, TypePaintRecord, stub.tasks[0].Type())
	assert.Contains(t, stub.opts, asynq.Queue(QueuePaintRecord))

	var payload PaintRecordPayload
	require.NoError(t, json.Unmarshal(stub.tasks[0].Payload(), &payload))
	assert.Equal(t, action, payload.PaintAction())
}

func TestDispatcher_Record_EnqueueError(t *testing.T) {
	stub := &enqueuerStub{err: errors.New("redis down")}
	err := NewDispatcher(stub, "low").Record(context.Background(), domain.PaintAction{})
	assert.Error(t, err)
}
