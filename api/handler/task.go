package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskservice/api/transport"
	"github.com/fastygo/taskservice/domain"
	"github.com/fastygo/taskservice/pkg/httpcontext"
	appLogger "github.com/fastygo/taskservice/pkg/logger"
	taskUC "github.com/fastygo/taskservice/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc *taskUC.UseCase
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger),
		uc:          uc,
	}
}

// @Summary List tasks that are not soft-deleted
// @Tags tasks
// @Param sort query string false "dateAdded | dueDate | priority"
// @Router /api/tasks [get]
func (h *TaskHandler) ListTasks(ctx *fasthttp.RequestCtx) {
	key := domain.ParseSortKey(string(ctx.QueryArgs().Peek("sort")))

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	tasks, err := h.uc.ListTasks(stdCtx, key)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, tasks)
}

// @Summary Create task
// @Tags tasks
// @Router /api/tasks [post]
func (h *TaskHandler) CreateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := transport.DecodeCreateTask(ctx.PostBody())
	if err != nil {
		appLogger.WithRequestID(stdCtx, h.logger).Error("error creating task", zap.Error(err))
		h.respondError(ctx, err)
		return
	}

	created, err := h.uc.CreateTask(stdCtx, task)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusCreated, created)
}

// @Summary Get task by id, including soft-deleted ones
// @Tags tasks
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.GetTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Update task (clears the delete flag; body is ignored)
// @Tags tasks
// @Router /api/tasks/{id} [put]
func (h *TaskHandler) UpdateTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.UpdateTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, task)
}

// @Summary Soft-delete task
// @Tags tasks
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	if err := h.uc.DeleteTask(stdCtx, taskID(ctx)); err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: transport.MsgTaskDeleted})
}

// @Summary Restore soft-deleted task
// @Tags tasks
// @Router /api/tasks/{id}/restore [post]
func (h *TaskHandler) RestoreTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.RestoreTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: transport.MsgTaskRestored, Task: task})
}

// @Summary Mark task as completed
// @Tags tasks
// @Router /api/tasks/{id}/complete [patch]
func (h *TaskHandler) CompleteTask(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	task, err := h.uc.CompleteTask(stdCtx, taskID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.MessageResponse{Message: transport.MsgTaskCompleted, Task: task})
}

func taskID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}
