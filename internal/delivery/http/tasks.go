package http

import (
	"net/http"

	"golang-scheduler/internal/dto"
	"golang-scheduler/internal/model"

	"github.com/labstack/echo/v4"
)

func (h *HttpAPIHandler) SetupTasks(base *echo.Group) {
	v1 := base.Group("/v1")
	{
		v1.POST("/tasks", h.CreateTask)
		v1.GET("/tasks", h.ListTasks)
		v1.GET("/tasks/stats", h.TaskStats)
		v1.GET("/tasks/:id", h.GetTask)
		v1.PATCH("/tasks/:id", h.UpdateTask)
		v1.DELETE("/tasks/:id", h.DeleteTask)
		v1.POST("/tasks/:id/execute", h.ExecuteTask)
		v1.POST("/tasks/:id/pause", h.PauseTask)
		v1.POST("/tasks/:id/resume", h.ResumeTask)
		v1.GET("/scheduler/status", h.SchedulerStatus)
		v1.POST("/scheduler/cleanup", h.Cleanup)
	}
}

func (h *HttpAPIHandler) CreateTask(c echo.Context) error {
	var req dto.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	taskID, err := h.service.SchedulerService.CreateTask(c.Request().Context(), req.ConfigurationID, req.UserID, req.Schedule)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Task created", echo.Map{"task_id": taskID}))
}

func (h *HttpAPIHandler) ListTasks(c echo.Context) error {
	tasks := h.service.SchedulerService.GetTasks(c.Request().Context(), c.QueryParam("user_id"))
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Tasks", tasks))
}

func (h *HttpAPIHandler) GetTask(c echo.Context) error {
	task, err := h.service.SchedulerService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task", task))
}

func (h *HttpAPIHandler) UpdateTask(c echo.Context) error {
	var req dto.UpdateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	updates := model.TaskUpdateParam{Schedule: req.Schedule, Status: req.Status}
	if err := h.service.SchedulerService.UpdateTask(c.Request().Context(), c.Param("id"), updates); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task updated", nil))
}

func (h *HttpAPIHandler) DeleteTask(c echo.Context) error {
	if err := h.service.SchedulerService.DeleteTask(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task deleted", nil))
}

func (h *HttpAPIHandler) ExecuteTask(c echo.Context) error {
	executionID, err := h.service.SchedulerService.ExecuteNow(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Execution started", echo.Map{"execution_id": executionID}))
}

func (h *HttpAPIHandler) PauseTask(c echo.Context) error {
	if err := h.service.SchedulerService.PauseTask(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task paused", nil))
}

func (h *HttpAPIHandler) ResumeTask(c echo.Context) error {
	if err := h.service.SchedulerService.ResumeTask(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task resumed", nil))
}

func (h *HttpAPIHandler) TaskStats(c echo.Context) error {
	stats := h.service.SchedulerService.GetTaskStats(c.Request().Context(), c.QueryParam("user_id"))
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Task stats", stats))
}

func (h *HttpAPIHandler) SchedulerStatus(c echo.Context) error {
	status := h.service.SchedulerService.GetSchedulerStatus(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Scheduler status", status))
}

func (h *HttpAPIHandler) Cleanup(c echo.Context) error {
	removed := h.service.SchedulerService.Cleanup(c.Request().Context())
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Cleanup finished", echo.Map{"removed": removed}))
}
