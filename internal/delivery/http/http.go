package http

import (
	"context"
	"errors"
	"net/http"

	"golang-scheduler/internal/dto"
	"golang-scheduler/internal/model"
	"golang-scheduler/internal/repository"
	"golang-scheduler/internal/service"

	goValidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type HttpAPIHandler struct {
	echo      *echo.Echo
	validator *goValidator.Validate
	service   *service.Service
	repo      *repository.Repository
}

func NewHttpAPIHandler(ctx context.Context, echo *echo.Echo, validator *goValidator.Validate, service *service.Service, repo *repository.Repository) *HttpAPIHandler {
	return &HttpAPIHandler{
		echo:      echo,
		validator: validator,
		service:   service,
		repo:      repo,
	}
}

func (h *HttpAPIHandler) SetupRoutes() {
	base := h.echo.Group("/api")
	h.SetupTasks(base)
	h.SetupConfigurations(base)
}

// errorResponse maps the error taxonomy to HTTP codes.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, model.ErrTaskNotFound),
		errors.Is(err, model.ErrConfigurationNotFound),
		errors.Is(err, model.ErrExecutionNotFound):
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(err.Error()))
	case model.IsValidationError(err):
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, dto.NewBaseResponse(http.StatusInternalServerError, err.Error(), nil))
	}
}
