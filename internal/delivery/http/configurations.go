package http

import (
	"net/http"

	"golang-scheduler/internal/dto"
	"golang-scheduler/internal/model"
	"golang-scheduler/pkg/utils"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

func (h *HttpAPIHandler) SetupConfigurations(base *echo.Group) {
	v1 := base.Group("/v1/configurations")
	{
		v1.POST("", h.CreateConfiguration)
		v1.GET("", h.ListConfigurations)
		v1.GET("/:id", h.GetConfiguration)
		v1.PATCH("/:id", h.UpdateConfiguration)
		v1.DELETE("/:id", h.DeleteConfiguration)
	}
}

func (h *HttpAPIHandler) CreateConfiguration(c echo.Context) error {
	var req dto.CreateConfigurationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = 60
	}
	configuration := &model.Configuration{
		ID:      uuid.NewString(),
		UserID:  req.UserID,
		Name:    req.Name,
		Type:    req.Type,
		Payload: datatypes.JSON(req.Payload),
		Timeout: timeout,
		Enabled: enabled,
	}
	if err := h.repo.ConfigurationRepo.Create(c.Request().Context(), configuration); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, dto.NewBaseResponse(http.StatusCreated, "Configuration created", configuration))
}

func (h *HttpAPIHandler) ListConfigurations(c echo.Context) error {
	param := &model.GetConfigurationParam{}
	if userID := c.QueryParam("user_id"); userID != "" {
		param.UserID = utils.ToPointer(userID)
	}
	configurations, err := h.repo.ConfigurationRepo.Get(c.Request().Context(), param)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Configurations", configurations))
}

func (h *HttpAPIHandler) GetConfiguration(c echo.Context) error {
	configuration, err := h.repo.ConfigurationRepo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if configuration == nil {
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(model.ErrConfigurationNotFound.Error()))
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Configuration", configuration))
}

func (h *HttpAPIHandler) UpdateConfiguration(c echo.Context) error {
	var req dto.UpdateConfigurationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}
	if err := h.validator.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.NewBadRequestResponse(err.Error()))
	}

	configuration, err := h.repo.ConfigurationRepo.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}
	if configuration == nil {
		return c.JSON(http.StatusNotFound, dto.NewNotFoundResponse(model.ErrConfigurationNotFound.Error()))
	}

	if req.Name != nil {
		configuration.Name = *req.Name
	}
	if req.Type != nil {
		configuration.Type = *req.Type
	}
	if len(req.Payload) > 0 {
		configuration.Payload = datatypes.JSON(req.Payload)
	}
	if req.Timeout != nil {
		configuration.Timeout = *req.Timeout
	}
	if req.Enabled != nil {
		configuration.Enabled = *req.Enabled
	}
	if err := h.repo.ConfigurationRepo.Update(c.Request().Context(), configuration); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Configuration updated", configuration))
}

func (h *HttpAPIHandler) DeleteConfiguration(c echo.Context) error {
	if err := h.repo.ConfigurationRepo.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, dto.NewSuccessResponse("Configuration deleted", nil))
}
