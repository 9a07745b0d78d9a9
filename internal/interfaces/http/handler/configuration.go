package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/interfaces/http/dto"
)

// ModuleConfigurator renders and saves the module settings
type ModuleConfigurator interface {
	Settings(ctx context.Context) (tax.ModuleSettings, error)
	GetConfigurationHTML(ctx context.Context, params map[string]string) (string, error)
}

// ConfigurationHandler handles module configuration requests
type ConfigurationHandler struct {
	BaseHandler
	configurator ModuleConfigurator
}

// NewConfigurationHandler creates a new ConfigurationHandler
func NewConfigurationHandler(configurator ModuleConfigurator) *ConfigurationHandler {
	return &ConfigurationHandler{configurator: configurator}
}

// RegisterRoutes registers the configuration routes
func (h *ConfigurationHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/configuration", h.GetSettings)
	rg.GET("/configuration/form", h.GetForm)
	rg.POST("/configuration", h.Configure)
}

// GetSettings godoc
// @Summary      Get module settings
// @Tags         configuration
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.SettingsResponse}
// @Router       /configuration [get]
func (h *ConfigurationHandler) GetSettings(c *gin.Context) {
	settings, err := h.configurator.Settings(c.Request.Context())
	if err != nil {
		h.InternalError(c, err)
		return
	}
	h.Success(c, dto.SettingsResponse{
		Module:       tax.ModuleUniqueName,
		Settings:     settings,
		DebugEnabled: settings.DiagnosticsConfig().DebugEnabled,
	})
}

// GetForm godoc
// @Summary      Render the configuration form
// @Tags         configuration
// @Produce      html
// @Success      200 {string} string "HTML form"
// @Router       /configuration/form [get]
func (h *ConfigurationHandler) GetForm(c *gin.Context) {
	html, err := h.configurator.GetConfigurationHTML(c.Request.Context(), nil)
	if err != nil {
		h.InternalError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// Configure godoc
// @Summary      Render or save the module configuration
// @Description  Without parameters the form is rendered; with parameters the settings are saved and html is empty
// @Tags         configuration
// @Accept       json
// @Produce      json
// @Param        request body dto.ConfigurationRequest false "Submitted parameters"
// @Success      200 {object} dto.Response{data=dto.ConfigurationResponse}
// @Router       /configuration [post]
func (h *ConfigurationHandler) Configure(c *gin.Context) {
	var req dto.ConfigurationRequest
	if c.Request.ContentLength != 0 {
		if !h.BindJSON(c, &req) {
			return
		}
	}

	html, err := h.configurator.GetConfigurationHTML(c.Request.Context(), req.Parameters)
	if err != nil {
		h.InternalError(c, err)
		return
	}
	h.Success(c, dto.ConfigurationResponse{HTML: html})
}
