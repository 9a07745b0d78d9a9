package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/taxbridge/backend/internal/domain/tax"
	"github.com/taxbridge/backend/internal/interfaces/http/dto"
)

// ModuleHandler exposes the module identity to the host
type ModuleHandler struct {
	BaseHandler
}

// NewModuleHandler creates a new ModuleHandler
func NewModuleHandler() *ModuleHandler {
	return &ModuleHandler{}
}

// RegisterRoutes registers the module routes
func (h *ModuleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/modules", h.GetModule)
	rg.GET("/modules/:kind", h.IsModuleType)
}

// GetModule godoc
// @Summary      Get module identity
// @Tags         module
// @Produce      json
// @Success      200 {object} dto.Response{data=dto.ModuleResponse}
// @Router       /modules [get]
func (h *ModuleHandler) GetModule(c *gin.Context) {
	h.Success(c, dto.ModuleResponse{
		UniqueName:  tax.ModuleUniqueName,
		DisplayName: tax.ModuleDisplayName,
		Parameters:  tax.ModuleParameters,
		Types:       []string{tax.ModuleTypeShipping.String(), tax.ModuleTypePayment.String()},
	})
}

// IsModuleType godoc
// @Summary      Check whether the module runs for a checkout stage
// @Tags         module
// @Produce      json
// @Param        kind path string true "Checkout stage"
// @Success      200 {object} dto.Response{data=dto.ModuleTypeResponse}
// @Router       /modules/{kind} [get]
func (h *ModuleHandler) IsModuleType(c *gin.Context) {
	kind := c.Param("kind")
	h.Success(c, dto.ModuleTypeResponse{Kind: kind, Enabled: tax.IsModuleType(kind)})
}
