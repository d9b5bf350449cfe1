package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/stockflow-api/internal/application/analytics"
)

// DashboardHandler endpoints de solo lectura del tablero.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
	errorMapper
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase, errs errorMapper) *DashboardHandler {
	return &DashboardHandler{uc: uc, errorMapper: errs}
}

// Stats godoc
// @Summary      Indicadores generales
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardStatsDTO
// @Router       /api/dashboard/stats [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// SalesTrend godoc
// @Summary      Ventas completadas por día
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        days  query  int  false  "Días hacia atrás (1-90)"  default(7)
// @Success      200   {array}  dto.SalesTrendPointDTO
// @Router       /api/dashboard/sales-trend [get]
func (h *DashboardHandler) SalesTrend(c *fiber.Ctx) error {
	out, err := h.uc.SalesTrend(c.UserContext(), c.QueryInt("days", 0))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// CategoryBreakdown godoc
// @Summary      Resumen por categoría
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CategoryBreakdownDTO
// @Router       /api/dashboard/category-breakdown [get]
func (h *DashboardHandler) CategoryBreakdown(c *fiber.Ctx) error {
	out, err := h.uc.CategoryBreakdown(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// TopProducts godoc
// @Summary      Productos más vendidos
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo 20"  default(5)
// @Success      200    {array}  dto.TopProductDTO
// @Router       /api/dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *fiber.Ctx) error {
	out, err := h.uc.TopProducts(c.UserContext(), c.QueryInt("limit", 0))
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos con stock bajo o agotados
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockDTO
// @Router       /api/dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.uc.LowStock(c.UserContext())
	if err != nil {
		return h.respond(c, err)
	}
	return c.JSON(out)
}
