package handler

import (
	"net/http"

	"taxcal/internal/service"
	"taxcal/pkg/pagination"
	"taxcal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuditHandler struct {
	auditService service.AuditService
	log          *zap.Logger
}

func NewAuditHandler(auditService service.AuditService, log *zap.Logger) *AuditHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuditHandler{auditService: auditService, log: log}
}

func (h *AuditHandler) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/api/audit-logs")
	{
		group.GET("", h.GetAuditLogs)
	}
}

// GetAuditLogs returns the tax rule change history, newest first
// @Summary      Get audit logs
// @Description  Paginated history of accepted tax rule configurations
// @Tags         audit
// @Produce      json
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Number of items per page (default 20, max 100)"
// @Success      200    {object}  pagination.Page[service.AuditLogResponse]
// @Failure      500    {object}  response.Problem
// @Router       /api/audit-logs [get]
func (h *AuditHandler) GetAuditLogs(c *gin.Context) {
	page, err := h.auditService.GetAuditLogs(c.Request.Context(), pagination.Parse(c))
	if err != nil {
		h.log.Error("failed to retrieve audit logs", zap.Error(err))
		response.Abort(c, response.Internal())
		return
	}

	c.JSON(http.StatusOK, page)
}
