package handler

import (
	"errors"
	"io"
	"net/http"

	"taxcal/internal/service"
	"taxcal/pkg/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TaxHandler struct {
	taxService service.TaxService
	log        *zap.Logger
}

func NewTaxHandler(taxService service.TaxService, log *zap.Logger) *TaxHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaxHandler{taxService: taxService, log: log}
}

func (h *TaxHandler) RegisterRoutes(router *gin.RouterGroup) {
	tax := router.Group("/api/taxes")
	{
		tax.POST("", h.CalculateTax)
		tax.GET("/rules", h.ListTaxRules)
		tax.POST("/rules", h.ConfigureTaxRule)
		tax.GET("/rules/:countryCode", h.GetTaxRule)
	}
}

// ConfigureTaxRule replaces the tax rule of a country
// @Summary      Configure tax rule
// @Description  Validates and stores the ordered tax items for a country, replacing any previous rule
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        request  body      service.ConfigureTaxRuleRequest  true  "Country rule"
// @Success      200      {object}  service.TaxRuleResponse
// @Failure      400      {object}  response.Problem
// @Failure      500      {object}  response.Problem
// @Router       /api/taxes/rules [post]
func (h *TaxHandler) ConfigureTaxRule(c *gin.Context) {
	var req service.ConfigureTaxRuleRequest
	if !h.bind(c, &req) {
		return
	}

	rule, err := h.taxService.ConfigureTaxRule(c.Request.Context(), req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// ListTaxRules returns every configured country rule
// @Summary      List tax rules
// @Tags         taxes
// @Produce      json
// @Success      200  {array}   service.TaxRuleResponse
// @Failure      500  {object}  response.Problem
// @Router       /api/taxes/rules [get]
func (h *TaxHandler) ListTaxRules(c *gin.Context) {
	rules, err := h.taxService.ListTaxRules(c.Request.Context())
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rules)
}

// GetTaxRule returns the rule configured for one country
// @Summary      Get tax rule
// @Tags         taxes
// @Produce      json
// @Param        countryCode  path      string  true  "Two-letter country code"
// @Success      200          {object}  service.TaxRuleResponse
// @Failure      400          {object}  response.Problem
// @Failure      404          {object}  response.Problem
// @Router       /api/taxes/rules/{countryCode} [get]
func (h *TaxHandler) GetTaxRule(c *gin.Context) {
	rule, err := h.taxService.GetTaxRule(c.Request.Context(), c.Param("countryCode"))
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, rule)
}

// CalculateTax computes the taxes and net salary for a gross salary
// @Summary      Calculate taxes
// @Description  Applies the country's rule: fixed items first, then flat-rate and progressive items on the taxable base
// @Tags         taxes
// @Accept       json
// @Produce      json
// @Param        request  body      service.CalculateTaxRequest  true  "Country and gross salary"
// @Success      200      {object}  service.CalculationResponse
// @Failure      400      {object}  response.Problem
// @Failure      404      {object}  response.Problem
// @Router       /api/taxes [post]
func (h *TaxHandler) CalculateTax(c *gin.Context) {
	var req service.CalculateTaxRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.taxService.CalculateTax(c.Request.Context(), req)
	if err != nil {
		h.abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *TaxHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		if errors.Is(err, io.EOF) {
			response.Abort(c, response.Validation("Request body is required."))
			return false
		}
		response.Abort(c, response.Validation("Invalid request payload: "+err.Error()))
		return false
	}
	return true
}

func (h *TaxHandler) abortWithError(c *gin.Context, err error) {
	switch {
	case service.IsValidationError(err):
		response.Abort(c, response.Validation(err.Error()))
	case errors.Is(err, service.ErrCountryNotConfigured):
		response.Abort(c, response.NotFound(err.Error()))
	default:
		h.log.Error("tax request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		response.Abort(c, response.Internal())
	}
}
