package v1

import (
	"net/http"

	"github.com/flexprice/subscription-analytics/internal/api/dto"
	ierr "github.com/flexprice/subscription-analytics/internal/errors"
	"github.com/flexprice/subscription-analytics/internal/logger"
	"github.com/flexprice/subscription-analytics/internal/service"
	"github.com/gin-gonic/gin"
)

type MetricsHandler struct {
	service   service.MetricsService
	snapshots service.SnapshotService
	log       *logger.Logger
}

func NewMetricsHandler(service service.MetricsService, snapshots service.SnapshotService, log *logger.Logger) *MetricsHandler {
	return &MetricsHandler{service: service, snapshots: snapshots, log: log}
}

// bind decodes the request body, recording a validation error on failure
func (h *MetricsHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.log.Errorw("failed to bind request", "error", err, "path", c.FullPath())
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return false
	}
	return true
}

// @Summary Monthly recurring revenue
// @Description Calculates MRR over the supplied or fetched subscriptions
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.MRRRequest true "MRR request"
// @Success 200 {object} dto.MRRResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/mrr [post]
func (h *MetricsHandler) GetMRR(c *gin.Context) {
	var req dto.MRRRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetMRR(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Average revenue per user
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ARPURequest true "ARPU request"
// @Success 200 {object} dto.ARPUResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/arpu [post]
func (h *MetricsHandler) GetARPU(c *gin.Context) {
	var req dto.ARPURequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetARPU(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Churn rate
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ChurnRateRequest true "Churn rate request"
// @Success 200 {object} dto.ChurnRateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/churn [post]
func (h *MetricsHandler) GetChurnRate(c *gin.Context) {
	var req dto.ChurnRateRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetChurnRate(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Customer lifetime value
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.LTVRequest true "LTV request"
// @Success 200 {object} dto.LTVResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/ltv [post]
func (h *MetricsHandler) GetLTV(c *gin.Context) {
	var req dto.LTVRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetLTV(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary MRR expansion
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.MRRExpansionRequest true "MRR expansion request"
// @Success 200 {object} dto.MRRExpansionResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/expansion [post]
func (h *MetricsHandler) GetMRRExpansion(c *gin.Context) {
	var req dto.MRRExpansionRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetMRRExpansion(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Active subscribers
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.ActiveSubscribersRequest true "Active subscribers request"
// @Success 200 {object} dto.ActiveSubscribersResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/subscribers [post]
func (h *MetricsHandler) GetActiveSubscribers(c *gin.Context) {
	var req dto.ActiveSubscribersRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetActiveSubscribers(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Metrics summary
// @Description Calculates every metric over a single snapshot
// @Tags Metrics
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.SummaryRequest true "Summary request"
// @Success 200 {object} dto.SummaryResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 422 {object} errors.ErrorResponse
// @Router /v1/metrics/summary [post]
func (h *MetricsHandler) GetSummary(c *gin.Context) {
	var req dto.SummaryRequest
	if !h.bind(c, &req) {
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Invalidate cached snapshots
// @Description Drops every cached provider snapshot so the next request refetches
// @Tags Metrics
// @Security ApiKeyAuth
// @Success 204
// @Router /v1/metrics/cache [delete]
func (h *MetricsHandler) InvalidateCache(c *gin.Context) {
	h.snapshots.Invalidate(c.Request.Context())
	c.Status(http.StatusNoContent)
}
