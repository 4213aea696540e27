package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qardhos/microfin_app/internal/apperrors"
	portssvc "github.com/qardhos/microfin_app/internal/core/ports/services"
	"github.com/qardhos/microfin_app/internal/dto"
	"github.com/qardhos/microfin_app/internal/middleware"
)

// accrualHandler handles HTTP requests related to partner share accruals.
type accrualHandler struct {
	accrualService portssvc.AccrualSvcFacade
}

func newAccrualHandler(as portssvc.AccrualSvcFacade) *accrualHandler {
	return &accrualHandler{accrualService: as}
}

// registerAccrualRoutes registers routes related to accruals.
func registerAccrualRoutes(rg *gin.RouterGroup, accrualService portssvc.AccrualSvcFacade) {
	h := newAccrualHandler(accrualService)

	accruals := rg.Group("/accruals")
	{
		accruals.POST("", h.recordAccrual)
		accruals.GET("/period/:periodID", h.listAccrualsByPeriod)
	}
}

func (h *accrualHandler) recordAccrual(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RecordAccrualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for recordAccrual", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	accrual, err := h.accrualService.RecordPartnerAccrual(c.Request.Context(), req, actorID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation),
			errors.Is(err, apperrors.ErrNoOpenPeriod):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			// Partner does not exist.
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record accrual", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record accrual"})
		}
		return
	}

	logger.Info("Accrual recorded", slog.String("accrual_id", accrual.AccrualID), slog.String("partner_id", accrual.PartnerID))
	c.JSON(http.StatusCreated, dto.ToAccrualResponse(accrual))
}

func (h *accrualHandler) listAccrualsByPeriod(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	periodID := c.Param("periodID")

	accruals, err := h.accrualService.ListAccrualsByPeriod(c.Request.Context(), periodID)
	if err != nil {
		logger.Error("Failed to list accruals", slog.String("period_id", periodID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accruals"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccrualResponses(accruals))
}
