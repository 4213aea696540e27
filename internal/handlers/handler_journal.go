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

// journalHandler handles HTTP requests related to journals.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{journalService: js}
}

// registerJournalRoutes registers routes related to journals.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	journals := rg.Group("/journals")
	{
		journals.POST("", h.createJournal)
		journals.GET("/:journalID", h.getJournal)
		journals.PUT("/:journalID", h.updateJournal)
		journals.DELETE("/:journalID", h.deleteJournal)
		journals.POST("/:journalID/post", h.postJournal)
		journals.POST("/:journalID/unpost", h.unpostJournal)
	}
}

// journalErrorStatus maps the journal engine's sentinel errors to HTTP statuses.
func journalErrorStatus(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, true
	case errors.Is(err, apperrors.ErrValidation),
		errors.Is(err, apperrors.ErrUnbalanced),
		errors.Is(err, apperrors.ErrNoOpenPeriod):
		return http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrAlreadyPosted),
		errors.Is(err, apperrors.ErrNotPosted),
		errors.Is(err, apperrors.ErrZakatImmutable),
		errors.Is(err, apperrors.ErrAlreadyClosed):
		return http.StatusConflict, true
	}
	return 0, false
}

func (h *journalHandler) createJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createJournal", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.CreateJournal(c.Request.Context(), req, actorID)
	if err != nil {
		if status, ok := journalErrorStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create journal", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create journal"})
		return
	}

	logger.Info("Journal created", slog.String("journal_id", journal.JournalID), slog.String("period_id", journal.PeriodID))
	c.JSON(http.StatusCreated, dto.ToJournalResponse(journal))
}

func (h *journalHandler) getJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	journal, err := h.journalService.GetJournalByID(c.Request.Context(), journalID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Journal not found"})
			return
		}
		logger.Error("Failed to retrieve journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve journal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

func (h *journalHandler) updateJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	var req dto.UpdateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	journal, err := h.journalService.UpdateJournal(c.Request.Context(), journalID, req, actorID)
	if err != nil {
		if status, ok := journalErrorStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to update journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update journal"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalResponse(journal))
}

func (h *journalHandler) deleteJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.DeleteJournal(c.Request.Context(), journalID, actorID); err != nil {
		if status, ok := journalErrorStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to delete journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete journal"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *journalHandler) postJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.PostJournal(c.Request.Context(), journalID, actorID); err != nil {
		if status, ok := journalErrorStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to post journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post journal"})
		return
	}

	logger.Info("Journal posted", slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	c.Status(http.StatusNoContent)
}

func (h *journalHandler) unpostJournal(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	journalID := c.Param("journalID")

	actorID, ok := middleware.GetActorIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.journalService.UnpostJournal(c.Request.Context(), journalID, actorID); err != nil {
		if status, ok := journalErrorStatus(err); ok {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to unpost journal", slog.String("journal_id", journalID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unpost journal"})
		return
	}

	logger.Info("Journal unposted", slog.String("journal_id", journalID), slog.String("actor_id", actorID))
	c.Status(http.StatusNoContent)
}
