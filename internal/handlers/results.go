// Package handlers serves the review API: past runs, their recordings and
// bins, read straight from the result store.
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/repository"
)

type ResultsHandler struct {
	log     *zap.Logger
	results *repository.Results
}

func NewResultsHandler(log *zap.Logger, results *repository.Results) *ResultsHandler {
	return &ResultsHandler{log: log, results: results}
}

// ListRuns returns past analysis runs, newest first.
func (h *ResultsHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}

	runs, err := h.results.ListRuns(c.Request.Context(), limit)
	if err != nil {
		h.log.Error("Failed to list runs", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load runs"})
		return
	}
	c.JSON(http.StatusOK, runs)
}

// GetRun returns one run by ID.
func (h *ResultsHandler) GetRun(c *gin.Context) {
	id := c.Param("id")
	run, err := h.results.GetRun(c.Request.Context(), id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	}
	if err != nil {
		h.log.Error("Failed to load run", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}
	c.JSON(http.StatusOK, run)
}

// ListRecordings returns a run's recording rows in workbook order.
func (h *ResultsHandler) ListRecordings(c *gin.Context) {
	id := c.Param("id")
	if _, err := h.results.GetRun(c.Request.Context(), id); errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
		return
	} else if err != nil {
		h.log.Error("Failed to load run", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load run"})
		return
	}

	recs, err := h.results.ListRecordings(c.Request.Context(), id)
	if err != nil {
		h.log.Error("Failed to list recordings", zap.String("run", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load recordings"})
		return
	}
	c.JSON(http.StatusOK, recs)
}

// ListBins returns one recording's bin rows in bin order.
func (h *ResultsHandler) ListBins(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "recording id must be an integer"})
		return
	}

	bins, err := h.results.ListBins(c.Request.Context(), uint(id))
	if err != nil {
		h.log.Error("Failed to list bins", zap.Uint64("recording", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load bins"})
		return
	}
	c.JSON(http.StatusOK, bins)
}
