// Package router assembles the review server: a localhost API over the
// result store plus the rendered validation plots.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/immaturegutlab/wire-myography-analyzer/internal/handlers"
	"github.com/immaturegutlab/wire-myography-analyzer/internal/repository"
)

// Setup builds the gin engine with recovery, request logging and the review
// routes. plotsDir is served statically so validation pages linked from the
// API open directly.
func Setup(log *zap.Logger, results *repository.Results, plotsDir string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log))

	resultsHandler := handlers.NewResultsHandler(log, results)

	api := router.Group("/api")
	{
		api.GET("/runs", resultsHandler.ListRuns)
		api.GET("/runs/:id", resultsHandler.GetRun)
		api.GET("/runs/:id/recordings", resultsHandler.ListRecordings)
		api.GET("/recordings/:id/bins", resultsHandler.ListBins)
	}

	if plotsDir != "" {
		router.Static("/plots", plotsDir)
	}

	return router
}
