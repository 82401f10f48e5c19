package handler

import (
	"github.com/gin-gonic/gin"
)

// Register mounts the API under /api/v1. documents may be nil when the
// record source is read-only, in which case no document routes exist.
func Register(r gin.IRouter, alerts *AlertHandler, documents *DocumentHandler) {
	v1 := r.Group("/api/v1")

	v1.POST("/alerts/evaluate", alerts.HandleEvaluate)
	v1.GET("/alerts/cooldowns", alerts.HandleCooldowns)

	if documents == nil {
		return
	}

	v1.GET("/inspection/sectors", HandleSectors)

	docs := v1.Group("/documents")
	{
		docs.GET("", documents.HandleList)
		docs.POST("", documents.HandleCreate)
		docs.POST("/import", documents.HandleImport)
		docs.GET("/:id", documents.HandleGet)
		docs.PATCH("/:id", documents.HandleUpdate)
		docs.DELETE("/:id", documents.HandleDelete)

		docs.GET("/:id/checklist", documents.HandleListItems)
		docs.POST("/:id/checklist", documents.HandleAddItem)
		docs.PATCH("/:id/checklist/:itemID", documents.HandleUpdateItem)
		docs.DELETE("/:id/checklist/:itemID", documents.HandleDeleteItem)
	}
}
