package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/model"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/repo"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/service"
)

func RegisterHandlers(r *gin.Engine, svc *service.DispatchService, store repo.RepositoryInterface) {
	v1 := r.Group("/v1")
	{
		v1.POST("/webhooks/process", processHandler(svc))
	}
	r.GET("/healthz", healthHandler(store))
}

func processHandler(svc *service.DispatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var evt model.TriggerEvent
		if err := c.ShouldBindJSON(&evt); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		out, err := svc.HandleTrigger(c.Request.Context(), evt)
		if err != nil {
			if errors.Is(err, service.ErrMissingSpaceID) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func healthHandler(store repo.RepositoryInterface) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}
