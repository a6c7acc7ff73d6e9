package http

import (
	"github.com/gin-gonic/gin"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/config"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/repo"
	"github.com/imaadidikshit/TrustFlow-App-sub002/internal/service"
	"go.uber.org/zap"
)

func NewRouter(svc *service.DispatchService, store repo.RepositoryInterface, rl config.RateLimitConfig, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CORSMiddleware())
	r.Use(LoggingMiddleware(log))
	r.Use(RateLimitMiddleware(rl.RPS, rl.Burst))
	RegisterHandlers(r, svc, store)
	return r
}
