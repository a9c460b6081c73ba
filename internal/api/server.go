package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rustyeddy/fxledger/service"
)

type registrar interface {
	Register(r *gin.Engine)
}

// NewRouter wires every handler onto a fresh engine.
func NewRouter(svc *service.Service, health *HealthHandler, log *zap.Logger) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	for _, h := range []registrar{
		health,
		&TradeHandler{Svc: svc},
		&SummaryHandler{Svc: svc},
		&ImportHandler{Svc: svc},
	} {
		h.Register(engine)
	}
	return engine
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
