package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/logger"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/infra/metrics"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/orchestrator"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/service/storage"
	"github.com/tatyanaspiryanina-creator/student-presentation-miniapp/internal/web"
)

func NewRouter(orch *orchestrator.Orchestrator, store *storage.Service, m *metrics.Metrics, log *logger.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	page, err := web.RenderIndexPage(web.DefaultIndexPageData())
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(log))

	handler := NewHandler(orch, store, page, log)

	r.GET("/", handler.Index)
	r.GET("/health", handler.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))
	r.GET("/files/:name", handler.DownloadFile)

	apiGroup := r.Group("/api")
	{
		apiGroup.POST("/presentation", handler.CreatePresentation)
	}

	return r, nil
}

func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		log.Debug("request started",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		c.Next()
		log.Info("request completed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
