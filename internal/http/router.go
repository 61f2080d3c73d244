package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/campusai/teachassist/internal/http/handlers"
	httpMW "github.com/campusai/teachassist/internal/http/middleware"
	"github.com/campusai/teachassist/internal/observability"
	"github.com/campusai/teachassist/internal/platform/logger"
)

const metricsPath = "/metrics"

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	CORSOrigins []string
	// ServiceName names otel server spans; tracing middleware is skipped when empty.
	ServiceName string

	SessionAuth *httpMW.SessionAuth

	HealthHandler    *httpH.HealthHandler
	SyllabusHandler  *httpH.SyllabusHandler
	LearningHandler  *httpH.LearningHandler
	ChatHandler      *httpH.ChatHandler
	ResearchHandler  *httpH.ResearchHandler
	ProjectHandler   *httpH.ProjectHandler
	TechStackHandler *httpH.TechStackHandler
	ProgressHandler  *httpH.ProgressHandler
	SessionHandler   *httpH.SessionHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics, metricsPath))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/", cfg.HealthHandler.Root)
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(metricsPath, gin.WrapH(cfg.Metrics.Handler()))
	}

	if cfg.SyllabusHandler != nil {
		r.POST("/upload-syllabus/", cfg.SyllabusHandler.Upload)
	}
	if cfg.LearningHandler != nil {
		r.POST("/ask/", cfg.LearningHandler.Ask)
		r.POST("/lab/", cfg.LearningHandler.Lab)
		r.POST("/deep-research/", cfg.LearningHandler.DeepResearch)
	}
	if cfg.ChatHandler != nil {
		r.POST("/chat/", cfg.ChatHandler.Chat)
	}
	if cfg.SessionHandler != nil {
		r.POST("/session/", cfg.SessionHandler.Create)
	}

	// Research / projects / tech stack
	if cfg.ResearchHandler != nil {
		research := r.Group("/research")
		research.POST("/topic", cfg.ResearchHandler.Topic)
		research.POST("/papers", cfg.ResearchHandler.Papers)
		research.POST("/summarize", cfg.ResearchHandler.Summarize)
	}
	if cfg.ProjectHandler != nil {
		project := r.Group("/project")
		project.POST("/ideas", cfg.ProjectHandler.Ideas)
		project.POST("/details", cfg.ProjectHandler.Details)
	}
	if cfg.TechStackHandler != nil {
		tech := r.Group("/tech-stack")
		tech.POST("/recommend", cfg.TechStackHandler.Recommend)
		tech.POST("/compare", cfg.TechStackHandler.Compare)
		tech.POST("/explain", cfg.TechStackHandler.Explain)
		tech.POST("/code-help", cfg.TechStackHandler.CodeHelp)
	}

	// Session-bound routes
	bound := r.Group("/")
	if cfg.SessionAuth != nil {
		bound.Use(cfg.SessionAuth.Handle())
	}
	if cfg.LearningHandler != nil {
		bound.POST("/learn/", cfg.LearningHandler.Learn)
	}
	if cfg.ProgressHandler != nil {
		bound.POST("/progress/track", cfg.ProgressHandler.Track)
		bound.GET("/progress/:user_id", cfg.ProgressHandler.Get)
		bound.GET("/progress/:user_id/recommendations", cfg.ProgressHandler.Recommendations)
		bound.GET("/progress/:user_id/analytics", cfg.ProgressHandler.Analytics)
		bound.GET("/progress/:user_id/performance", cfg.ProgressHandler.Performance)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"message": "route not found", "code": "not_found"}})
	})
	return r
}
