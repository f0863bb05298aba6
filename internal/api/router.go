package api

import (
	"net/http"
	"time"

	"github.com/Atticdm/GloCalAI/internal/platform/apierr"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RouterConfig wires handler instances into the gin engine. Fields left
// nil are simply not routed.
type RouterConfig struct {
	AllowedOrigins []string
	Jobs           *JobHandler
	Events         *EventsHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), errorMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	jobs := r.Group("/jobs", RequireAuth())
	if cfg.Jobs != nil {
		jobs.POST("", cfg.Jobs.Create)
		jobs.GET("/:id", cfg.Jobs.Get)
	}
	if cfg.Events != nil {
		jobs.GET("/:id/events", cfg.Events.Serve)
	}

	return r
}

// errorMiddleware renders the last gin.Error as a JSON body, unwrapping
// apierr.Error for its status/code when present.
func errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		var ae *apierr.Error
		if ok := asAPIErr(err, &ae); ok {
			c.JSON(ae.Status, gin.H{"code": ae.Code, "message": ae.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"code": "internal_error", "message": err.Error()})
	}
}

func asAPIErr(err error, target **apierr.Error) bool {
	if ae, ok := err.(*apierr.Error); ok {
		*target = ae
		return true
	}
	return false
}
