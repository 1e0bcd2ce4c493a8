package service

import (
	"log/slog"
	"net/http"

	"books/cache"
	"books/models"
	"books/views"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type Dependencies struct {
	Library models.Library
	Cacher  cache.RequestCacher
	Logger  *slog.Logger
	Metrics *Metrics
}

func SetupRoutes(deps Dependencies) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Metrics == nil {
		deps.Metrics = NewMetrics(prometheus.NewRegistry())
	}
	if deps.Cacher == nil {
		deps.Cacher = cache.CreateMemoryCache(3)
	}

	books := &BookHandler{Library: deps.Library, Metrics: deps.Metrics}
	activity := &ActivityHandler{Cacher: deps.Cacher, Logger: deps.Logger}

	routes := gin.New()
	routes.SetHTMLTemplate(views.Templates())
	routes.Use(
		RequestLogger(deps.Logger),
		gin.Recovery(),
		deps.Metrics.Middleware(),
		ErrorRenderer(deps.Logger),
	)
	routes.NoRoute(PageNotFound)

	routes.StaticFS("/static", views.Static())
	routes.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/books")
	})
	routes.GET("/healthz", books.Health)
	routes.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	routes.GET("/activity/:username", activity.Activity)

	cachedRoutes := routes.Group("/books")
	{
		cachedRoutes.Use(activity.CacheUserRequest)

		cachedRoutes.GET("", books.List)
		cachedRoutes.GET("/new", books.NewForm)
		cachedRoutes.POST("", books.Create)
		cachedRoutes.GET("/:id", books.Show)
		cachedRoutes.POST("/:id/edit", books.Update)
		cachedRoutes.POST("/:id/delete", books.Delete)
	}

	return routes
}
