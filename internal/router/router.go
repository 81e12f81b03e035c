// Package router builds the echo instance: global middleware, the error
// handler and every route.
package router

import (
	"net/http"

	"github.com/deppfellow/sportspredict/internal/handler"
	"github.com/deppfellow/sportspredict/internal/middleware"
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/labstack/echo/v4"
)

func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middlewares.Global.CORS(),
		middlewares.Global.Secure(),
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", middlewares.RateLimit.Limit())
	registerEventRoutes(api, h)
	registerPredictionRoutes(api, h)
	registerAdminRoutes(api, h)

	return router
}

func registerEventRoutes(api *echo.Group, h *handler.Handlers) {
	events := api.Group("/events")
	eh := h.Events

	events.GET("", handler.Handle(eh.Handler, eh.ListEvents, http.StatusOK, &model.EventQuery{}))
	events.POST("", handler.Handle(eh.Handler, eh.CreateEvent, http.StatusCreated, &model.CreateEventRequest{}))
	events.GET("/:id", handler.Handle(eh.Handler, eh.GetEvent, http.StatusOK, &model.GetEventRequest{}))
	events.PATCH("/:id", handler.Handle(eh.Handler, eh.UpdateEvent, http.StatusOK, &model.UpdateEventRequest{}))
	events.DELETE("/:id", handler.HandleNoContent(eh.Handler, eh.DeleteEvent, http.StatusNoContent, &model.IDRequest{}))
}

func registerPredictionRoutes(api *echo.Group, h *handler.Handlers) {
	predictions := api.Group("/predictions")
	ph := h.Predictions

	predictions.GET("", handler.Handle(ph.Handler, ph.ListPredictions, http.StatusOK, &model.PredictionQuery{}))
	predictions.POST("", handler.Handle(ph.Handler, ph.CreatePrediction, http.StatusCreated, &model.CreatePredictionRequest{}))
	predictions.GET("/:id", handler.Handle(ph.Handler, ph.GetPrediction, http.StatusOK, &model.IDRequest{}))
	predictions.PATCH("/:id", handler.Handle(ph.Handler, ph.UpdatePrediction, http.StatusOK, &model.UpdatePredictionRequest{}))
	predictions.DELETE("/:id", handler.HandleNoContent(ph.Handler, ph.DeletePrediction, http.StatusNoContent, &model.IDRequest{}))
}

func registerAdminRoutes(api *echo.Group, h *handler.Handlers) {
	ah := h.Admin

	api.POST("/imports", handler.Handle(ah.Handler, ah.EnqueueImport, http.StatusAccepted, &model.ImportRequest{}))
	api.POST("/admin/archive", handler.Handle(ah.Handler, ah.TriggerArchive, http.StatusOK, &model.ArchiveRequest{}))
}
