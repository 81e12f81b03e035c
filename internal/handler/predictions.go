package handler

import (
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/labstack/echo/v4"
)

type PredictionHandler struct {
	Handler
	predictions *service.PredictionService
}

func NewPredictionHandler(s *server.Server, predictions *service.PredictionService) *PredictionHandler {
	return &PredictionHandler{
		Handler:     NewHandler(s),
		predictions: predictions,
	}
}

func (h *PredictionHandler) ListPredictions(c echo.Context, q *model.PredictionQuery) (model.PaginatedResponse[model.Prediction], error) {
	return h.predictions.List(c.Request().Context(), q)
}

func (h *PredictionHandler) GetPrediction(c echo.Context, req *model.IDRequest) (model.DataResponse[model.Prediction], error) {
	return h.predictions.Get(c.Request().Context(), req)
}

func (h *PredictionHandler) CreatePrediction(c echo.Context, req *model.CreatePredictionRequest) (service.CreateResult[model.Prediction], error) {
	return h.predictions.Create(c.Request().Context(), req)
}

func (h *PredictionHandler) UpdatePrediction(c echo.Context, req *model.UpdatePredictionRequest) (model.DataResponse[model.Prediction], error) {
	return h.predictions.Update(c.Request().Context(), req)
}

func (h *PredictionHandler) DeletePrediction(c echo.Context, req *model.IDRequest) error {
	return h.predictions.Delete(c.Request().Context(), req)
}
