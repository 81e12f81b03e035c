package service

import (
	"context"
	"strings"

	"github.com/deppfellow/sportspredict/internal/errs"
	"github.com/deppfellow/sportspredict/internal/model"
)

// PredictionStore is the prediction data access the service needs.
type PredictionStore interface {
	CreatePrediction(ctx context.Context, p model.NewPrediction) (model.Prediction, bool, error)
	GetPredictionByID(ctx context.Context, id int64) (model.Prediction, error)
	ListPredictions(ctx context.Context, filter model.PredictionFilter, page model.PageRequest) ([]model.Prediction, int64, error)
	UpdatePrediction(ctx context.Context, id int64, patch model.PredictionPatch) (model.Prediction, error)
	DeletePrediction(ctx context.Context, id int64) (bool, error)
}

type PredictionService struct {
	predictions PredictionStore
}

func NewPredictionService(predictions PredictionStore) *PredictionService {
	return &PredictionService{predictions: predictions}
}

// Filter validates q into a PredictionFilter and page.
func (s *PredictionService) Filter(q *model.PredictionQuery) (model.PredictionFilter, model.PageRequest, error) {
	var fe fieldErrors

	filter := model.PredictionFilter{
		Sport:           strings.TrimSpace(q.Sport),
		League:          strings.TrimSpace(q.League),
		Team:            strings.TrimSpace(q.Team),
		IncludeArchived: parseBool(q.IncludeArchived),
		MinConfidence:   parseConfidence(q.MinConfidence, &fe),
	}

	if raw := strings.TrimSpace(q.PredictionType); raw != "" {
		if t, err := model.ParsePredictionType(raw); err != nil {
			fe.add("predictionType", err.Error())
		} else {
			filter.PredictionType = &t
		}
	}

	filter.Dates = parseDateRange(q.StartDate, q.EndDate, &fe)
	page := parsePage(q.Page, q.Limit, &fe)

	return filter, page, fe.err()
}

func (s *PredictionService) List(ctx context.Context, q *model.PredictionQuery) (model.PaginatedResponse[model.Prediction], error) {
	filter, page, err := s.Filter(q)
	if err != nil {
		return model.PaginatedResponse[model.Prediction]{}, err
	}

	predictions, total, err := s.predictions.ListPredictions(ctx, filter, page)
	if err != nil {
		return model.PaginatedResponse[model.Prediction]{}, err
	}
	if predictions == nil {
		predictions = []model.Prediction{}
	}

	return model.PaginatedResponse[model.Prediction]{
		Data:       predictions,
		Pagination: model.NewPagination(page, total),
	}, nil
}

func (s *PredictionService) Get(ctx context.Context, req *model.IDRequest) (model.DataResponse[model.Prediction], error) {
	p, err := s.predictions.GetPredictionByID(ctx, req.ID)
	if err != nil {
		return model.DataResponse[model.Prediction]{}, err
	}
	return model.DataResponse[model.Prediction]{Data: p}, nil
}

// Create stores the prediction. An event holds at most one prediction; when
// it already has one, that one is returned unchanged.
func (s *PredictionService) Create(ctx context.Context, req *model.CreatePredictionRequest) (CreateResult[model.Prediction], error) {
	p, created, err := s.predictions.CreatePrediction(ctx, req.NewPrediction())
	if err != nil {
		return CreateResult[model.Prediction]{}, err
	}

	return CreateResult[model.Prediction]{
		DataResponse: model.DataResponse[model.Prediction]{Data: p},
		Created:      created,
	}, nil
}

func (s *PredictionService) Update(ctx context.Context, req *model.UpdatePredictionRequest) (model.DataResponse[model.Prediction], error) {
	p, err := s.predictions.UpdatePrediction(ctx, req.ID, req.Patch())
	if err != nil {
		return model.DataResponse[model.Prediction]{}, err
	}
	return model.DataResponse[model.Prediction]{Data: p}, nil
}

func (s *PredictionService) Delete(ctx context.Context, req *model.IDRequest) error {
	found, err := s.predictions.DeletePrediction(ctx, req.ID)
	if err != nil {
		return err
	}
	if !found {
		code := "PREDICTION_NOT_FOUND"
		return errs.NewNotFoundError("Prediction not found", true, &code)
	}
	return nil
}
