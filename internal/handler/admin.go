package handler

import (
	"github.com/deppfellow/sportspredict/internal/model"
	"github.com/deppfellow/sportspredict/internal/server"
	"github.com/deppfellow/sportspredict/internal/service"
	"github.com/labstack/echo/v4"
)

// AdminHandler serves operational endpoints: batch imports and manual
// archival sweeps.
type AdminHandler struct {
	Handler
	ingest  *service.IngestService
	archive *service.ArchiveService
}

func NewAdminHandler(s *server.Server, ingest *service.IngestService, archive *service.ArchiveService) *AdminHandler {
	return &AdminHandler{
		Handler: NewHandler(s),
		ingest:  ingest,
		archive: archive,
	}
}

// EnqueueImport queues the batch and answers before it runs.
func (h *AdminHandler) EnqueueImport(c echo.Context, req *model.ImportRequest) (model.DataResponse[service.ImportAccepted], error) {
	return h.ingest.Enqueue(c.Request().Context(), req)
}

func (h *AdminHandler) TriggerArchive(c echo.Context, req *model.ArchiveRequest) (model.DataResponse[service.ArchiveResult], error) {
	return h.archive.Trigger(c.Request().Context(), req)
}
