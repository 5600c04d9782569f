package http

import (
	"net/http"

	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/logger"
)

type StatsHandler struct {
	statsUsecase usecase.StatsUC
	logger       logger.Logger
}

func NewStatsHandler(statsUsecase usecase.StatsUC, logger logger.Logger) *StatsHandler {
	return &StatsHandler{statsUsecase: statsUsecase, logger: logger}
}

// getStats возвращает показатели за окно ?filter=today|week|month|all.
// Неизвестный фильтр трактуется как "all".
func (s *StatsHandler) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statsUsecase.GetStats(r.Context(), r.URL.Query().Get("filter"))
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toStatsResponse(stats))
}
