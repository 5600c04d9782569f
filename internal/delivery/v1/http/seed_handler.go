package http

import (
	"net/http"

	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/logger"
)

type SeedHandler struct {
	seedUsecase usecase.SeedUC
	logger      logger.Logger
}

func NewSeedHandler(seedUsecase usecase.SeedUC, logger logger.Logger) *SeedHandler {
	return &SeedHandler{seedUsecase: seedUsecase, logger: logger}
}

// seed наполняет пустую базу демо-каталогом и продажами за последний месяц.
func (s *SeedHandler) seed(w http.ResponseWriter, r *http.Request) {
	res, err := s.seedUsecase.Seed(r.Context())
	if err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, &seedResponse{
		Message:         "Demo data created successfully",
		ProductsCreated: res.ProductsCreated,
		SalesCreated:    res.SalesCreated,
	})
}

// reset очищает все продажи и товары.
func (s *SeedHandler) reset(w http.ResponseWriter, r *http.Request) {
	if err := s.seedUsecase.Reset(r.Context()); err != nil {
		s.logger.Warnf("%s", err.Error())
		WriteError(w, err)
		return
	}

	WriteSuccess(w, http.StatusOK, map[string]interface{}{
		"message": "All demo data cleared successfully",
	})
}
