package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/logger"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

func (r *Router) Init(prUC usecase.ProductUC, saleUC usecase.SaleUC, statsUC usecase.StatsUC, seedUC usecase.SeedUC) {
	r.router.Route("/api/v1", func(v1 chi.Router) {
		registerProductRoutes(v1, NewProductHandler(prUC, r.logger))
		registerSaleRoutes(v1, NewSaleHandler(saleUC, r.logger))
		registerStatsRoutes(v1, NewStatsHandler(statsUC, r.logger))
		registerSeedRoutes(v1, NewSeedHandler(seedUC, r.logger))
	})
}

func registerProductRoutes(router chi.Router, prHandler *ProductHandler) {
	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", prHandler.listProducts)
		pr.Post("/", prHandler.createProduct)
		pr.Put("/{id}", prHandler.updateProduct)
		pr.Delete("/{id}", prHandler.deleteProduct)
	})
}

func registerSaleRoutes(router chi.Router, saleHandler *SaleHandler) {
	router.Route("/sales", func(s chi.Router) {
		s.Get("/", saleHandler.listSales)
		s.Post("/", saleHandler.recordSale)
	})
}

func registerStatsRoutes(router chi.Router, statsHandler *StatsHandler) {
	router.Get("/stats", statsHandler.getStats)
}

func registerSeedRoutes(router chi.Router, seedHandler *SeedHandler) {
	router.Route("/seed", func(s chi.Router) {
		s.Post("/", seedHandler.seed)
		s.Delete("/", seedHandler.reset)
	})
}
