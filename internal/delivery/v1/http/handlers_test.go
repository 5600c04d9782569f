package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shoplite/pos-backend/internal/domain"
	"github.com/shoplite/pos-backend/internal/usecase"
	"github.com/shoplite/pos-backend/pkg/e"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)        {}
func (nopLogger) Infof(string, ...any)         {}
func (nopLogger) Warnf(string, ...any)         {}
func (nopLogger) Errorf(error, string, ...any) {}

var _ usecase.ProductUC = (*stubProductUC)(nil)

type stubProductUC struct {
	createFn func(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error)
	updateFn func(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error)
	deleteFn func(ctx context.Context, id int64) error
	listFn   func(ctx context.Context) ([]domain.Product, error)
}

func (s *stubProductUC) CreateProduct(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	return s.createFn(ctx, req)
}

func (s *stubProductUC) UpdateProduct(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	return s.updateFn(ctx, req)
}

func (s *stubProductUC) DeleteProduct(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubProductUC) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.listFn(ctx)
}

var _ usecase.SaleUC = (*stubSaleUC)(nil)

type stubSaleUC struct {
	recordFn func(ctx context.Context, req *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error)
	listFn   func(ctx context.Context) ([]usecase.SaleInfo, error)
}

func (s *stubSaleUC) RecordSale(ctx context.Context, req *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error) {
	return s.recordFn(ctx, req)
}

func (s *stubSaleUC) ListSales(ctx context.Context) ([]usecase.SaleInfo, error) {
	return s.listFn(ctx)
}

var _ usecase.StatsUC = (*stubStatsUC)(nil)

type stubStatsUC struct {
	getFn func(ctx context.Context, window string) (*usecase.Stats, error)
}

func (s *stubStatsUC) GetStats(ctx context.Context, window string) (*usecase.Stats, error) {
	return s.getFn(ctx, window)
}

var _ usecase.SeedUC = (*stubSeedUC)(nil)

type stubSeedUC struct {
	seedFn  func(ctx context.Context) (*usecase.SeedRes, error)
	resetFn func(ctx context.Context) error
}

func (s *stubSeedUC) Seed(ctx context.Context) (*usecase.SeedRes, error) {
	return s.seedFn(ctx)
}

func (s *stubSeedUC) Reset(ctx context.Context) error {
	return s.resetFn(ctx)
}

func newTestRouter(prUC usecase.ProductUC, saleUC usecase.SaleUC, statsUC usecase.StatsUC, seedUC usecase.SeedUC) *chi.Mux {
	r := chi.NewRouter()
	NewRouter(r, nopLogger{}).Init(prUC, saleUC, statsUC, seedUC)

	return r
}

func doRequest(t *testing.T, router *chi.Mux, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))

	return out
}

func TestProductHandlers(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("CreateProduct_ReturnsCreatedProduct", func(t *testing.T) {
		var gotReq *usecase.CreateProductReq
		prUC := &stubProductUC{
			createFn: func(_ context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
				gotReq = req
				return &domain.Product{
					ID:           1,
					Name:         req.Name,
					BuyingPrice:  req.BuyingPrice,
					SellingPrice: req.SellingPrice,
					Quantity:     req.Quantity,
					CreatedAt:    now,
				}, nil
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
			"name":         "Rice (50kg bag)",
			"buyingPrice":  "25000.00",
			"sellingPrice": 32000,
			"quantity":     15,
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NotNil(t, gotReq)
		require.Equal(t, int64(2500000), gotReq.BuyingPrice)
		require.Equal(t, int64(3200000), gotReq.SellingPrice)
		require.Equal(t, int64(15), gotReq.Quantity)

		body := decodeBody[productResponse](t, rec)
		require.Equal(t, int64(1), body.ID)
		require.Equal(t, "Rice (50kg bag)", body.Name)
		require.Equal(t, "25000.00", body.BuyingPrice)
		require.Equal(t, "32000.00", body.SellingPrice)
		require.Equal(t, int64(15), body.Quantity)
	})

	t.Run("CreateProduct_RejectsMissingFields", func(t *testing.T) {
		router := newTestRouter(&stubProductUC{}, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
			"name": "Incomplete",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrMissingFields.Error(), body.Message)
	})

	t.Run("CreateProduct_RejectsMalformedPrice", func(t *testing.T) {
		router := newTestRouter(&stubProductUC{}, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
			"name":         "Bad price",
			"buyingPrice":  "abc",
			"sellingPrice": "100",
			"quantity":     1,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrInvalidPrice.Error(), body.Message)
	})

	t.Run("CreateProduct_RejectsExcessPrecision", func(t *testing.T) {
		router := newTestRouter(&stubProductUC{}, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
			"name":         "Precise",
			"buyingPrice":  "10.999",
			"sellingPrice": "100",
			"quantity":     1,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrPricePrecision.Error(), body.Message)
	})

	t.Run("CreateProduct_MapsDuplicateNameToConflict", func(t *testing.T) {
		prUC := &stubProductUC{
			createFn: func(context.Context, *usecase.CreateProductReq) (*domain.Product, error) {
				return nil, e.Wrap("ProductUseCase.CreateProduct", e.ErrProductNameExists)
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/products", map[string]any{
			"name":         "Duplicate",
			"buyingPrice":  "100",
			"sellingPrice": "200",
			"quantity":     1,
		})
		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("UpdateProduct_PassesParsedID", func(t *testing.T) {
		var gotReq *usecase.UpdateProductReq
		prUC := &stubProductUC{
			updateFn: func(_ context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
				gotReq = req
				return &domain.Product{ID: req.ID, Name: req.Name, CreatedAt: now}, nil
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPut, "/api/v1/products/7", map[string]any{
			"name":         "Renamed",
			"buyingPrice":  "100",
			"sellingPrice": "200",
			"quantity":     3,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, int64(7), gotReq.ID)
		require.Equal(t, "Renamed", gotReq.Name)
	})

	t.Run("UpdateProduct_RejectsMalformedID", func(t *testing.T) {
		router := newTestRouter(&stubProductUC{}, nil, nil, nil)

		rec := doRequest(t, router, http.MethodPut, "/api/v1/products/abc", map[string]any{
			"name":         "Renamed",
			"buyingPrice":  "100",
			"sellingPrice": "200",
			"quantity":     3,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("DeleteProduct_ReturnsConfirmation", func(t *testing.T) {
		var gotID int64
		prUC := &stubProductUC{
			deleteFn: func(_ context.Context, id int64) error {
				gotID = id
				return nil
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodDelete, "/api/v1/products/5", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, int64(5), gotID)
	})

	t.Run("DeleteProduct_MapsSaleHistoryToConflict", func(t *testing.T) {
		prUC := &stubProductUC{
			deleteFn: func(context.Context, int64) error {
				return e.Wrap("ProductUseCase.DeleteProduct", e.ErrProductHasSales)
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodDelete, "/api/v1/products/5", nil)
		require.Equal(t, http.StatusConflict, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrProductHasSales.Error(), body.Message)
	})

	t.Run("ListProducts_ReturnsFormattedPrices", func(t *testing.T) {
		prUC := &stubProductUC{
			listFn: func(context.Context) ([]domain.Product, error) {
				return []domain.Product{
					{ID: 2, Name: "Second", BuyingPrice: 120000, SellingPrice: 180000, Quantity: 35, CreatedAt: now},
					{ID: 1, Name: "First", BuyingPrice: 40000, SellingPrice: 60000, Quantity: 50, CreatedAt: now},
				}, nil
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[[]productResponse](t, rec)
		require.Len(t, body, 2)
		require.Equal(t, "1200.00", body[0].BuyingPrice)
		require.Equal(t, "1800.00", body[0].SellingPrice)
		require.Equal(t, "400.00", body[1].BuyingPrice)
	})

	t.Run("ListProducts_EmptyDatabaseReturnsEmptyArray", func(t *testing.T) {
		prUC := &stubProductUC{
			listFn: func(context.Context) ([]domain.Product, error) {
				return nil, nil
			},
		}
		router := newTestRouter(prUC, nil, nil, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/products", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, "[]", rec.Body.String())
	})
}

func TestSaleHandlers(t *testing.T) {
	now := time.Date(2025, 3, 15, 10, 0, 0, 0, time.UTC)

	t.Run("RecordSale_ReturnsSaleWithRemainingStock", func(t *testing.T) {
		var gotReq *usecase.RecordSaleReq
		saleUC := &stubSaleUC{
			recordFn: func(_ context.Context, req *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error) {
				gotReq = req
				return &usecase.RecordSaleRes{
					SaleID:    1,
					ProductID: req.ProductID,
					Product:   "Rice (50kg bag)",
					Quantity:  req.Quantity,
					UnitPrice: 3200000,
					Total:     9600000,
					SaleDate:  req.SaleDate,
					CreatedAt: now,
					Remaining: 12,
				}, nil
			},
		}
		router := newTestRouter(nil, saleUC, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 1,
			"quantity":  3,
			"saleDate":  "2025-03-15",
		})
		require.Equal(t, http.StatusCreated, rec.Code)

		require.NotNil(t, gotReq)
		require.Equal(t, int64(1), gotReq.ProductID)
		require.Equal(t, int64(3), gotReq.Quantity)
		require.Equal(t, 2025, gotReq.SaleDate.Year())

		body := decodeBody[recordSaleResponse](t, rec)
		require.Equal(t, int64(1), body.ID)
		require.Equal(t, "Rice (50kg bag)", body.ProductName)
		require.Equal(t, "32000.00", body.UnitPrice)
		require.Equal(t, "96000.00", body.Total)
		require.Equal(t, int64(12), body.Remaining)
	})

	t.Run("RecordSale_AcceptsRFC3339SaleDate", func(t *testing.T) {
		var gotDate time.Time
		saleUC := &stubSaleUC{
			recordFn: func(_ context.Context, req *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error) {
				gotDate = req.SaleDate
				return &usecase.RecordSaleRes{SaleDate: req.SaleDate, CreatedAt: now}, nil
			},
		}
		router := newTestRouter(nil, saleUC, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 1,
			"quantity":  1,
			"saleDate":  "2025-03-15T14:30:00Z",
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, gotDate.Equal(time.Date(2025, 3, 15, 14, 30, 0, 0, time.UTC)))
	})

	t.Run("RecordSale_RejectsMissingFields", func(t *testing.T) {
		router := newTestRouter(nil, &stubSaleUC{}, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 1,
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrMissingFields.Error(), body.Message)
	})

	t.Run("RecordSale_RejectsMalformedDate", func(t *testing.T) {
		router := newTestRouter(nil, &stubSaleUC{}, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 1,
			"quantity":  1,
			"saleDate":  "15/03/2025",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrInvalidSaleDate.Error(), body.Message)
	})

	t.Run("RecordSale_MapsInsufficientStockTo400WithAvailable", func(t *testing.T) {
		saleUC := &stubSaleUC{
			recordFn: func(context.Context, *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error) {
				return nil, e.Wrap("SaleUseCase.RecordSale", e.NewInsufficientStockError(2))
			},
		}
		router := newTestRouter(nil, saleUC, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 1,
			"quantity":  5,
			"saleDate":  "2025-03-15",
		})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, "insufficient stock, only 2 units available", body.Message)
	})

	t.Run("RecordSale_MapsUnknownProductTo404", func(t *testing.T) {
		saleUC := &stubSaleUC{
			recordFn: func(context.Context, *usecase.RecordSaleReq) (*usecase.RecordSaleRes, error) {
				return nil, e.Wrap("SaleUseCase.RecordSale", e.ErrProductNotFound)
			},
		}
		router := newTestRouter(nil, saleUC, nil, nil)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/sales", map[string]any{
			"productId": 42,
			"quantity":  1,
			"saleDate":  "2025-03-15",
		})
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("ListSales_ReturnsJournal", func(t *testing.T) {
		saleUC := &stubSaleUC{
			listFn: func(context.Context) ([]usecase.SaleInfo, error) {
				return []usecase.SaleInfo{
					{ID: 2, ProductID: 1, ProductName: "Rice (50kg bag)", Quantity: 3, UnitPrice: 3200000, Total: 9600000, SaleDate: now, CreatedAt: now},
				}, nil
			},
		}
		router := newTestRouter(nil, saleUC, nil, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/sales", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody[[]saleResponse](t, rec)
		require.Len(t, body, 1)
		require.Equal(t, "Rice (50kg bag)", body[0].ProductName)
		require.Equal(t, "96000.00", body[0].Total)
	})
}

func TestStatsHandler(t *testing.T) {
	t.Run("GetStats_PassesFilterAndFormatsAmounts", func(t *testing.T) {
		var gotWindow string
		statsUC := &stubStatsUC{
			getFn: func(_ context.Context, window string) (*usecase.Stats, error) {
				gotWindow = window
				return &usecase.Stats{
					TotalSales: 45000,
					Cogs:       30000,
					Profit:     15000,
					StockValue: 180000,
					SalesCount: 2,
					Window:     usecase.WindowWeek,
				}, nil
			},
		}
		router := newTestRouter(nil, nil, statsUC, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/stats?filter=week", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "week", gotWindow)

		body := decodeBody[statsResponse](t, rec)
		require.Equal(t, "450.00", body.TotalSales)
		require.Equal(t, "300.00", body.Cogs)
		require.Equal(t, "150.00", body.Profit)
		require.Equal(t, "1800.00", body.StockValue)
		require.Equal(t, int64(2), body.SalesCount)
		require.Equal(t, "week", body.Filter)
	})

	t.Run("GetStats_MissingFilterPassesEmptyString", func(t *testing.T) {
		var gotWindow string
		statsUC := &stubStatsUC{
			getFn: func(_ context.Context, window string) (*usecase.Stats, error) {
				gotWindow = window
				return &usecase.Stats{Window: usecase.WindowAll}, nil
			},
		}
		router := newTestRouter(nil, nil, statsUC, nil)

		rec := doRequest(t, router, http.MethodGet, "/api/v1/stats", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "", gotWindow)

		body := decodeBody[statsResponse](t, rec)
		require.Equal(t, "all", body.Filter)
	})
}

func TestSeedHandlers(t *testing.T) {
	t.Run("Seed_ReturnsCreatedCounts", func(t *testing.T) {
		seedUC := &stubSeedUC{
			seedFn: func(context.Context) (*usecase.SeedRes, error) {
				return &usecase.SeedRes{ProductsCreated: 10, SalesCreated: 47}, nil
			},
		}
		router := newTestRouter(nil, nil, nil, seedUC)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/seed", nil)
		require.Equal(t, http.StatusCreated, rec.Code)

		body := decodeBody[seedResponse](t, rec)
		require.Equal(t, 10, body.ProductsCreated)
		require.Equal(t, 47, body.SalesCreated)
		require.Equal(t, "Demo data created successfully", body.Message)
	})

	t.Run("Seed_MapsExistingDataTo400", func(t *testing.T) {
		seedUC := &stubSeedUC{
			seedFn: func(context.Context) (*usecase.SeedRes, error) {
				return nil, e.Wrap("SeedUseCase.Seed", e.ErrSeedDataExists)
			},
		}
		router := newTestRouter(nil, nil, nil, seedUC)

		rec := doRequest(t, router, http.MethodPost, "/api/v1/seed", nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody[ErrorResponse](t, rec)
		require.Equal(t, e.ErrSeedDataExists.Error(), body.Message)
	})

	t.Run("Reset_ReturnsConfirmation", func(t *testing.T) {
		called := false
		seedUC := &stubSeedUC{
			resetFn: func(context.Context) error {
				called = true
				return nil
			},
		}
		router := newTestRouter(nil, nil, nil, seedUC)

		rec := doRequest(t, router, http.MethodDelete, "/api/v1/seed", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		require.True(t, called)
	})
}
