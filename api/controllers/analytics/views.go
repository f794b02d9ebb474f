package analytics

import (
	"net/http"

	"github.com/angelmondragon/lucroreal-backend/api/responses"
	"github.com/angelmondragon/lucroreal-backend/api/validators"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/pkg/logger"
)

// viewHandler parses the shared view filters and writes whatever fetch returns.
func viewHandler[T any](logg *logger.Logger, fetch func(r *http.Request, q types.ViewQuery) (T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		q, err := parseViewQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := fetch(r, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func ListSales(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return viewHandler(logg, func(r *http.Request, q types.ViewQuery) (types.SalesPage, error) {
		return service.Sales(r.Context(), q)
	})
}

func ListProducts(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return viewHandler(logg, func(r *http.Request, q types.ViewQuery) (types.ProductsPage, error) {
		return service.Products(r.Context(), q)
	})
}

func ListOrders(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return viewHandler(logg, func(r *http.Request, q types.ViewQuery) (types.OrdersPage, error) {
		return service.Orders(r.Context(), q)
	})
}

func GetSummary(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return viewHandler(logg, func(r *http.Request, q types.ViewQuery) (types.SummaryResponse, error) {
		return service.Summary(r.Context(), q)
	})
}

func ListCosts(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		page, err := parsePage(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := service.Costs(ctx, page)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func GetSnapshot(service analytics.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, service.Snapshot(r.Context()))
	}
}

func Simulate(service analytics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		var req types.SimulateRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		result, err := service.Simulate(ctx, req)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
