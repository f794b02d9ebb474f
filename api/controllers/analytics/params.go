package analytics

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/lucroreal-backend/api/validators"
	"github.com/angelmondragon/lucroreal-backend/internal/analytics/types"
	"github.com/angelmondragon/lucroreal-backend/internal/rollup"
	"github.com/angelmondragon/lucroreal-backend/pkg/dates"
	"github.com/angelmondragon/lucroreal-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/lucroreal-backend/pkg/errors"
	"github.com/angelmondragon/lucroreal-backend/pkg/pagination"
)

const (
	maxSearchLength = 200
	maxMonths       = 36
)

// dayLayouts accepts dd/MM/yyyy or yyyy-MM-dd.
var dayLayouts = []string{"02/01/2006", dates.DayLayout}

func parseViewQuery(r *http.Request) (types.ViewQuery, error) {
	query := r.URL.Query()

	status, err := enums.ParseSaleStatusFilter(query.Get("status"))
	if err != nil {
		return types.ViewQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "status must be all, profit or loss").
			WithDetails(map[string]any{"field": "status"})
	}
	from, err := validators.ParseQueryDay(r, "from", dayLayouts...)
	if err != nil {
		return types.ViewQuery{}, err
	}
	to, err := validators.ParseQueryDay(r, "to", dayLayouts...)
	if err != nil {
		return types.ViewQuery{}, err
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return types.ViewQuery{}, pkgerrors.New(pkgerrors.CodeValidation, "to must not be before from")
	}
	page, err := parsePage(r)
	if err != nil {
		return types.ViewQuery{}, err
	}
	months, err := validators.ParseQueryInt(r, "months", rollup.DefaultMonths, 1, maxMonths)
	if err != nil {
		return types.ViewQuery{}, err
	}

	return types.ViewQuery{
		Marketplace: validators.ParseQueryString(r, "marketplace", maxSearchLength),
		Criteria: rollup.Criteria{
			Status: status,
			Search: validators.ParseQueryString(r, "search", maxSearchLength),
			From:   from,
			To:     to,
		},
		Page:   page,
		Months: months,
	}, nil
}

func parsePage(r *http.Request) (pagination.Params, error) {
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return pagination.Params{}, err
	}
	return pagination.Params{
		Limit:  limit,
		Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
	}, nil
}
