package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tradelink-io/tradelink-backend/api/responses"
	"github.com/tradelink-io/tradelink-backend/api/validators"
	pricingsvc "github.com/tradelink-io/tradelink-backend/internal/pricing"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
)

// QuotePrice resolves the effective price for a product at a quantity.
func QuotePrice(svc pricingsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing service unavailable"))
			return
		}

		quantity, err := validators.RequireQueryInt(r, "quantity", 1, 1000000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), chi.URLParam(r, "productID"), quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}
