package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/api/responses"
	"github.com/tradelink-io/tradelink-backend/api/validators"
	promotionsvc "github.com/tradelink-io/tradelink-backend/internal/promotions"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
)

// CreatePromotion opens a discount campaign for the acting company.
func CreatePromotion(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := actingCompanyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload promotionsvc.CreatePromotionInput
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotion, err := svc.Create(r.Context(), companyID, payload)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, promotion)
	}
}

// ListPromotions returns the acting company's campaigns.
func ListPromotions(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := actingCompanyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		promotions, err := svc.ListByCompany(r.Context(), companyID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, promotions)
	}
}

type linkProductRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

// LinkPromotionProduct attaches a campaign to one of the company's listings.
func LinkPromotionProduct(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promotionID, err := ownedPromotionID(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload linkProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.LinkProduct(r.Context(), promotionID, strings.TrimSpace(payload.ProductID)); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{"status": "linked"})
	}
}

// UnlinkPromotionProduct detaches a campaign from a listing.
func UnlinkPromotionProduct(svc promotionsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		promotionID, err := ownedPromotionID(r, svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productID"))
		if err := svc.UnlinkProduct(r.Context(), promotionID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "unlinked"})
	}
}

// ownedPromotionID parses the route id and confirms the campaign belongs to
// the acting company.
func ownedPromotionID(r *http.Request, svc promotionsvc.Service) (uuid.UUID, error) {
	promotionID, err := uuid.Parse(chi.URLParam(r, "promotionID"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid promotion id")
	}

	companyID, err := actingCompanyID(r)
	if err != nil {
		return uuid.Nil, err
	}

	promotion, err := svc.Get(r.Context(), promotionID)
	if err != nil {
		return uuid.Nil, err
	}
	if promotion.CompanyID != companyID {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "promotion belongs to another company")
	}
	return promotionID, nil
}
