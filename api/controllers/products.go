package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/tradelink-io/tradelink-backend/api/middleware"
	"github.com/tradelink-io/tradelink-backend/api/responses"
	"github.com/tradelink-io/tradelink-backend/api/validators"
	catalogsvc "github.com/tradelink-io/tradelink-backend/internal/catalog"
	"github.com/tradelink-io/tradelink-backend/pkg/enums"
	pkgerrors "github.com/tradelink-io/tradelink-backend/pkg/errors"
	"github.com/tradelink-io/tradelink-backend/pkg/logger"
	"github.com/tradelink-io/tradelink-backend/pkg/money"
	"github.com/tradelink-io/tradelink-backend/pkg/pagination"
)

type volumeTierRequest struct {
	MinQuantity   int    `json:"min_quantity" validate:"required,min=1"`
	DiscountValue string `json:"discount_value" validate:"required"`
	DiscountKind  string `json:"discount_kind" validate:"required,oneof=percentage fixed"`
}

type createProductRequest struct {
	Name             string              `json:"name" validate:"required,min=2,max=200"`
	SKU              string              `json:"sku" validate:"required,min=1,max=64"`
	Barcode          *string             `json:"barcode,omitempty" validate:"omitempty,max=64"`
	Description      *string             `json:"description,omitempty" validate:"omitempty,max=5000"`
	ShortDescription *string             `json:"short_description,omitempty" validate:"omitempty,max=300"`
	CategoryID       string              `json:"category_id" validate:"required,uuid4"`
	Tags             []string            `json:"tags,omitempty"`
	BasePrice        string              `json:"base_price" validate:"required"`
	Currency         string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Tiers            []volumeTierRequest `json:"tiers,omitempty" validate:"omitempty,dive"`
	MinOrderQty      int                 `json:"min_order_qty,omitempty" validate:"omitempty,min=1"`
	MaxOrderQty      int                 `json:"max_order_qty,omitempty" validate:"omitempty,min=1"`
	InitialStock     int                 `json:"initial_stock,omitempty" validate:"omitempty,min=0"`
	ReorderLevel     int                 `json:"reorder_level,omitempty" validate:"omitempty,min=0"`
	Regions          []string            `json:"regions,omitempty"`
	VisibleTo        []string            `json:"visible_to,omitempty" validate:"omitempty,dive,oneof=all retailer company"`
}

func (req createProductRequest) toCreateInput() (catalogsvc.CreateProductInput, error) {
	categoryID, err := uuid.Parse(req.CategoryID)
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category id")
	}
	basePrice, err := decimal.NewFromString(req.BasePrice)
	if err != nil {
		return catalogsvc.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price")
	}
	tiers, err := toTierInputs(req.Tiers)
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}

	return catalogsvc.CreateProductInput{
		Name:             req.Name,
		SKU:              req.SKU,
		Barcode:          req.Barcode,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		CategoryID:       categoryID,
		Tags:             req.Tags,
		BasePrice:        basePrice,
		Currency:         req.Currency,
		Tiers:            tiers,
		MinOrderQty:      req.MinOrderQty,
		MaxOrderQty:      req.MaxOrderQty,
		InitialStock:     req.InitialStock,
		ReorderLevel:     req.ReorderLevel,
		Regions:          req.Regions,
		VisibleTo:        req.VisibleTo,
	}, nil
}

func toTierInputs(reqs []volumeTierRequest) ([]catalogsvc.VolumeTierInput, error) {
	tiers := make([]catalogsvc.VolumeTierInput, 0, len(reqs))
	for _, tier := range reqs {
		value, err := decimal.NewFromString(tier.DiscountValue)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid tier discount value")
		}
		kind, err := enums.ParseDiscountKind(tier.DiscountKind)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid tier discount kind")
		}
		tiers = append(tiers, catalogsvc.VolumeTierInput{
			MinQuantity:   tier.MinQuantity,
			DiscountValue: value,
			DiscountKind:  kind,
		})
	}
	return tiers, nil
}

// CreateProduct handles listing creation for company users.
func CreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		companyID, err := actingCompanyID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.CreateProduct(r.Context(), companyID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, doc)
	}
}

// GetProduct returns a listing by id.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.GetProduct(r.Context(), chi.URLParam(r, "productID"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// GetProductBySlug returns an active listing by its slug.
func GetProductBySlug(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := svc.GetProductBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// SearchProducts lists active products matching query filters.
func SearchProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query, err := searchQueryFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		docs, total, err := svc.SearchProducts(r.Context(), query)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{
			"items": docs,
			"page":  pagination.NewResult(query.Pagination, total),
		})
	}
}

func searchQueryFromRequest(r *http.Request) (catalogsvc.SearchQuery, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1000000)
	if err != nil {
		return catalogsvc.SearchQuery{}, err
	}
	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalogsvc.SearchQuery{}, err
	}

	q := r.URL.Query()
	query := catalogsvc.SearchQuery{
		Text:       strings.TrimSpace(q.Get("q")),
		CategoryID: strings.TrimSpace(q.Get("category_id")),
		CompanyID:  strings.TrimSpace(q.Get("company_id")),
		Region:     strings.TrimSpace(q.Get("region")),
		VisibleTo:  strings.TrimSpace(q.Get("visible_to")),
		SortBy:     strings.TrimSpace(q.Get("sort")),
		SortDesc:   q.Get("order") == "desc",
		InStock:    q.Get("in_stock") == "true",
		Pagination: pagination.Params{Page: page, Limit: limit},
	}
	if tags := strings.TrimSpace(q.Get("tags")); tags != "" {
		query.Tags = strings.Split(tags, ",")
	}
	if raw := strings.TrimSpace(q.Get("min_price")); raw != "" {
		value, err := parsePriceParam(raw, "min_price")
		if err != nil {
			return catalogsvc.SearchQuery{}, err
		}
		query.MinPrice = value
	}
	if raw := strings.TrimSpace(q.Get("max_price")); raw != "" {
		value, err := parsePriceParam(raw, "max_price")
		if err != nil {
			return catalogsvc.SearchQuery{}, err
		}
		query.MaxPrice = value
	}
	return query, nil
}

func parsePriceParam(raw, field string) (*primitive.Decimal128, error) {
	value, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price filter must be numeric").WithDetails(map[string]any{"field": field})
	}
	converted, err := money.ToDecimal128(value)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price filter")
	}
	return &converted, nil
}

type updateInventoryRequest struct {
	Available *int `json:"available" validate:"required,min=0"`
}

// UpdateInventory overwrites a listing's available stock.
func UpdateInventory(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if err := requireOwnership(r, svc, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.UpdateInventory(r.Context(), productID, *payload.Available)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

type updatePricingRequest struct {
	BasePrice string              `json:"base_price" validate:"required"`
	Tiers     []volumeTierRequest `json:"tiers,omitempty" validate:"omitempty,dive"`
}

// UpdatePricing replaces a listing's base price and tier rules.
func UpdatePricing(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if err := requireOwnership(r, svc, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePricingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		basePrice, err := decimal.NewFromString(payload.BasePrice)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid base price"))
			return
		}
		tiers, err := toTierInputs(payload.Tiers)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.UpdatePricing(r.Context(), productID, catalogsvc.UpdatePricingInput{
			BasePrice: basePrice,
			Tiers:     tiers,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// DeactivateProduct soft-deletes a listing.
func DeactivateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID := chi.URLParam(r, "productID")
		if err := requireOwnership(r, svc, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := svc.DeactivateProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

func actingCompanyID(r *http.Request) (uuid.UUID, error) {
	profileID := middleware.ProfileIDFromContext(r.Context())
	if profileID == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "company context missing")
	}
	companyID, err := uuid.Parse(profileID)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid company id")
	}
	return companyID, nil
}

// requireOwnership rejects mutations against a listing the acting company
// does not own. Product ids cross the store boundary as plain strings, so
// the check happens here rather than in a database constraint.
func requireOwnership(r *http.Request, svc catalogsvc.Service, productID string) error {
	companyID, err := actingCompanyID(r)
	if err != nil {
		return err
	}
	doc, err := svc.GetProduct(r.Context(), productID)
	if err != nil {
		return err
	}
	if doc.CompanyID != companyID.String() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "listing belongs to another company")
	}
	return nil
}
