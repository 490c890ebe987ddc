package accounts

import (
	"github.com/google/uuid"

	"github.com/tradelink-io/tradelink-backend/pkg/enums"
)

// RegisterCompanyInput opens a seller account and its company profile.
type RegisterCompanyInput struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=10,max=128"`
	CompanyName string  `json:"company_name" validate:"required,min=2,max=160"`
	LegalName   *string `json:"legal_name,omitempty" validate:"omitempty,max=200"`
	Website     *string `json:"website,omitempty" validate:"omitempty,url"`
	Country     string  `json:"country,omitempty" validate:"omitempty,iso3166_1_alpha2"`
}

// RegisterRetailerInput opens a buyer account and its retailer profile.
type RegisterRetailerInput struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=10,max=128"`
	RetailerName string  `json:"retailer_name" validate:"required,min=2,max=160"`
	Region       *string `json:"region,omitempty" validate:"omitempty,max=80"`
}

// LoginInput carries credentials for an existing account.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session is the result of a successful registration or login.
type Session struct {
	AccessToken string            `json:"access_token"`
	UserID      uuid.UUID         `json:"user_id"`
	Role        enums.AccountRole `json:"role"`
	ProfileID   uuid.UUID         `json:"profile_id"`
}
