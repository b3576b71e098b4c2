package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/slot-booking/internal/auth"
	domain "github.com/BruksfildServices01/slot-booking/internal/domain/booking"
	"github.com/BruksfildServices01/slot-booking/internal/httperr"
	"github.com/BruksfildServices01/slot-booking/internal/models"
	"github.com/BruksfildServices01/slot-booking/internal/timezone"
	"github.com/BruksfildServices01/slot-booking/internal/validators"
)

type AuthHandler struct {
	repo domain.Repository
	jwt  *auth.JWTService
}

func NewAuthHandler(repo domain.Repository, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{repo: repo, jwt: jwtService}
}

// --------- Requests ---------

type RegisterTenantRequest struct {
	Name            string `json:"name" binding:"required"`
	Slug            string `json:"slug" binding:"required"`
	Timezone        string `json:"timezone"`
	HourlyRateCents int64  `json:"hourly_rate_cents" binding:"gte=0"`
	Currency        string `json:"currency"`
}

// RegisterRequest creates a customer, or a tenant owner when Tenant is set.
type RegisterRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Email    string                 `json:"email" binding:"required"`
	Password string                 `json:"password" binding:"required,min=6"`
	Tenant   *RegisterTenantRequest `json:"tenant"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token  string         `json:"token"`
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant,omitempty"`
}

// --------- Handlers ---------

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if !validators.IsEmail(email) {
		httperr.BadRequest(c, "invalid_email", "invalid email address")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		httperr.Internal(c, "failed_to_hash_password", "could not register user")
		return
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleCustomer,
	}

	var tenant *models.Tenant
	if req.Tenant != nil {
		tenant, err = newTenant(req.Tenant, user.ID)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		user.Role = models.RoleOwner
		user.TenantID = &tenant.ID
	}

	err = h.repo.Transaction(c.Request.Context(), func(tx domain.Repository) error {
		if err := tx.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return httperr.ErrConflict("email_already_registered")
			}
			return err
		}
		if tenant == nil {
			return nil
		}
		if err := tx.CreateTenant(c.Request.Context(), tenant); err != nil {
			if errors.Is(err, domain.ErrDuplicate) {
				return httperr.ErrConflict("slug_already_exists")
			}
			return err
		}
		return nil
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	h.respond(c, http.StatusCreated, user, tenant)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := h.repo.GetUserByEmail(c.Request.Context(), email)
	if errors.Is(err, domain.ErrNotFound) {
		httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
		return
	}
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		httperr.Unauthorized(c, "invalid_credentials", "invalid email or password")
		return
	}

	var tenant *models.Tenant
	if user.TenantID != nil {
		if tenant, err = h.repo.GetTenantByID(c.Request.Context(), *user.TenantID); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	h.respond(c, http.StatusOK, user, tenant)
}

func (h *AuthHandler) respond(c *gin.Context, status int, user *models.User, tenant *models.Tenant) {
	tenantID := ""
	if tenant != nil {
		tenantID = tenant.ID
	}

	token, err := h.jwt.Generate(user.ID, tenantID, user.Role)
	if err != nil {
		httperr.Internal(c, "failed_to_generate_token", "could not issue token")
		return
	}

	c.JSON(status, AuthResponse{Token: token, User: user, Tenant: tenant})
}

func newTenant(req *RegisterTenantRequest, ownerID string) (*models.Tenant, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !validators.IsSlug(slug) {
		return nil, httperr.ErrBusiness("invalid_slug")
	}

	tz := req.Timezone
	if tz == "" {
		tz = timezone.Default().String()
	}
	if !timezone.IsValid(tz) {
		return nil, httperr.ErrBusiness("invalid_timezone")
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "BRL"
	}
	if len(currency) != 3 {
		return nil, httperr.ErrBusiness("invalid_currency")
	}

	return &models.Tenant{
		ID:              uuid.NewString(),
		Name:            strings.TrimSpace(req.Name),
		Slug:            slug,
		OwnerID:         ownerID,
		Timezone:        tz,
		HourlyRateCents: req.HourlyRateCents,
		Currency:        currency,
	}, nil
}
