package usecase

import (
	"context"
	"errors"
	"strings"

	domainErrors "github.com/polkiloo/orderflow/internal/domain/errors"
	"github.com/polkiloo/orderflow/internal/domain/model"
	"github.com/polkiloo/orderflow/internal/domain/repository"
	pkgAuth "github.com/polkiloo/orderflow/internal/pkg/auth"
)

// AdminPolicy decides which logins are granted the admin role at registration.
type AdminPolicy interface {
	IsAdmin(login string) bool
}

// AuthUseCase handles merchant registration and token management.
type AuthUseCase struct {
	merchants repository.MerchantRepository
	hasher    pkgAuth.PasswordHasher
	tokens    pkgAuth.Strategy
	admins    AdminPolicy
}

// NewAuthUseCase constructs AuthUseCase. admins may be nil.
func NewAuthUseCase(merchants repository.MerchantRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy, admins AdminPolicy) *AuthUseCase {
	return &AuthUseCase{merchants: merchants, hasher: hasher, tokens: strategy, admins: admins}
}

// Register creates a merchant account and returns auth token.
func (u *AuthUseCase) Register(ctx context.Context, login, password string) (*model.Merchant, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, pkgAuth.ErrPasswordTooLong) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	role := model.RoleMerchant
	if u.admins != nil && u.admins.IsAdmin(login) {
		role = model.RoleAdmin
	}

	merchant, err := u.merchants.Create(ctx, login, hash, role)
	if err != nil {
		return nil, "", err
	}

	token, err := u.issue(merchant)
	if err != nil {
		return nil, "", err
	}
	return merchant, token, nil
}

// Authenticate validates credentials and returns auth token.
func (u *AuthUseCase) Authenticate(ctx context.Context, login, password string) (*model.Merchant, string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	merchant, err := u.merchants.GetByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := u.hasher.Compare(merchant.PasswordHash, password); err != nil {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.issue(merchant)
	if err != nil {
		return nil, "", err
	}
	return merchant, token, nil
}

// ParseToken resolves the caller encoded in token.
func (u *AuthUseCase) ParseToken(token string) (model.Caller, error) {
	if token == "" {
		return model.Caller{}, pkgAuth.ErrInvalidToken
	}
	claims, err := u.tokens.ParseToken(token)
	if err != nil {
		return model.Caller{}, err
	}
	return model.Caller{MerchantID: claims.Subject, Role: model.Role(claims.Role)}, nil
}

// GetByID fetches merchant by identifier.
func (u *AuthUseCase) GetByID(ctx context.Context, id int64) (*model.Merchant, error) {
	return u.merchants.GetByID(ctx, id)
}

func (u *AuthUseCase) issue(m *model.Merchant) (string, error) {
	return u.tokens.IssueToken(pkgAuth.Claims{Subject: m.ID, Role: string(m.Role)})
}
