package auth

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/washday/laundry-backend/internal/customers"
	"github.com/washday/laundry-backend/internal/users"
	"github.com/washday/laundry-backend/pkg/config"
	"github.com/washday/laundry-backend/pkg/db"
	"github.com/washday/laundry-backend/pkg/db/models"
	pkgerrors "github.com/washday/laundry-backend/pkg/errors"
	"github.com/washday/laundry-backend/pkg/logger"
	"github.com/washday/laundry-backend/pkg/security"
)

const emailTakenMessage = "email already registered"

// RegisterService creates customer accounts: a login plus its profile.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) (*AccountResult, error)
	CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountResult, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             txRunner
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type registerService struct {
	db          txRunner
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
		logg:        logg,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) (*AccountResult, error) {
	if err := checkPassword(req.Password, &req.ConfirmPassword, s.passwordCfg.MinLength); err != nil {
		return nil, err
	}
	return s.create(ctx, req.Email, req.Name, optional(req.Phone), req.Password)
}

// CreateAccount runs the sign-up path for a buyer who just paid. Without a
// password a temporary one is generated and returned to the caller.
func (s *registerService) CreateAccount(ctx context.Context, input CreateAccountInput) (*AccountResult, error) {
	password := ""
	if input.Password != nil {
		password = *input.Password
	}

	generated := ""
	if strings.TrimSpace(password) == "" {
		temp, err := security.GenerateTempPassword(security.TempPasswordLength)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate temporary password")
		}
		password, generated = temp, temp
	} else if err := checkPassword(password, nil, s.passwordCfg.MinLength); err != nil {
		return nil, err
	}

	phone := strings.TrimSpace(input.Phone)
	result, err := s.create(ctx, input.Email, input.Name, optional(&phone), password)
	if err != nil {
		return nil, err
	}
	result.TemporaryPassword = generated
	return result, nil
}

func (s *registerService) create(ctx context.Context, rawEmail, rawName string, phone *string, password string) (*AccountResult, error) {
	email := strings.ToLower(strings.TrimSpace(rawEmail))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required").
			WithDetails(map[string]string{"email": "Email is required"})
	}
	name := strings.TrimSpace(rawName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required").
			WithDetails(map[string]string{"name": "Name is required"})
	}

	passwordHash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var result AccountResult
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		customerRepo := customers.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			Name:         name,
			Phone:        phone,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "idx_users_email") {
				return pkgerrors.New(pkgerrors.CodeConflict, emailTakenMessage)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}
		result.UserID = user.ID

		// Guest profiles sharing this email stay unlinked: nothing here proves
		// the registrant owns the address.
		customer, err := customerRepo.Create(ctx, &models.Customer{
			UserID: &user.ID,
			Name:   name,
			Email:  email,
			Phone:  phone,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer profile")
		}
		result.CustomerID = customer.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"user_id":     result.UserID.String(),
		"customer_id": result.CustomerID.String(),
	}), "customer account created")
	return &result, nil
}

func optional(v *string) *string {
	if v == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*v)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
