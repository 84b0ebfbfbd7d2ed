package employees

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/security"
)

// EmployeeDTO is one roster row with the joined account type.
type EmployeeDTO struct {
	AccountID   int64   `json:"account_id"`
	FirstName   string  `json:"first_name"`
	LastName    string  `json:"last_name"`
	Email       string  `json:"email"`
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	ZipCode     *string `json:"zip_code"`
	Position    *string `json:"position"`
	AccountType *string `json:"account_type"`
}

// UpdateEmployeeInput overwrites the employee profile and optionally the
// joined account.
type UpdateEmployeeInput struct {
	FirstName   string
	LastName    string
	Email       string
	PhoneNumber *string
	Address     *string
	City        *string
	State       *string
	ZipCode     *string
	Position    *string
	AccountType *string
	Password    *string
}

// Service exposes employee roster and profile management.
type Service interface {
	List(ctx context.Context) ([]EmployeeDTO, error)
	Update(ctx context.Context, accountID int64, input UpdateEmployeeInput) error
}

type service struct {
	repo        *Repository
	dbClient    *db.Client
	passwordCfg config.PasswordConfig
}

// NewService constructs the employee service.
func NewService(repo *Repository, dbClient *db.Client, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("employee repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, passwordCfg: passwordCfg}, nil
}

// List returns the roster joined with account types.
func (s *service) List(ctx context.Context) ([]EmployeeDTO, error) {
	rows, err := s.repo.ListWithAccounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing employees")
	}
	return rows, nil
}

// Update overwrites the employee profile and, when account fields are
// provided, the joined account in the same transaction. Passwords are hashed
// before storage.
func (s *service) Update(ctx context.Context, accountID int64, input UpdateEmployeeInput) error {
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "first_name and last_name are required")
	}
	if strings.TrimSpace(input.Email) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}

	var passwordHash *string
	if input.Password != nil && *input.Password != "" {
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
		}
		passwordHash = &hash
	}

	return s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		employee, err := repo.FindByAccountID(ctx, accountID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "employee not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading employee")
		}

		employee.FirstName = strings.TrimSpace(input.FirstName)
		employee.LastName = strings.TrimSpace(input.LastName)
		employee.Email = strings.TrimSpace(input.Email)
		employee.PhoneNumber = input.PhoneNumber
		employee.Address = input.Address
		employee.City = input.City
		employee.State = input.State
		employee.ZipCode = input.ZipCode
		employee.Position = input.Position

		if err := repo.UpdateProfile(ctx, employee); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "email already in use by another employee")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating employee")
		}

		if input.AccountType != nil || passwordHash != nil {
			if err := repo.UpdateAccount(ctx, employee.Email, input.AccountType, passwordHash); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating account")
			}
		}
		return nil
	})
}
