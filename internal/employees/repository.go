package employees

import (
	"context"

	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

const rosterQuery = `
SELECT e.account_id,
       e.first_name,
       e.last_name,
       e.email,
       e.phone_number,
       e.address,
       e.city,
       e.state,
       e.zip_code,
       e.position,
       a.account_type
FROM employees e
LEFT JOIN accounts a ON a.email = e.email
ORDER BY e.account_id
`

// Repository persists employee profiles and their console accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// ListWithAccounts returns the roster with each employee's account type when
// an account exists.
func (r *Repository) ListWithAccounts(ctx context.Context) ([]EmployeeDTO, error) {
	var rows []EmployeeDTO
	err := r.db.WithContext(ctx).
		Raw(rosterQuery).
		Scan(&rows).
		Error
	return rows, err
}

// FindByAccountID loads one employee profile.
func (r *Repository) FindByAccountID(ctx context.Context, accountID int64) (*models.Employee, error) {
	var employee models.Employee
	err := r.db.WithContext(ctx).
		First(&employee, "account_id = ?", accountID).
		Error
	if err != nil {
		return nil, err
	}
	return &employee, nil
}

// UpdateProfile overwrites the employee's profile fields.
func (r *Repository) UpdateProfile(ctx context.Context, employee *models.Employee) error {
	return r.db.WithContext(ctx).
		Model(&models.Employee{}).
		Where("account_id = ?", employee.AccountID).
		Updates(map[string]any{
			"first_name":   employee.FirstName,
			"last_name":    employee.LastName,
			"email":        employee.Email,
			"phone_number": employee.PhoneNumber,
			"address":      employee.Address,
			"city":         employee.City,
			"state":        employee.State,
			"zip_code":     employee.ZipCode,
			"position":     employee.Position,
		}).
		Error
}

// UpdateAccount applies the provided account changes keyed by email. Nil
// fields are left untouched.
func (r *Repository) UpdateAccount(ctx context.Context, email string, accountType, passwordHash *string) error {
	updates := map[string]any{}
	if accountType != nil {
		updates["account_type"] = *accountType
	}
	if passwordHash != nil {
		updates["password_hash"] = *passwordHash
	}
	if len(updates) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("email = ?", email).
		Updates(updates).
		Error
}
