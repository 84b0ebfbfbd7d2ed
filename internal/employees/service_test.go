package employees

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/config"
	"github.com/stockroomhq/stockroom-backend/pkg/db"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	"github.com/stockroomhq/stockroom-backend/pkg/enums"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
	"github.com/stockroomhq/stockroom-backend/pkg/security"
)

var employeeDDL = []string{
	`CREATE TABLE IF NOT EXISTS employees (
  account_id INTEGER PRIMARY KEY AUTOINCREMENT,
  first_name TEXT NOT NULL,
  last_name TEXT NOT NULL,
  email TEXT NOT NULL UNIQUE,
  phone_number TEXT,
  address TEXT,
  city TEXT,
  state TEXT,
  zip_code TEXT,
  position TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
	`CREATE TABLE IF NOT EXISTS accounts (
  email TEXT PRIMARY KEY,
  account_type TEXT NOT NULL DEFAULT 'operator',
  password_hash TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    8 * 1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newEmployeeService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()

	client, err := db.NewSQLite(context.Background(), "file::memory:?cache=shared", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	conn := client.DB()
	for _, ddl := range employeeDDL {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	for _, table := range []string{"accounts", "employees"} {
		require.NoError(t, conn.Exec("DELETE FROM "+table).Error)
	}

	svc, err := NewService(NewRepository(conn), client, testPasswordConfig())
	require.NoError(t, err)
	return svc, conn
}

func seedEmployeeWithAccount(t *testing.T, conn *gorm.DB, first, last, email string, accountType enums.AccountType) *models.Employee {
	t.Helper()

	employee := &models.Employee{FirstName: first, LastName: last, Email: email}
	require.NoError(t, conn.Create(employee).Error)
	require.NoError(t, conn.Create(&models.Account{
		Email:        email,
		AccountType:  accountType,
		PasswordHash: "placeholder",
	}).Error)
	return employee
}

func TestListJoinsAccountType(t *testing.T) {
	svc, conn := newEmployeeService(t)
	ctx := context.Background()

	seedEmployeeWithAccount(t, conn, "Rosa", "Delgado", "rosa@example.com", enums.AccountTypeAdmin)

	// an employee without an account still shows on the roster
	require.NoError(t, conn.Create(&models.Employee{
		FirstName: "Theo", LastName: "Marsh", Email: "theo@example.com",
	}).Error)

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	assert.Equal(t, "Rosa", listed[0].FirstName)
	require.NotNil(t, listed[0].AccountType)
	assert.Equal(t, string(enums.AccountTypeAdmin), *listed[0].AccountType)

	assert.Equal(t, "Theo", listed[1].FirstName)
	assert.Nil(t, listed[1].AccountType)
}

func TestUpdateProfileAndAccount(t *testing.T) {
	svc, conn := newEmployeeService(t)
	ctx := context.Background()

	employee := seedEmployeeWithAccount(t, conn, "Rosa", "Delgado", "rosa@example.com", enums.AccountTypeOperator)

	newType := string(enums.AccountTypeAdmin)
	newPassword := "hunter2hunter2"
	phone := "555-0100"
	err := svc.Update(ctx, employee.AccountID, UpdateEmployeeInput{
		FirstName:   "Rosa",
		LastName:    "Delgado-Reyes",
		Email:       "rosa@example.com",
		PhoneNumber: &phone,
		AccountType: &newType,
		Password:    &newPassword,
	})
	require.NoError(t, err)

	var stored models.Employee
	require.NoError(t, conn.First(&stored, "account_id = ?", employee.AccountID).Error)
	assert.Equal(t, "Delgado-Reyes", stored.LastName)
	require.NotNil(t, stored.PhoneNumber)
	assert.Equal(t, phone, *stored.PhoneNumber)

	var account models.Account
	require.NoError(t, conn.First(&account, "email = ?", "rosa@example.com").Error)
	assert.Equal(t, enums.AccountTypeAdmin, account.AccountType)

	ok, err := security.VerifyPassword(newPassword, account.PasswordHash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestUpdateWithoutAccountFieldsLeavesAccountAlone(t *testing.T) {
	svc, conn := newEmployeeService(t)
	ctx := context.Background()

	employee := seedEmployeeWithAccount(t, conn, "Rosa", "Delgado", "rosa@example.com", enums.AccountTypeOperator)

	err := svc.Update(ctx, employee.AccountID, UpdateEmployeeInput{
		FirstName: "Rosa",
		LastName:  "Delgado",
		Email:     "rosa@example.com",
	})
	require.NoError(t, err)

	var account models.Account
	require.NoError(t, conn.First(&account, "email = ?", "rosa@example.com").Error)
	assert.Equal(t, enums.AccountTypeOperator, account.AccountType)
	assert.Equal(t, "placeholder", account.PasswordHash)
}

func TestUpdateRejectsDuplicateEmail(t *testing.T) {
	svc, conn := newEmployeeService(t)
	ctx := context.Background()

	seedEmployeeWithAccount(t, conn, "Rosa", "Delgado", "rosa@example.com", enums.AccountTypeOperator)
	other := seedEmployeeWithAccount(t, conn, "Theo", "Marsh", "theo@example.com", enums.AccountTypeOperator)

	err := svc.Update(ctx, other.AccountID, UpdateEmployeeInput{
		FirstName: "Theo",
		LastName:  "Marsh",
		Email:     "rosa@example.com",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	var stored models.Employee
	require.NoError(t, conn.First(&stored, "account_id = ?", other.AccountID).Error)
	assert.Equal(t, "theo@example.com", stored.Email)
}

func TestUpdateValidation(t *testing.T) {
	svc, _ := newEmployeeService(t)
	ctx := context.Background()

	err := svc.Update(ctx, 1, UpdateEmployeeInput{LastName: "Delgado", Email: "rosa@example.com"})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	err = svc.Update(ctx, 1, UpdateEmployeeInput{FirstName: "Rosa", LastName: "Delgado"})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateUnknownEmployee(t *testing.T) {
	svc, _ := newEmployeeService(t)

	err := svc.Update(context.Background(), 404, UpdateEmployeeInput{
		FirstName: "Rosa", LastName: "Delgado", Email: "rosa@example.com",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
