package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirhossein-jamali/token-economy/internal/domain/entity"
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"github.com/amirhossein-jamali/token-economy/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/database/migration"
	"github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/logger"
	timeprovider "github.com/amirhossein-jamali/token-economy/internal/infrastructure/adapter/time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TestDatabase is a migrated SQLite database living in the test's temp dir
type TestDatabase struct {
	Manager *Manager
	DB      *gorm.DB
	UoW     persistence.UnitOfWork
	Logger  coreport.Logger
}

// NewTestDatabase creates and migrates a fresh database for one test.
// It is closed automatically when the test ends.
func NewTestDatabase(t *testing.T) *TestDatabase {
	t.Helper()

	log := logger.NewNoopLogger()
	config := &Config{
		Driver:          DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: time.Hour,
		QueryTimeout:    5 * time.Second,
		LogLevel:        "silent",
		RetryAttempts:   1,
	}

	manager := NewManager(config, log, timeprovider.NewRealTimeProvider())
	db, err := manager.Connect()
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := manager.Close(); err != nil {
			t.Logf("Warning: Failed to close test database connection: %v", err)
		}
	})

	if err := migration.NewMigrationManager(db, log, timeprovider.NewRealTimeProvider()).MigrateAll(); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDatabase{
		Manager: manager,
		DB:      db,
		UoW:     manager.CreateUnitOfWork(),
		Logger:  log,
	}
}

// Accounts returns an account repository outside of any transaction
func (d *TestDatabase) Accounts() persistence.AccountRepository {
	return d.UoW.GetAccountRepository(context.Background())
}

// Transactions returns a transaction repository outside of any transaction
func (d *TestDatabase) Transactions() persistence.TransactionRepository {
	return d.UoW.GetTransactionRepository(context.Background())
}

// PrizeRequests returns a prize request repository outside of any transaction
func (d *TestDatabase) PrizeRequests() persistence.PrizeRequestRepository {
	return d.UoW.GetPrizeRequestRepository(context.Background())
}

// GoalSubmissions returns a goal submission repository outside of any transaction
func (d *TestDatabase) GoalSubmissions() persistence.GoalSubmissionRepository {
	return d.UoW.GetGoalSubmissionRepository(context.Background())
}

// Classes returns a class repository
func (d *TestDatabase) Classes() persistence.ClassRepository {
	return d.UoW.GetClassRepository(context.Background())
}

// Prizes returns a prize repository
func (d *TestDatabase) Prizes() persistence.PrizeRepository {
	return d.UoW.GetPrizeRepository(context.Background())
}

// Goals returns a goal repository
func (d *TestDatabase) Goals() persistence.GoalRepository {
	return d.UoW.GetGoalRepository(context.Background())
}

// CreateClass stores a class owned by teacherID
func (d *TestDatabase) CreateClass(t *testing.T, teacherID string) *entity.Class {
	t.Helper()

	class := &entity.Class{ID: uuid.NewString(), Name: "Class " + teacherID, TeacherID: teacherID, CreatedAt: time.Now()}
	if err := d.Classes().Create(context.Background(), class); err != nil {
		t.Fatalf("Failed to create test class: %v", err)
	}
	return class
}

// CreateAccount stores an empty account for a student in a class
func (d *TestDatabase) CreateAccount(t *testing.T, studentID, classID string) *entity.Account {
	t.Helper()

	account, err := entity.NewAccount(uuid.NewString(), studentID, classID, entity.DefaultCurrency, time.Now())
	if err != nil {
		t.Fatalf("Failed to build test account: %v", err)
	}
	if err := d.Accounts().Create(context.Background(), account); err != nil {
		t.Fatalf("Failed to create test account: %v", err)
	}
	return account
}

// CreatePrize stores an available prize
func (d *TestDatabase) CreatePrize(t *testing.T, name string, cost int64) *entity.Prize {
	t.Helper()

	prize := &entity.Prize{ID: uuid.NewString(), Name: name, Cost: cost, Available: true, CreatedAt: time.Now()}
	if err := d.Prizes().Create(context.Background(), prize); err != nil {
		t.Fatalf("Failed to create test prize: %v", err)
	}
	return prize
}

// CreateGoal stores a goal offered in the given classes
func (d *TestDatabase) CreateGoal(t *testing.T, title string, points int64, classIDs ...string) *entity.Goal {
	t.Helper()

	goal := &entity.Goal{ID: uuid.NewString(), Title: title, Points: points, ClassIDs: classIDs, CreatedAt: time.Now()}
	if err := d.Goals().Create(context.Background(), goal); err != nil {
		t.Fatalf("Failed to create test goal: %v", err)
	}
	return goal
}

// Balance reads an account's stored balance
func (d *TestDatabase) Balance(t *testing.T, accountID string) int64 {
	t.Helper()

	account, err := d.Accounts().GetByID(context.Background(), accountID)
	if err != nil {
		t.Fatalf("Failed to load test account: %v", err)
	}
	return account.Balance()
}
