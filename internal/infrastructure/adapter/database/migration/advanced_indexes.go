package migration

import (
	coreport "github.com/amirhossein-jamali/token-economy/internal/domain/port/core"
	"gorm.io/gorm"
)

// AdvancedIndexManager manages PostgreSQL-specific indexes and table settings
type AdvancedIndexManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewAdvancedIndexManager creates a new advanced index manager
func NewAdvancedIndexManager(db *gorm.DB, logger coreport.Logger) *AdvancedIndexManager {
	return &AdvancedIndexManager{
		db:     db,
		logger: logger,
	}
}

// CreateAdvancedIndexes creates PostgreSQL-only indexes
func (m *AdvancedIndexManager) CreateAdvancedIndexes() error {
	m.logger.Info("Creating advanced PostgreSQL indexes", nil)

	indexes := []struct {
		name string
		sql  string
	}{
		{
			// ledger rows are append-only, BRIN stays tiny
			name: "idx_transactions_created_at_brin",
			sql: `CREATE INDEX IF NOT EXISTS idx_transactions_created_at_brin
				ON transactions USING BRIN (created_at) WITH (pages_per_range = 32)`,
		},
		{
			name: "idx_goal_submissions_pending",
			sql: `CREATE INDEX IF NOT EXISTS idx_goal_submissions_pending
				ON goal_submissions (student_id, created_at) WHERE status = 'pending'`,
		},
		{
			name: "idx_prize_requests_approved",
			sql: `CREATE INDEX IF NOT EXISTS idx_prize_requests_approved
				ON prize_requests (class_id, reviewed_at) WHERE status = 'approved'`,
		},
	}

	for _, idx := range indexes {
		if err := m.db.Exec(idx.sql).Error; err != nil {
			m.logger.Error("Failed to create index", map[string]any{
				"index": idx.name,
				"error": err.Error(),
			})
			return err
		}
	}

	m.logger.Info("Advanced PostgreSQL indexes created successfully", nil)
	return nil
}

// CreatePerformanceTweaks applies PostgreSQL table settings. Failures are logged only.
func (m *AdvancedIndexManager) CreatePerformanceTweaks() {
	m.logger.Info("Applying PostgreSQL performance tweaks", nil)

	// accounts are updated in place on every ledger entry
	if err := m.db.Exec(`ALTER TABLE accounts SET (fillfactor = 80)`).Error; err != nil {
		m.logger.Warn("Failed to set fillfactor for accounts table", map[string]any{
			"error": err.Error(),
		})
	}

	if err := m.db.Exec(`ALTER TABLE transactions ALTER COLUMN account_id SET STATISTICS 1000`).Error; err != nil {
		m.logger.Warn("Failed to set statistics target for account_id", map[string]any{
			"error": err.Error(),
		})
	}
}
