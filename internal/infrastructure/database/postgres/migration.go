// internal/infrastructure/database/postgres/migration.go
package postgres

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront/internal/domain/order"
	"github.com/your-org/storefront/internal/domain/product"
	"github.com/your-org/storefront/internal/domain/user"
	"gorm.io/gorm"
)

// Migration handles database migrations
type Migration struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewMigration creates a new migration instance
func NewMigration(db *gorm.DB, logger *logrus.Logger) *Migration {
	return &Migration{
		db:     db,
		logger: logger,
	}
}

// RunAutoMigrations runs GORM auto-migrations for all models
func (m *Migration) RunAutoMigrations() error {
	m.logger.Info("🔄 Running database auto-migrations...")

	models := []interface{}{
		&user.User{},
		&product.Product{},
		&order.Order{},
	}

	for _, model := range models {
		m.logger.Debugf("Migrating model: %T", model)
		if err := m.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate model %T: %w", model, err)
		}
	}

	m.logger.Info("✅ Database auto-migrations completed successfully")
	return nil
}

// CreateIndexes creates additional indexes for listing queries
func (m *Migration) CreateIndexes() error {
	m.logger.Info("🔄 Creating additional database indexes...")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_products_created_at ON products(created_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_products_user_created ON products(user_id, created_at, id)",
		"CREATE INDEX IF NOT EXISTS idx_orders_customer_created ON orders(customer_user_id, created_at DESC)",
	}

	successCount := 0
	failCount := 0

	for _, indexSQL := range indexes {
		if err := m.db.Exec(indexSQL).Error; err != nil {
			m.logger.WithError(err).Warn("⚠️ Failed to create index")
			failCount++
		} else {
			successCount++
		}
	}

	m.logger.WithFields(logrus.Fields{
		"created": successCount,
		"failed":  failCount,
	}).Info("✅ Index creation finished")
	return nil
}

// GetTableInfo logs the row count of every public table
func (m *Migration) GetTableInfo() error {
	var tables []string

	if err := m.db.Raw("SELECT tablename FROM pg_tables WHERE schemaname = 'public' ORDER BY tablename").Scan(&tables).Error; err != nil {
		return err
	}

	totalRecords := int64(0)
	for _, table := range tables {
		var count int64
		m.db.Table(table).Count(&count)
		totalRecords += count
		m.logger.WithFields(logrus.Fields{"table": table, "records": count}).Info("📊 Table")
	}

	m.logger.WithFields(logrus.Fields{
		"tables":  len(tables),
		"records": totalRecords,
	}).Info("📈 Database summary")

	return nil
}

// DropAllTables drops all storefront tables (use with extreme caution)
func (m *Migration) DropAllTables() error {
	m.logger.Warn("⚠️ Dropping all tables...")
	return m.db.Migrator().DropTable(&order.Order{}, &product.Product{}, &user.User{})
}
