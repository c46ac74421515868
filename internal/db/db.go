package db

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/agenda-scheduler/internal/config"
	"github.com/BruksfildServices01/agenda-scheduler/internal/models"
)

// NewDB abre a conexão. DATABASE_URL com prefixo "sqlite:" usa sqlite,
// útil para desenvolvimento local; o resto vai para o postgres.
func NewDB(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logger.Warn),
	}

	var dialector gorm.Dialector
	if dsn, ok := strings.CutPrefix(cfg.DBUrl, "sqlite:"); ok {
		dialector = sqlite.Open(dsn)
	} else {
		dialector = postgres.Open(withServerTimeouts(cfg.DBUrl, cfg.DBTimeout))
	}

	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}

	if db.Dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(10)
		sqlDB.SetMaxIdleConns(5)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
		sqlDB.SetConnMaxIdleTime(10 * time.Minute)
	}

	return db, nil
}

// withServerTimeouts pede ao postgres o mesmo prazo do contexto, para que
// uma espera por lock não fique presa no servidor depois do cancelamento.
// Parâmetros já presentes na DSN prevalecem.
func withServerTimeouts(dsn string, d time.Duration) string {
	if d <= 0 {
		return dsn
	}
	ms := strconv.FormatInt(d.Milliseconds(), 10)

	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		u, err := url.Parse(dsn)
		if err != nil {
			return dsn
		}
		q := u.Query()
		for _, key := range []string{"statement_timeout", "lock_timeout"} {
			if q.Get(key) == "" {
				q.Set(key, ms)
			}
		}
		u.RawQuery = q.Encode()
		return u.String()
	}

	// formato chave=valor
	for _, key := range []string{"statement_timeout", "lock_timeout"} {
		if !strings.Contains(dsn, key+"=") {
			dsn += " " + key + "=" + ms
		}
	}
	return strings.TrimSpace(dsn)
}

// Migrate cria as tabelas e, no postgres, a constraint que impede
// sobreposição de agendamentos do mesmo profissional.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.PlatformAdmin{},
		&models.Tenant{},
		&models.StaffMember{},
		&models.Service{},
		&models.Client{},
		&models.AvailabilityRule{},
		&models.Block{},
		&models.Appointment{},
		&models.DeletionRequest{},
		&models.AuditLog{},
		&models.Product{},
		&models.StockMovement{},
		&models.ProductSale{},
		&models.TenantTheme{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := db.Exec(`
        UPDATE tenants
        SET timezone = 'America/Sao_Paulo'
        WHERE timezone IS NULL OR timezone = ''
    `).Error; err != nil {
		return fmt.Errorf("backfill timezone: %w", err)
	}

	if db.Dialector.Name() == "postgres" {
		for _, stmt := range postgresConstraints {
			if err := db.Exec(stmt).Error; err != nil {
				return fmt.Errorf("apply constraint: %w", err)
			}
		}
	}

	log.Info().Str("dialect", db.Dialector.Name()).Msg("database migrated")
	return nil
}

var postgresConstraints = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'appointments_no_overlap'
		) THEN
			ALTER TABLE appointments
				ADD CONSTRAINT appointments_no_overlap
				EXCLUDE USING gist (
					staff_id WITH =,
					tsrange(start_time, end_time, '[)') WITH &&
				);
		END IF;
	END $$`,
	`DO $$
	BEGIN
		IF NOT EXISTS (
			SELECT 1 FROM pg_constraint WHERE conname = 'availability_rules_one_kind'
		) THEN
			ALTER TABLE availability_rules
				ADD CONSTRAINT availability_rules_one_kind
				CHECK ((weekday IS NULL) <> (date IS NULL));
		END IF;
	END $$`,
}
