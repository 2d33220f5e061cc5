package internal

import (
	"fmt"

	"AFD-SVC/internal/config"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(cfg *config.Config) error {
	dsn := cfg.Database.DSN()

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := autoMigrate(); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	fmt.Println("Database connected and migrated successfully")
	return nil
}

func autoMigrate() error {
	// Create tables only if they don't exist (preserve existing data)
	fmt.Println("Ensuring affidavit_templates table exists...")
	result := DB.Exec(`
        CREATE TABLE IF NOT EXISTS affidavit_templates (
            id varchar(191) PRIMARY KEY,
            name longtext NOT NULL,
            structure json,
            version int NOT NULL DEFAULT 1,
            is_active tinyint(1) NOT NULL DEFAULT 1,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_affidavit_templates_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create affidavit_templates table: %w", result.Error)
	}

	fmt.Println("Creating affidavits table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS affidavits (
            id varchar(191) PRIMARY KEY,
            patient_id varchar(191) NOT NULL,
            provider_id varchar(191) NOT NULL,
            template_id varchar(191) NULL,
            template_version int DEFAULT 0,
            content json,
            status varchar(32) NOT NULL DEFAULT 'DRAFT',
            verification_code varchar(64) NULL,
            generated_file_path longtext NULL,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            UNIQUE INDEX idx_affidavits_verification_code (verification_code),
            INDEX idx_affidavits_patient_id (patient_id),
            INDEX idx_affidavits_provider_id (provider_id),
            INDEX idx_affidavits_template_id (template_id),
            INDEX idx_affidavits_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create affidavits table: %w", result.Error)
	}

	ensureAffidavitColumns := map[string]string{
		"template_version":    "ALTER TABLE affidavits ADD COLUMN template_version int DEFAULT 0",
		"verification_code":   "ALTER TABLE affidavits ADD COLUMN verification_code varchar(64) NULL",
		"generated_file_path": "ALTER TABLE affidavits ADD COLUMN generated_file_path longtext NULL",
	}
	for column, stmt := range ensureAffidavitColumns {
		if err := ensureColumn("affidavits", column, stmt); err != nil {
			return err
		}
	}

	fmt.Println("Creating patients table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS patients (
            id varchar(191) PRIMARY KEY,
            first_name longtext NOT NULL,
            last_name longtext NOT NULL,
            date_of_birth datetime(3) NULL,
            email longtext,
            phone longtext,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_patients_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create patients table: %w", result.Error)
	}

	fmt.Println("Creating providers table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS providers (
            id varchar(191) PRIMARY KEY,
            name longtext NOT NULL,
            specialty longtext,
            license_number longtext,
            email longtext,
            fax longtext,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_providers_deleted_at (deleted_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create providers table: %w", result.Error)
	}

	fmt.Println("Creating activity_logs table if not exists...")
	result = DB.Exec(`
        CREATE TABLE IF NOT EXISTS activity_logs (
            id varchar(191) PRIMARY KEY,
            method varchar(10) NOT NULL,
            path varchar(255) NOT NULL,
            user_agent text,
            ip_address varchar(45),
            query_params text,
            status_code int NOT NULL,
            response_time bigint NOT NULL,
            created_at datetime(3) NULL,
            updated_at datetime(3) NULL,
            deleted_at datetime(3) NULL,
            INDEX idx_activity_logs_deleted_at (deleted_at),
            INDEX idx_activity_logs_method (method),
            INDEX idx_activity_logs_path (path),
            INDEX idx_activity_logs_created_at (created_at)
        )
    `)
	if result.Error != nil {
		return fmt.Errorf("failed to create activity_logs table: %w", result.Error)
	}

	fmt.Println("Tables created/verified successfully")
	return nil
}

func ensureColumn(table, column, statement string) error {
	if DB.Migrator().HasColumn(table, column) {
		return nil
	}

	fmt.Printf("Adding missing column %s.%s...\n", table, column)
	if err := DB.Exec(statement).Error; err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", table, column, err)
	}

	return nil
}

func CloseDB() error {
	if DB != nil {
		sqlDB, err := DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
