package config

import (
	"os"
	"testing"
)

func TestLoadConfigMigrationDefault(t *testing.T) {
	os.Unsetenv("DB_MIGRATION_MODE")
	os.Unsetenv("LOCAL_DB_MIGRATION_MODE")
	os.Unsetenv("SERVER_DB_MIGRATION_MODE")

	cfg := LoadConfig()
	// 未配置时默认只做增量迁移
	if cfg.DBMigrationMode != "auto" {
		t.Errorf("默认迁移模式应为auto: got %s", cfg.DBMigrationMode)
	}
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{
		DBHost:     "127.0.0.1",
		DBUser:     "root",
		DBPassword: "root",
		DBName:     "cropguard_db",
		DBPort:     "3306",
	}
	want := "root:root@tcp(127.0.0.1:3306)/cropguard_db?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
	if got := cfg.GetDSN(); got != want {
		t.Errorf("DSN错误: got %s", got)
	}
}
