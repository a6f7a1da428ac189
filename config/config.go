package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

var (
	config     *Config
	configOnce sync.Once
)

// Config stores all configuration of the application
type Config struct {
	// Environment type
	EnvType string

	// Database
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	DBMigrationMode string // 数据库迁移模式: "auto"(默认), "drop"(删除重建)

	// Server
	ServerPort string

	// Redis
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// SMTP 邮件服务
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	// 邮件队列容量与发送协程数
	EmailQueueSize int
	EmailWorkers   int

	// MQTT 实时通知推送
	MQTTBrokerURL string
	MQTTUsername  string
	MQTTPassword  string

	// JWT Authentication
	JWTSecretKey string

	// 专家资质证明文件上传目录
	UploadDir string

	// Admin
	DefaultAdminPassword string
}

// LoadConfig loads config from environment variables based on ENV_TYPE
func LoadConfig() *Config {
	// Get environment type (default to LOCAL if not set)
	envType := getEnv("ENV_TYPE", "LOCAL")
	prefix := ""

	// Set prefix based on environment type
	if strings.ToUpper(envType) == "LOCAL" {
		prefix = "LOCAL_"
	} else if strings.ToUpper(envType) == "SERVER" {
		prefix = "SERVER_"
	} else {
		fmt.Printf("Warning: Unknown ENV_TYPE '%s', defaulting to LOCAL environment\n", envType)
		prefix = "LOCAL_"
		envType = "LOCAL"
	}

	fmt.Printf("Loading configuration for environment: %s\n", envType)

	// 解析SMTP端口
	smtpPort, _ := strconv.Atoi(getEnv("SMTP_PORT", "587"))

	return &Config{
		// Environment type
		EnvType: envType,

		// Database config - use environment-specific variables if available
		DBHost:          getEnv(prefix+"DB_HOST", getEnv("DB_HOST", "localhost")),
		DBUser:          getEnv(prefix+"DB_USER", getEnv("DB_USER", "root")),
		DBPassword:      getEnv(prefix+"DB_PASSWORD", getEnv("DB_PASSWORD", "root")),
		DBName:          getEnv(prefix+"DB_NAME", getEnv("DB_NAME", "cropguard_db")),
		DBPort:          getEnv(prefix+"DB_PORT", getEnv("DB_PORT", "3306")),
		DBMigrationMode: getEnv(prefix+"DB_MIGRATION_MODE", getEnv("DB_MIGRATION_MODE", "auto")),

		// Server config
		ServerPort: getEnv(prefix+"SERVER_PORT", getEnv("SERVER_PORT", "8080")),

		// Redis config
		RedisHost:     getEnv(prefix+"REDIS_HOST", getEnv("REDIS_HOST", "localhost")),
		RedisPort:     getEnv(prefix+"REDIS_PORT", getEnv("REDIS_PORT", "6379")),
		RedisPassword: getEnv(prefix+"REDIS_PASSWORD", getEnv("REDIS_PASSWORD", "")),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// SMTP config
		SMTPHost:       getEnv("SMTP_HOST", ""),
		SMTPPort:       smtpPort,
		SMTPUser:       getEnv("SMTP_USER", ""),
		SMTPPassword:   getEnv("SMTP_PASSWORD", ""),
		SMTPFrom:       getEnv("SMTP_FROM", "noreply@cropguard.app"),
		EmailQueueSize: getEnvAsInt("EMAIL_QUEUE_SIZE", 100),
		EmailWorkers:   getEnvAsInt("EMAIL_WORKERS", 2),

		// MQTT config
		MQTTBrokerURL: getEnv("MQTT_BROKER_URL", ""),
		MQTTUsername:  getEnv("MQTT_USERNAME", ""),
		MQTTPassword:  getEnv("MQTT_PASSWORD", ""),

		// JWT Config
		JWTSecretKey: getEnv("JWT_SECRET_KEY", "cropguard-secret-key-change-in-production"),

		// Upload Config
		UploadDir: getEnv("UPLOAD_DIR", "uploads/verification_documents"),

		// Admin Config
		DefaultAdminPassword: getEnv("DEFAULT_ADMIN_PASSWORD", "admin123"),
	}
}

// GetConfig returns the application configuration as a singleton
func GetConfig() *Config {
	configOnce.Do(func() {
		config = LoadConfig()
	})
	return config
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?charset=utf8mb4&parseTime=True&loc=Local&allowNativePasswords=true&multiStatements=true"
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return c.RedisHost + ":" + c.RedisPort
}

// Helper function to get environment variable with default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// Helper function to get environment variable as integer with default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
