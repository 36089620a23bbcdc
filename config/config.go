package config

import (
	"database/sql"
	"errors"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
)

type Config struct {
	App      App           `yaml:"app"`
	DB       *sql.DB       `yaml:"db"`
	Queue    *RabbitMQ     `yaml:"rabbitmq"`
	Storage  *minio.Client `yaml:"storage"`
	Buckets  Buckets       `yaml:"buckets"`
	Server   Server        `yaml:"server"`
	Auth     Auth          `yaml:"auth"`
	Jobs     Jobs          `yaml:"jobs"`
	Economy  Economy       `yaml:"economy"`
	Redis    Redis         `yaml:"redis"`
	Database Database      `yaml:"database"`
}

type App struct {
	Environment string `yaml:"environment"`
	Host        string `yaml:"host"`
	Protocol    string `yaml:"protocol"`
}

type Server struct {
	HttpPort string `yaml:"http_port"`
}

type Database struct {
	DSN string `yaml:"dsn"`
}

type Buckets struct {
	Raw           string `yaml:"raw"`
	Processed     string `yaml:"processed"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type Auth struct {
	JWTSecret      string `yaml:"jwt_secret"`
	AdminJWTSecret string `yaml:"admin_jwt_secret"`
	AdminEmail     string `yaml:"admin_email"`
	AdminPassword  string `yaml:"admin_password"`
	WorkerToken    string `yaml:"worker_token"`
}

type Jobs struct {
	StaleAfter    time.Duration `yaml:"stale_after"`
	ClaimAttempts int           `yaml:"claim_attempts"`
	MinRawBytes   int64         `yaml:"min_raw_bytes"`
}

type Economy struct {
	AdReward   int `yaml:"ad_reward"`
	GuestCoins int `yaml:"guest_coins"`
}

type Redis struct {
	URL            string `yaml:"url"`
	GuestPerMinute int64  `yaml:"guest_per_minute"`
}

type RabbitMQ struct {
	Host         string `json:"host"`
	Port         int    `json:"port"`
	User         string `json:"user"`
	Pass         string `json:"pass"`
	ExchangeName string `json:"exchange_name"`
	Kind         string `json:"kind"`
}

// Enabled reports whether a broker was configured at all.
func (r *RabbitMQ) Enabled() bool {
	return r != nil && r.Host != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.environment", "develop")
	v.SetDefault("server.port", "3000")
	v.SetDefault("minio.bucket_raw", "raw")
	v.SetDefault("minio.bucket_processed", "processed")
	v.SetDefault("minio.use_ssl", false)
	v.SetDefault("rabbitmq_kind", "topic")
	v.SetDefault("rabbitmq_exchange", "shortdrama.jobs")
	v.SetDefault("rabbitmq_port", 5672)
	v.SetDefault("jobs.stale_after", 10*time.Minute)
	v.SetDefault("jobs.claim_attempts", 5)
	v.SetDefault("jobs.min_raw_bytes", 10*1024*1024)
	v.SetDefault("economy.ad_reward", 5)
	v.SetDefault("economy.guest_coins", 50)
	v.SetDefault("ratelimit.guest_per_minute", 30)
}

// Read resolves settings without opening any connection.
func Read(path string) (*Config, error) {
	_ = godotenv.Load(filepath.Join(path, ".env"))

	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{
		App: App{
			Environment: v.GetString("app.environment"),
			Host:        v.GetString("app.host"),
			Protocol:    v.GetString("app.protocol"),
		},
		Server: Server{
			HttpPort: v.GetString("server.port"),
		},
		Database: Database{
			DSN: v.GetString("postgresql_host"),
		},
		Buckets: Buckets{
			Raw:           v.GetString("minio.bucket_raw"),
			Processed:     v.GetString("minio.bucket_processed"),
			PublicBaseURL: strings.TrimRight(v.GetString("minio.public_base_url"), "/"),
		},
		Auth: Auth{
			JWTSecret:      v.GetString("auth.jwt_secret"),
			AdminJWTSecret: v.GetString("auth.admin_jwt_secret"),
			AdminEmail:     strings.TrimSpace(v.GetString("auth.admin_email")),
			AdminPassword:  strings.TrimSpace(v.GetString("auth.admin_password")),
			WorkerToken:    v.GetString("auth.worker_token"),
		},
		Jobs: Jobs{
			StaleAfter:    v.GetDuration("jobs.stale_after"),
			ClaimAttempts: v.GetInt("jobs.claim_attempts"),
			MinRawBytes:   v.GetInt64("jobs.min_raw_bytes"),
		},
		Economy: Economy{
			AdReward:   v.GetInt("economy.ad_reward"),
			GuestCoins: v.GetInt("economy.guest_coins"),
		},
		Redis: Redis{
			URL:            v.GetString("redis.url"),
			GuestPerMinute: v.GetInt64("ratelimit.guest_per_minute"),
		},
		Queue: &RabbitMQ{
			Host:         v.GetString("rabbitmq_host"),
			Port:         v.GetInt("rabbitmq_port"),
			User:         v.GetString("rabbitmq_user"),
			Pass:         v.GetString("rabbitmq_pass"),
			Kind:         v.GetString("rabbitmq_kind"),
			ExchangeName: v.GetString("rabbitmq_exchange"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	storage, err := newMinIO(v)
	if err != nil {
		return nil, err
	}
	cfg.Storage = storage

	return cfg, nil
}

func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, err
	}
	cfg.DB = db

	return cfg, nil
}

func newMinIO(v *viper.Viper) (*minio.Client, error) {
	endpoint := v.GetString("minio.url")
	if endpoint == "" {
		return nil, nil
	}
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(v.GetString("minio.access_id"), v.GetString("minio.secret_access_key"), ""),
		Secure: v.GetBool("minio.use_ssl"),
	})
}

func (c *Config) Validate() error {
	var errs []error
	if len(c.Auth.JWTSecret) < 8 {
		errs = append(errs, errors.New("auth.jwt_secret must be at least 8 characters"))
	}
	if len(c.Auth.AdminJWTSecret) < 8 {
		errs = append(errs, errors.New("auth.admin_jwt_secret must be at least 8 characters"))
	}
	if c.Auth.WorkerToken == "" {
		errs = append(errs, errors.New("auth.worker_token is required"))
	}
	if c.Jobs.StaleAfter <= 0 {
		errs = append(errs, errors.New("jobs.stale_after must be positive"))
	}
	if c.Jobs.ClaimAttempts < 1 {
		errs = append(errs, errors.New("jobs.claim_attempts must be at least 1"))
	}
	return errors.Join(errs...)
}
