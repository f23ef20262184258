package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	Postgres    DBConfig
	Redis       RedisConfig
	S3          S3Config
	Logger      Logger
	Pipeline    PipelineConfig
	Transcriber TranscriberConfig
	Summarizer  SummarizerConfig
	Worker      WorkerConfig
}

type ServerConfig struct {
	AppVersion   string
	Port         string
	Mode         string
	JwtSecretKey string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
}

type PipelineConfig struct {
	WorkDir          string
	YtdlpPath        string
	ChunkDelayMs     int
	MaxConcurrent    int
	StaleArtifactMin int
}

type TranscriberConfig struct {
	Endpoint string
	Model    string
	APIKey   string
}

type SummarizerConfig struct {
	Endpoint string
	Model    string
}

type WorkerConfig struct {
	MaxCPUUsage float64
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	PgDriver string
}

type RedisConfig struct {
	RedisAddr     string
	RedisPassword string
	DB            int
	MinIdleConns  int
	PoolSize      int
	PoolTimeout   int
	UseTLS        bool
}

type S3Config struct {
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	ArchiveBucket string
}

type Logger struct {
	Development       bool
	DisableCaller     bool
	DisableStacktrace bool
	Encoding          string
	Level             string
}

func (p PipelineConfig) ChunkDelay() time.Duration {
	return time.Duration(p.ChunkDelayMs) * time.Millisecond
}

func (p PipelineConfig) StaleArtifactAge() time.Duration {
	if p.StaleArtifactMin <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(p.StaleArtifactMin) * time.Minute
}

func LoadConfig(filename string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigFile(filename)
	v.AddConfigPath(".")
	v.AutomaticEnv()
	if err := v.ReadInConfig(); err != nil {
		var configFileNotFound viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFound) {
			return nil, errors.New("config file not found")
		}
		return nil, err
	}
	return v, nil
}

func ParseConfig(v *viper.Viper) (*Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
