package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mpucli/mpu/lib/console"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

type Env string

const (
	// Local environment
	EnvLcl Env = "lcl"
	// Development environment
	EnvDev Env = "dev"
	// Production environment
	EnvPrd Env = "prd"
)

type StorageConfig struct {
	// Multipart upload chunk size in bytes.
	ChunkSize int64 `yaml:"chunk_size"`
	// Per-request timeout in seconds for coordinator and storage calls.
	RequestTimeoutSecs int `yaml:"request_timeout_secs"`
	// Whether to send an abort request to the coordinator when an upload
	// fails. When false (the default), partially-uploaded parts are left
	// for the backend's cleanup scheduler.
	AbortOnFailure bool `yaml:"abort_on_failure"`
}

type Config struct {
	// Environment to run the CLI in.
	Env Env `yaml:",omitempty"`
	// Whether or not to print verbose output.
	Verbose bool
	// Upload coordinator host. Derived from Env when unset.
	ServerHost string `yaml:"server_host,omitempty"`
	// Storage configuration.
	Storage StorageConfig
	// Rate limiter for requests to the coordinator and storage.
	// Required to abide by rate limits set by storage providers.
	RateLimiter *rate.Limiter `yaml:"-"`
}

// Singleton CLI config instance.
var I Config

// Returns path to the mpu global config file.
func GetConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}

	return filepath.Join(homeDir, ".mpu/config.yml")
}

// Returns the upload coordinator host based on the CLI environment.
func getServerHost(env Env) string {
	switch env {
	case EnvDev:
		return "https://upload-dev.mpu.dev"
	case EnvLcl:
		return "http://localhost:8000"
	default:
		// Production is the default
		return "https://upload.mpu.dev"
	}
}

// Initialize the CLI config.
func InitConfig() Config {
	cpath := GetConfigPath()

	// Create default config file if it doesn't exist yet
	if _, err := os.Stat(cpath); errors.Is(err, os.ErrNotExist) {
		// Create directories if they don't exist
		err := os.MkdirAll(filepath.Dir(cpath), 0755)
		if err != nil {
			log.Fatal(err)
		}

		I = Config{
			Storage: StorageConfig{
				ChunkSize:          5 * 1024 * 1024, // 5 MiB
				RequestTimeoutSecs: 30,
			},
		}

		// Write default config to file
		cYaml, err := yaml.Marshal(I)
		if err != nil {
			log.Fatal(err)
		}

		err = os.WriteFile(cpath, cYaml, 0644)
		if err != nil {
			log.Fatal(err)
		}

		// Set internal and default config fields
		SetInternalConfigFields(&I)
	} else {
		// Open file
		gcBytes, err := os.ReadFile(cpath)
		if err != nil {
			log.Fatal(err)
		}

		// Decode file contents
		var config Config
		err = yaml.Unmarshal(gcBytes, &config)
		if err != nil {
			log.Fatal(err)
		}

		// Set internal and default config fields
		SetInternalConfigFields(&config)

		// Set config instance
		I = config
	}

	// Validate config
	if I.Storage.ChunkSize <= 0 {
		log.Fatal("\"storage.chunk_size\" must be a positive integer")
	}
	if I.Storage.RequestTimeoutSecs <= 0 {
		log.Fatal("\"storage.request_timeout_secs\" must be a positive integer")
	}

	if I.Verbose {
		// Print config as JSON
		cfgJson, err := json.MarshalIndent(I, "", "  ")
		if err != nil {
			log.Fatal(err)
		}

		console.Verbose("Config:")
		console.Verbose(string(cfgJson))
	}

	return I
}

// Set internal config fields.
func SetInternalConfigFields(config *Config) {
	// Set defaults for missing fields
	if config.Env == "" {
		config.Env = EnvPrd
	}
	if config.Storage.ChunkSize == 0 {
		config.Storage.ChunkSize = 5 * 1024 * 1024
	}
	if config.Storage.RequestTimeoutSecs == 0 {
		config.Storage.RequestTimeoutSecs = 30
	}

	// Set internal config fields
	if config.ServerHost == "" {
		config.ServerHost = getServerHost(config.Env)
	}
	config.RateLimiter = rate.NewLimiter(rate.Every(time.Second/90), 1)
}
