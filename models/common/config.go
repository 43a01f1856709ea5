package common

import (
	"fmt"
	"os"
	"time"

	"github.com/op/go-logging"
	"github.com/spf13/viper"
	"github.com/tubecast/video-services/util"
)

type Config struct {
	AssetsRoot    string
	ConfigName    string
	DatabaseURL   string
	FFmpegPath    string
	FFprobePath   string
	IngestTempDir string
	JWTSecret     string
	LogDir        string
	LogLevel      logging.Level
	PidFile       string
	Port          int
	S3Bucket      string
	S3Host        string
	S3KeyID       string
	S3Region      string
	S3SecretKey   string
	SignedURLTTL  time.Duration
	ToolTimeout   time.Duration
}

var logLevels = map[string]logging.Level{
	"CRITICAL": logging.CRITICAL,
	"ERROR":    logging.ERROR,
	"WARNING":  logging.WARNING,
	"NOTICE":   logging.NOTICE,
	"INFO":     logging.INFO,
	"DEBUG":    logging.DEBUG,
}

// Returns a new config based on ENV var TUBECAST_ENV
func NewConfig() *Config {
	config := loadConfig()
	config.expandPaths()
	config.sanityCheck()
	config.makeDirs()
	return config
}

func loadConfig() *Config {
	configDir, envName := getEnvVars()
	v := viper.New()
	v.AddConfigPath(configDir)
	v.SetConfigName(".env." + envName)
	v.SetConfigType("env")
	v.SetDefault("FFMPEG_PATH", "ffmpeg")
	v.SetDefault("FFPROBE_PATH", "ffprobe")
	v.SetDefault("SIGNED_URL_TTL", "1h")
	v.SetDefault("TOOL_TIMEOUT", "2m")
	err := v.ReadInConfig()
	if err != nil {
		panic(fmt.Errorf("Fatal error config file: %s \n", err))
	}
	return &Config{
		AssetsRoot:    v.GetString("ASSETS_ROOT"),
		ConfigName:    envName,
		DatabaseURL:   v.GetString("DATABASE_URL"),
		FFmpegPath:    v.GetString("FFMPEG_PATH"),
		FFprobePath:   v.GetString("FFPROBE_PATH"),
		IngestTempDir: v.GetString("INGEST_TEMP_DIR"),
		JWTSecret:     v.GetString("JWT_SECRET"),
		LogDir:        v.GetString("LOG_DIR"),
		LogLevel:      logLevels[v.GetString("LOG_LEVEL")],
		PidFile:       v.GetString("PID_FILE"),
		Port:          v.GetInt("PORT"),
		S3Bucket:      v.GetString("S3_BUCKET"),
		S3Host:        v.GetString("S3_HOST"),
		S3KeyID:       v.GetString("S3_KEY"),
		S3Region:      v.GetString("S3_REGION"),
		S3SecretKey:   v.GetString("S3_SECRET"),
		SignedURLTTL:  v.GetDuration("SIGNED_URL_TTL"),
		ToolTimeout:   v.GetDuration("TOOL_TIMEOUT"),
	}
}

func getEnvVars() (string, string) {
	configDir := getRequiredEnvVar("TUBECAST_CONFIG_DIR")
	envName := getRequiredEnvVar("TUBECAST_ENV")
	return configDir, envName
}

func getRequiredEnvVar(varName string) string {
	value := os.Getenv(varName)
	if value == "" {
		panic(fmt.Sprintf("Required env var %s not set", varName))
	}
	return value
}

// Expand ~ to home dir in path settings.
func (c *Config) expandPaths() {
	c.AssetsRoot = expandPath(c.AssetsRoot)
	c.IngestTempDir = expandPath(c.IngestTempDir)
	c.LogDir = expandPath(c.LogDir)
}

func expandPath(dirName string) string {
	dir, err := util.ExpandTilde(dirName)
	if err != nil {
		panic(err)
	}
	return dir
}

func (c *Config) sanityCheck() {
	if c.JWTSecret == "" {
		panic("Config is missing JWT_SECRET")
	}
	if c.S3Bucket == "" {
		panic("Config is missing S3_BUCKET")
	}
	if c.SignedURLTTL < time.Minute {
		panic("SIGNED_URL_TTL must be at least one minute")
	}
}

func (c *Config) makeDirs() error {
	dirs := []string{
		c.AssetsRoot,
		c.IngestTempDir,
		c.LogDir,
	}
	for _, dir := range dirs {
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			panic(err)
		}
	}
	return nil
}
