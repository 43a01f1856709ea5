package common

import (
	"fmt"

	"github.com/op/go-logging"
	"github.com/tubecast/video-services/assets"
	"github.com/tubecast/video-services/network"
	"github.com/tubecast/video-services/util/logger"
)

// Context bundles the config, logger and service clients that every
// component needs. It is built once at startup and passed explicitly;
// nothing here is ambient or global.
type Context struct {
	Assets      *assets.Resolver
	Config      *Config
	Logger      *logging.Logger
	ObjectStore *network.ObjectStore
	VideoStore  *network.VideoStore
}

func NewContext() *Context {
	config := NewConfig()
	_logger := getLogger(config)
	return &Context{
		Assets:      assets.NewResolver(config.AssetsRoot, config.Port),
		Config:      config,
		Logger:      _logger,
		ObjectStore: getObjectStore(config, _logger),
		VideoStore:  getVideoStore(config),
	}
}

func getLogger(config *Config) *logging.Logger {
	_logger, _ := logger.InitLogger(config.LogDir, config.LogLevel)
	return _logger
}

func getObjectStore(config *Config, logger *logging.Logger) *network.ObjectStore {
	useSSL := true
	if config.ConfigName == "dev" || config.ConfigName == "test" {
		useSSL = false // talking to localhost in dev and test
	}
	store, err := network.NewObjectStore(
		config.S3Host,
		config.S3Region,
		config.S3KeyID,
		config.S3SecretKey,
		config.S3Bucket,
		useSSL,
		logger)
	if err != nil {
		msg := fmt.Sprintf("Could not initialize object store client: %v", err)
		panic(msg)
	}
	return store
}

func getVideoStore(config *Config) *network.VideoStore {
	store, err := network.NewVideoStore(config.DatabaseURL)
	if err != nil {
		msg := fmt.Sprintf("Could not initialize video store client: %v", err)
		panic(msg)
	}
	return store
}
