package logging

import (
	"go.uber.org/zap"
)

var Logger *zap.SugaredLogger = zap.NewNop().Sugar()

// Init builds the process-wide sugared logger. Debug mode uses the
// development config at debug level; otherwise production config limited to
// warnings so the TUI output stays clean.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	cfg.Encoding = "console"
	logger, err := cfg.Build()
	if err != nil {
		panic("initializing logger: " + err.Error())
	}
	Logger = logger.Sugar()
}
