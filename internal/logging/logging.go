package logging

import (
	"go.uber.org/zap"
)

// Logger começa como no-op para que pacotes e testes possam logar antes do InitLogger.
var Logger = zap.NewNop().Sugar()

func InitLogger(debug bool) {
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
		panic("erro ao inicializar logger: " + err.Error())
	}
	Logger = logger.Sugar()
}

// Sync descarrega buffers pendentes; erros de sync em stderr são ignorados.
func Sync() {
	_ = Logger.Sync()
}
