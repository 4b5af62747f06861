package service

import "go.uber.org/zap"

// NewZapLogger adapts a zap sugared logger to the Logger interface.
func NewZapLogger(logger *zap.SugaredLogger) Logger {
	if logger == nil {
		return nil
	}
	return zapLogger{logger: logger}
}

type zapLogger struct {
	logger *zap.SugaredLogger
}

func (z zapLogger) Info(msg string, keysAndValues ...interface{}) {
	z.logger.Infow(msg, keysAndValues...)
}

func (z zapLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	z.logger.Errorw(msg, append(keysAndValues, "error", err)...)
}
