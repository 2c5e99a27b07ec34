package logging

import "go.uber.org/zap"

// New builds the application logger. Dev mode gets human-readable console
// output, anything else the production JSON encoder.
func New(mode string) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if mode == "dev" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}
