package logger

import (
	"fmt"

	"codekick-backend/pkg/utils"

	"go.uber.org/zap"
)

// New returns a production JSON logger for prod and a console logger otherwise
func New(env string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if utils.IsProduction(env) {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return l, nil
}

// MaskPhone keeps the last four digits of a phone number for log output
func MaskPhone(phone string) string {
	if len(phone) <= 4 {
		return "****"
	}
	return fmt.Sprintf("****%s", phone[len(phone)-4:])
}

// Phone is a zap field carrying a masked phone number
func Phone(phone string) zap.Field {
	return zap.String("phone", MaskPhone(phone))
}
