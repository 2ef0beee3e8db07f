package db

import (
	"time"

	"github.com/terraincognita07/askesis/internal/logger"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func gormConfig(logg *logger.Logger) *gorm.Config {
	if logg == nil {
		logg = logger.NewNop()
	}
	return &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			logg.With("component", "gorm"),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  false,
			},
		),
	}
}
