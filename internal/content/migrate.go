package content

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the portal schema using Gorm's AutoMigrate and logs progress.
// AutoMigrate is idempotent: existing tables gain missing columns, nothing is
// dropped.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "content.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying portal schema")
	}

	models := []any{
		&Game{},
		&BlogPost{},
		&Product{},
		&Comment{},
		&Ad{},
		&SocialLink{},
		&SiteSetting{},
		&CategorySetting{},
		&FreeGameDeal{},
	}

	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("portal schema migration failed")
		}
		return eris.Wrap(err, "auto migrating portal schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("portal schema migration complete")
	}

	return nil
}
