package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/askesis/internal/db"
	"github.com/terraincognita07/askesis/internal/logger"
	"github.com/terraincognita07/askesis/internal/services"
	"gorm.io/gorm"
)

const (
	tokenFailureLimit  = 10
	tokenFailureWindow = 15 * time.Minute
)

type Handler struct {
	store     services.CommitmentStore
	lifecycle *services.LifecycleService
	logs      *services.LogService
	listing   *services.ListingService
	progress  *services.ProgressService
	catalog   *services.CatalogService
	packages  *services.PackageService
	users     *services.UserService

	signingKey   []byte
	logger       *logger.Logger
	clock        services.Clock
	tokenLimiter *attemptLimiter
}

func NewHandler(database *gorm.DB, signingKey []byte, logg *logger.Logger) (*Handler, error) {
	if database == nil {
		return nil, errors.New("database is required")
	}
	if len(signingKey) == 0 {
		return nil, errors.New("signing key is required")
	}
	if logg == nil {
		logg = logger.NewNop()
	}

	clock := services.SystemClock{}
	repositories := db.NewRepositories(database)
	lifecycle := services.NewLifecycleService(repositories.Commitments, clock)

	return &Handler{
		store:        repositories.Commitments,
		lifecycle:    lifecycle,
		logs:         services.NewLogService(repositories.Commitments),
		listing:      services.NewListingService(repositories.Commitments),
		progress:     services.NewProgressService(repositories.Commitments),
		catalog:      services.NewCatalogService(repositories.Practices, clock),
		packages:     services.NewPackageService(repositories.Packages, repositories.Practices, lifecycle, clock),
		users:        services.NewUserService(repositories.Users, clock),
		signingKey:   signingKey,
		logger:       logg.With("component", "api"),
		clock:        clock,
		tokenLimiter: newAttemptLimiter(tokenFailureLimit, tokenFailureWindow),
	}, nil
}
