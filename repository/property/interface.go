package propertyRepo

import (
	"context"

	"roomrental/models"
	"roomrental/result"
	"roomrental/transport"
	"roomrental/utils"

	"go.uber.org/zap"
)

type PropertyRepository interface {
	// Reads
	GetAllProperties(ctx context.Context) result.Result[[]models.Property]
	GetAvailableProperties(ctx context.Context) result.Result[[]models.Property]
	GetPropertyByID(ctx context.Context, id int64) result.Result[models.Property]
	SearchProperties(ctx context.Context, criteria models.SearchCriteria) result.Result[models.PropertyPage]
	GetPropertiesByLandlord(ctx context.Context, landlordID int64) result.Result[[]models.Property]

	// Writes
	CreateProperty(ctx context.Context, req models.PropertyRequest) result.Result[models.Property]
	UpdateProperty(ctx context.Context, id int64, req models.PropertyRequest) result.Result[models.Property]
	DeleteProperty(ctx context.Context, id int64) result.Result[struct{}]
}

// DefaultPropertyRepository implements PropertyRepository over /api/properties.
type DefaultPropertyRepository struct {
	Client transport.Doer
	Logger *zap.Logger
}

func NewPropertyRepository(client transport.Doer, logger *zap.Logger) PropertyRepository {
	return &DefaultPropertyRepository{Client: client, Logger: utils.OrNop(logger)}
}
