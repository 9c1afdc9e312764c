package services

import (
	"go.uber.org/fx"

	"github.com/ecomlab/seller_insights/internal/services/controllers"
	"github.com/ecomlab/seller_insights/internal/services/listing"
	"github.com/ecomlab/seller_insights/internal/services/storage"
)

// Config - config storage.
type Config struct {
	fx.Out

	Controllers controllers.Config `yaml:"controllers"`
	Storage     storage.Config     `yaml:"storage"`
	Listing     listing.Config     `yaml:"listing"`
}
