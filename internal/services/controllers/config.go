package controllers

import (
	"github.com/ecomlab/seller_insights/internal/services/controllers/general"
	"github.com/ecomlab/seller_insights/internal/services/controllers/master"
)

// Config - config of all controllers.
type Config struct {
	General general.Config
	Master  master.Config
}
