package servers

import (
	"go.uber.org/fx"

	"github.com/ecomlab/seller_insights/internal/servers/http"
)

// Config - config.
type Config struct {
	fx.Out

	HTTP http.Config
}
