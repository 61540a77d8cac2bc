package factory

import (
	"fmt"

	"github.com/yuzumeet/meet-auth-gateway/internal/config"
	"github.com/yuzumeet/meet-auth-gateway/internal/provider"
	"github.com/yuzumeet/meet-auth-gateway/internal/provider/google"
)

const (
	providerGoogle = "google"
)

func New(conf *config.ProviderConfig) (provider.Interface, error) {
	switch conf.Name {
	case providerGoogle:
		return google.New(conf)
	default:
		return nil, fmt.Errorf("unsupported provider: %s", conf.Name)
	}
}
