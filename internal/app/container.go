package app

import (
	"context"
	"fmt"

	"bridge_router/internal/app/port"
	"bridge_router/internal/app/provider"
	"bridge_router/internal/app/service"
	"bridge_router/internal/client"
	"bridge_router/internal/domain/entity"
	"bridge_router/internal/infrastructure/configloader"
	networkdefinition "bridge_router/internal/infrastructure/network/definition"
	"bridge_router/internal/infrastructure/tokenloader"
	"bridge_router/internal/pkg/logger"

	"go.uber.org/zap"
)

// Container holds the long-lived components shared by the HTTP server and the CLI.
// Everything in it is built once and is safe for concurrent use.
type Container struct {
	Config       *configloader.Config
	Networks     *networkdefinition.NetworkDefinitionProvider
	Registry     port.TokenRegistry
	RouteClient  *client.MayanClient
	QuoteService port.QuoteService
}

// NewContainer wires the quote engine from cfg.
func NewContainer(ctx context.Context, cfg *configloader.Config, zl *zap.Logger) (*Container, error) {
	appLogger := logger.NewZapAdapter(zl)

	networks := networkdefinition.NewNetworkDefinitionProvider(appLogger, cfg.Tokens.Networks)

	fileTokens, err := tokenloader.NewTokenLoader(cfg.Tokens.Dir, networks, appLogger).LoadTokens(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load token files: %w", err)
	}

	// File entries come last so they override built-ins.
	all := make([]entity.TokenDescriptor, 0, len(networkdefinition.BuiltinTokens)+len(fileTokens))
	all = append(all, networkdefinition.BuiltinTokens...)
	all = append(all, fileTokens...)

	registry, err := provider.NewTokenRegistry(all, networks, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to build token registry: %w", err)
	}

	routeClient := client.NewMayanClient(cfg.Upstream.BaseURL, cfg.Upstream.RequestTimeout(), zl)

	quotes := service.NewQuoteService(registry, routeClient, service.QuoteSettings{
		FeeBps:          cfg.Fees.FeeBps,
		ReferrerAddress: cfg.Fees.ReferrerAddress,
		ReferrerBps:     cfg.Fees.ReferrerBpsValue(),
		RefuelGasDrop:   cfg.Upstream.RefuelGasDrop,
	}, appLogger)

	return &Container{
		Config:       cfg,
		Networks:     networks,
		Registry:     registry,
		RouteClient:  routeClient,
		QuoteService: quotes,
	}, nil
}
