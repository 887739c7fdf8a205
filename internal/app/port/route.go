package port

import (
	"context"

	"bridge_router/internal/domain/entity"
)

// RouteProvider is the upstream route/quote collaborator.
type RouteProvider interface {
	// FetchRoutes performs exactly one upstream call. Cancelling ctx abandons it.
	FetchRoutes(ctx context.Context, params entity.UpstreamQuoteParams) (entity.ProviderResponse, error)
}

// QuoteService turns a transfer intent into a normalized quote.
type QuoteService interface {
	GetQuote(ctx context.Context, req entity.QuoteRequest) (entity.QuoteResult, error)
}
