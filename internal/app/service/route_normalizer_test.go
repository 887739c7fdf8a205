package service

import (
	stdjson "encoding/json"
	"math"
	"testing"

	"bridge_router/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	routeA = `{"type":"SWIFT","etaSeconds":30,"feeUsd":1.5,"expectedAmountOutBaseUnits":"99000000"}`
	routeB = `{"type":"MCTP","eta":2,"feeEstimateUsd":"0.75"}`
)

func raws(items ...string) []stdjson.RawMessage {
	out := make([]stdjson.RawMessage, 0, len(items))
	for _, it := range items {
		out = append(out, stdjson.RawMessage(it))
	}
	return out
}

func labels(cs []entity.RouteCandidate) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ProviderLabel)
	}
	return out
}

func TestNormalizeRoutes_Shapes(t *testing.T) {
	tests := []struct {
		name string
		resp entity.ProviderResponse
		want []string
	}{
		{name: "bare list", resp: entity.ProviderResponse{List: raws(routeA, routeB)}, want: []string{"SWIFT", "MCTP"}},
		{name: "routes field", resp: entity.ProviderResponse{Routes: raws(routeA, routeB)}, want: []string{"SWIFT", "MCTP"}},
		{name: "bestRoute field", resp: entity.ProviderResponse{BestRoute: stdjson.RawMessage(routeA)}, want: []string{"SWIFT"}},
		{name: "quotes field", resp: entity.ProviderResponse{Quotes: raws(routeB)}, want: []string{"MCTP"}},
		{
			name: "routes wins over bestRoute",
			resp: entity.ProviderResponse{Routes: raws(routeB), BestRoute: stdjson.RawMessage(routeA)},
			want: []string{"MCTP"},
		},
		{
			name: "empty routes falls through to bestRoute",
			resp: entity.ProviderResponse{Routes: raws(), BestRoute: stdjson.RawMessage(routeA)},
			want: []string{"SWIFT"},
		},
		{
			name: "non-object entries are skipped",
			resp: entity.ProviderResponse{List: raws(`42`, `"x"`, `null`, routeB)},
			want: []string{"MCTP"},
		},
		{
			name: "fieldless objects are skipped",
			resp: entity.ProviderResponse{List: raws(`{}`, `{"id":1}`, routeA)},
			want: []string{"SWIFT"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeRoutes(tt.resp)
			require.NoError(t, err)
			assert.Equal(t, tt.want, labels(got))
		})
	}
}

func TestNormalizeRoutes_NoRoutes(t *testing.T) {
	tests := map[string]entity.ProviderResponse{
		"empty object":      {},
		"empty list":        {List: raws()},
		"null bestRoute":    {BestRoute: stdjson.RawMessage(`null`)},
		"only non-objects":  {List: raws(`1`, `[]`)},
		"array bestRoute":   {BestRoute: stdjson.RawMessage(`[1,2]`)},
		"empty routes only": {Routes: raws()},
		"empty bestRoute":   {BestRoute: stdjson.RawMessage(`{}`)},
		"unknown fields":    {List: raws(`{"id":7,"note":"x"}`, `{}`)},
		"unusable fields":   {Routes: raws(`{"type":"  ","eta":null,"feeUsd":-1}`)},
	}
	for name, resp := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizeRoutes(resp)
			assert.ErrorIs(t, err, entity.ErrNoRoutes)
		})
	}
}

func TestNormalizeRoutes_ExtractsFields(t *testing.T) {
	got, err := NormalizeRoutes(entity.ProviderResponse{List: raws(routeA, routeB, `{"bridge":"WH","eta":null}`)})
	require.NoError(t, err)
	require.Len(t, got, 3)

	a := got[0]
	assert.Equal(t, 30.0, a.EstimatedSeconds)
	assert.Equal(t, 1.5, a.FeeEstimateUSD)
	assert.Equal(t, "99000000", a.NetAmountSmallest.String())
	assert.JSONEq(t, routeA, string(a.Raw))

	b := got[1]
	assert.Equal(t, 120.0, b.EstimatedSeconds, "eta is reported in minutes")
	assert.Equal(t, 0.75, b.FeeEstimateUSD)
	assert.Nil(t, b.NetAmountSmallest.Value)

	c := got[2]
	assert.Equal(t, "WH", c.ProviderLabel)
	assert.True(t, math.IsInf(c.EstimatedSeconds, 1))
	assert.False(t, c.HasTimeEstimate())
	assert.False(t, c.HasFeeEstimate())
}

func TestNormalizeRoutes_LargeIntegerAmountIsExact(t *testing.T) {
	got, err := NormalizeRoutes(entity.ProviderResponse{
		List: raws(`{"type":"SWIFT","netAmountSmallest":123456789012345678901234567890}`),
	})
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", got[0].NetAmountSmallest.String())
}
