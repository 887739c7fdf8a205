package service

import (
	stdjson "encoding/json"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"bridge_router/internal/domain/entity"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Field names probed on a raw route object, in priority order.
var (
	labelFields   = []string{"type", "provider", "providerLabel", "bridge"}
	secondsFields = []string{"estimatedSeconds", "etaSeconds"}
	minutesFields = []string{"eta"}
	feeUSDFields  = []string{"feeEstimateUsd", "feeUsd", "totalFeeUsd"}
	netAmtFields  = []string{"netAmountSmallest", "expectedAmountOutBaseUnits", "minAmountOutBaseUnits"}
)

type responseShape struct {
	name    string
	entries func(entity.ProviderResponse) []stdjson.RawMessage
}

// Shapes are checked in this order; the first one yielding a usable candidate wins.
var responseShapes = []responseShape{
	{name: "list", entries: func(r entity.ProviderResponse) []stdjson.RawMessage { return r.List }},
	{name: "routes", entries: func(r entity.ProviderResponse) []stdjson.RawMessage { return r.Routes }},
	{name: "bestRoute", entries: func(r entity.ProviderResponse) []stdjson.RawMessage {
		if len(r.BestRoute) == 0 {
			return nil
		}
		return []stdjson.RawMessage{r.BestRoute}
	}},
	{name: "quotes", entries: func(r entity.ProviderResponse) []stdjson.RawMessage { return r.Quotes }},
}

// NormalizeRoutes turns a decoded provider response into an ordered, non-empty candidate list.
// Provider order is preserved. Entries that are not JSON objects are skipped.
func NormalizeRoutes(resp entity.ProviderResponse) ([]entity.RouteCandidate, error) {
	for _, shape := range responseShapes {
		entries := shape.entries(resp)
		if len(entries) == 0 {
			continue
		}
		candidates := make([]entity.RouteCandidate, 0, len(entries))
		for _, raw := range entries {
			c, ok := toCandidate(raw)
			if !ok {
				continue
			}
			candidates = append(candidates, c)
		}
		if len(candidates) > 0 {
			return candidates, nil
		}
	}
	return nil, fmt.Errorf("%w: no usable candidate in any response shape", entity.ErrNoRoutes)
}

func toCandidate(raw stdjson.RawMessage) (entity.RouteCandidate, bool) {
	var obj map[string]jsoniter.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
		return entity.RouteCandidate{}, false
	}

	c := entity.RouteCandidate{
		ProviderLabel:    stringField(obj, labelFields...),
		EstimatedSeconds: entity.UnknownEstimate,
		FeeEstimateUSD:   entity.UnknownEstimate,
		Raw:              append(stdjson.RawMessage(nil), raw...),
	}
	if secs, ok := numberField(obj, secondsFields...); ok {
		c.EstimatedSeconds = secs
	} else if mins, ok := numberField(obj, minutesFields...); ok {
		c.EstimatedSeconds = mins * 60
	}
	if fee, ok := numberField(obj, feeUSDFields...); ok {
		c.FeeEstimateUSD = fee
	}
	if v, ok := integerField(obj, netAmtFields...); ok {
		c.NetAmountSmallest = entity.SmallestUnitAmount{Value: v}
	}

	// an object with none of the known fields is not a route
	if c.ProviderLabel == "" && !c.HasTimeEstimate() && !c.HasFeeEstimate() && c.NetAmountSmallest.Value == nil {
		return entity.RouteCandidate{}, false
	}
	return c, true
}

func stringField(obj map[string]jsoniter.RawMessage, keys ...string) string {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// numberField accepts a JSON number or a numeric string. Negative and non-finite values are ignored.
func numberField(obj map[string]jsoniter.RawMessage, keys ...string) (float64, bool) {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok || string(raw) == "null" {
			continue
		}
		var f float64
		if err := json.Unmarshal(raw, &f); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				continue
			}
			if f, err = strconv.ParseFloat(strings.TrimSpace(s), 64); err != nil {
				continue
			}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			continue
		}
		return f, true
	}
	return 0, false
}

// integerField reads a non-negative base-10 integer given as a JSON string or number, without float rounding.
func integerField(obj map[string]jsoniter.RawMessage, keys ...string) (*big.Int, bool) {
	for _, k := range keys {
		raw, ok := obj[k]
		if !ok {
			continue
		}
		text := strings.TrimSpace(string(raw))
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			text = strings.TrimSpace(s)
		}
		v, ok := new(big.Int).SetString(text, 10)
		if !ok || v.Sign() < 0 {
			continue
		}
		return v, true
	}
	return nil, false
}
