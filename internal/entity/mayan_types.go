package entity

import "encoding/json"

// MayanQuoteEnvelope is the object form of a price-API response.
// Route entries stay raw; the route normalizer extracts what it needs.
type MayanQuoteEnvelope struct {
	Routes    []json.RawMessage `json:"routes"`
	BestRoute json.RawMessage   `json:"bestRoute"`
	Quotes    []json.RawMessage `json:"quotes"`
}

// MayanErrorBody is returned by the price API with non-2xx statuses.
type MayanErrorBody struct {
	Code    string `json:"code"`
	Msg     string `json:"msg"`
	Message string `json:"message"`
}

// Text returns whichever message field is set.
func (e MayanErrorBody) Text() string {
	if e.Msg != "" {
		return e.Msg
	}
	return e.Message
}
