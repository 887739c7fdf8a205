package utils

import (
	"fmt"
	"os"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// TokenFileEntry is one token in a per-network token file (data/tokens/<network>.json).
type TokenFileEntry struct {
	Symbol   string `json:"symbol"`
	Address  string `json:"address"`
	Decimals int    `json:"decimals"`
}

// LoadTokensFromJSON reads a JSON array of token entries.
func LoadTokensFromJSON(filePath string) ([]TokenFileEntry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	var tokens []TokenFileEntry
	if err := json.Unmarshal(data, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tokens from %s: %w", filePath, err)
	}
	return tokens, nil
}
