package tokenloader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"bridge_router/internal/app/port"
	"bridge_router/internal/domain/entity"
	"bridge_router/internal/pkg/utils"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentFiles = 4

// TokenFileLoader reads extra whitelist entries from <network>.json files in a directory.
type TokenFileLoader struct {
	tokenDirPath string
	networks     port.NetworkDefinitionProvider
	logger       port.Logger
}

// NewTokenLoader creates a new TokenFileLoader.
func NewTokenLoader(tokenDirPath string, networks port.NetworkDefinitionProvider, logger port.Logger) *TokenFileLoader {
	return &TokenFileLoader{
		tokenDirPath: tokenDirPath,
		networks:     networks,
		logger:       logger,
	}
}

// LoadTokens reads every token file for an active network. Files are parsed concurrently.
// Files for unknown networks and unreadable or malformed files are skipped with a warning.
// Entries inside a file are not validated here; the registry does that.
// A missing directory yields no tokens and no error.
func (l *TokenFileLoader) LoadTokens(ctx context.Context) ([]entity.TokenDescriptor, error) {
	if strings.TrimSpace(l.tokenDirPath) == "" {
		return nil, nil
	}

	files, err := os.ReadDir(l.tokenDirPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("Token directory does not exist, only built-in tokens will be available", "path", l.tokenDirPath)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read token directory %s: %w", l.tokenDirPath, err)
	}

	var (
		mu     sync.Mutex
		loaded []entity.TokenDescriptor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFiles)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(strings.ToLower(file.Name()), ".json") {
			continue
		}

		networkID := strings.ToLower(strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())))
		if _, ok := l.networks.GetNetworkDefinitionByName(networkID); !ok {
			l.logger.Info("Token file found for a non-active network, skipping.", "file", file.Name(), "network", networkID)
			continue
		}

		filePath := filepath.Join(l.tokenDirPath, file.Name())
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			entries, err := utils.LoadTokensFromJSON(filePath)
			if err != nil {
				l.logger.Warn("Failed to load token file, skipping file.", "path", filePath, "error", err)
				return nil
			}

			tokens := make([]entity.TokenDescriptor, 0, len(entries))
			for _, e := range entries {
				if e.Decimals < 0 || e.Decimals > entity.MaxTokenDecimals {
					l.logger.Warn("Token has out of range decimals, skipping token.", "path", filePath, "symbol", e.Symbol, "decimals", e.Decimals)
					continue
				}
				tokens = append(tokens, entity.TokenDescriptor{
					Network:   networkID,
					Symbol:    strings.ToUpper(strings.TrimSpace(e.Symbol)),
					OnChainID: strings.TrimSpace(e.Address),
					Decimals:  uint8(e.Decimals),
				})
			}

			mu.Lock()
			loaded = append(loaded, tokens...)
			mu.Unlock()

			l.logger.Info("Loaded tokens for network from file", "network", networkID, "file", filepath.Base(filePath), "count", len(tokens))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	// goroutines finish in any order
	sort.SliceStable(loaded, func(i, j int) bool {
		if loaded[i].Network != loaded[j].Network {
			return loaded[i].Network < loaded[j].Network
		}
		return loaded[i].Symbol < loaded[j].Symbol
	})
	return loaded, nil
}
