package network

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cyphera/delegation-server/internal/secrets"
)

// ErrConfiguration indicates that credentials or the chain/network mapping
// could not be resolved. Requests failing here never reach the chain.
var ErrConfiguration = errors.New("network configuration error")

const (
	rpcProviderHost = "infura.io"
	bundlerHost     = "api.pimlico.io"
)

// Config holds the per-network endpoints a redemption needs. Derived
// deterministically per call; never persisted.
type Config struct {
	ChainID     uint32
	NetworkName string
	RPCURL      string
	BundlerURL  string
}

// Resolver maps a chain ID and human network name onto provider endpoints.
// API keys come from the secrets store; resolved configs are cached with a
// short TTL since keys rotate rarely but can rotate.
type Resolver struct {
	store  secrets.Store
	logger *zap.Logger

	rpcKeyARNEnv     string
	rpcKeyEnv        string
	bundlerKeyARNEnv string
	bundlerKeyEnv    string

	ttl   time.Duration
	mu    sync.RWMutex
	cache map[string]cacheEntry
}

type cacheEntry struct {
	config    *Config
	expiresAt time.Time
}

// ResolverParams configures a Resolver.
type ResolverParams struct {
	Store            secrets.Store
	Logger           *zap.Logger
	RPCKeyARNEnv     string
	RPCKeyEnv        string
	BundlerKeyARNEnv string
	BundlerKeyEnv    string
	TTL              time.Duration
}

// NewResolver creates a network resolver backed by the given secrets store.
func NewResolver(params ResolverParams) *Resolver {
	ttl := params.TTL
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Resolver{
		store:            params.Store,
		logger:           params.Logger,
		rpcKeyARNEnv:     params.RPCKeyARNEnv,
		rpcKeyEnv:        params.RPCKeyEnv,
		bundlerKeyARNEnv: params.BundlerKeyARNEnv,
		bundlerKeyEnv:    params.BundlerKeyEnv,
		ttl:              ttl,
		cache:            make(map[string]cacheEntry),
	}
}

// Resolve produces the RPC and bundler endpoints for the given chain.
func (r *Resolver) Resolve(ctx context.Context, chainID uint32, networkName string) (*Config, error) {
	if chainID == 0 {
		return nil, fmt.Errorf("%w: chain ID cannot be zero", ErrConfiguration)
	}
	if networkName == "" {
		return nil, fmt.Errorf("%w: network name cannot be empty", ErrConfiguration)
	}

	key := fmt.Sprintf("%d/%s", chainID, networkName)

	r.mu.RLock()
	if entry, ok := r.cache[key]; ok && time.Now().Before(entry.expiresAt) {
		r.mu.RUnlock()
		return entry.config, nil
	}
	r.mu.RUnlock()

	subdomain := NormalizeNetworkName(networkName)

	rpcKey, err := r.store.GetSecretString(ctx, r.rpcKeyARNEnv, r.rpcKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: RPC provider API key: %v", ErrConfiguration, err)
	}
	bundlerKey, err := r.store.GetSecretString(ctx, r.bundlerKeyARNEnv, r.bundlerKeyEnv)
	if err != nil {
		return nil, fmt.Errorf("%w: bundler API key: %v", ErrConfiguration, err)
	}

	config := &Config{
		ChainID:     chainID,
		NetworkName: networkName,
		RPCURL:      fmt.Sprintf("https://%s.%s/v3/%s", subdomain, rpcProviderHost, rpcKey),
		BundlerURL:  fmt.Sprintf("https://%s/v2/%d/rpc?apikey=%s", bundlerHost, chainID, bundlerKey),
	}

	r.mu.Lock()
	r.cache[key] = cacheEntry{config: config, expiresAt: time.Now().Add(r.ttl)}
	r.mu.Unlock()

	r.logger.Info("Resolved network endpoints",
		zap.Uint32("chain_id", chainID),
		zap.String("network", networkName),
		zap.String("rpc_url", RedactURL(config.RPCURL)),
		zap.String("bundler_url", RedactURL(config.BundlerURL)),
	)

	return config, nil
}

// networkSubdomains maps common network names onto the RPC provider's
// subdomain form where the generic rule does not apply.
var networkSubdomains = map[string]string{
	"ethereum":         "mainnet",
	"ethereum mainnet": "mainnet",
	"mainnet":          "mainnet",
	"sepolia":          "sepolia",
	"ethereum sepolia": "sepolia",
	"holesky":          "holesky",
	"ethereum holesky": "holesky",
}

// NormalizeNetworkName converts a human network name into the provider
// subdomain: explicit table for the common chains, otherwise lowercase with
// spaces replaced by hyphens (e.g. "Polygon Amoy" -> "polygon-amoy").
func NormalizeNetworkName(name string) string {
	lowered := strings.ToLower(strings.TrimSpace(name))
	if mapped, ok := networkSubdomains[lowered]; ok {
		return mapped
	}
	return strings.ReplaceAll(lowered, " ", "-")
}

// RedactURL strips everything past the last path separator so credentialed
// endpoint URLs can be logged.
func RedactURL(url string) string {
	if idx := strings.Index(url, "?"); idx >= 0 {
		url = url[:idx] + "?apikey=[REDACTED]"
		return url
	}
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[:idx+1] + "[REDACTED]"
	}
	return url
}
