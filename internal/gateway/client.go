// Package gateway is the exchange-facing client: market listings and
// orderbooks from the Gamma and CLOB APIs, signed order submission, and
// wallet balance lookups. All methods translate transport failures into
// types.ErrGatewayUnavailable so callers can degrade per cycle instead of
// aborting.
package gateway

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	json "github.com/goccy/go-json"
	"github.com/polymarket/go-order-utils/pkg/builder"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// MaxBatchSize is the maximum number of markets the Gamma API returns per
// request.
const MaxBatchSize = 100

// Client talks to the Polymarket Gamma, CLOB, and Data APIs.
type Client struct {
	gammaURL   string
	clobURL    string
	dataURL    string
	polygonRPC string

	apiKey     string
	secret     string
	passphrase string

	privateKey *ecdsa.PrivateKey
	address    string
	builder    builder.ExchangeOrderBuilder

	httpClient *http.Client
	logger     *zap.Logger
}

// Config holds gateway client configuration.
type Config struct {
	GammaURL   string
	ClobURL    string
	DataURL    string
	PolygonRPC string

	// Credentials are optional; without a private key the read-only
	// endpoints still work but order placement fails.
	PrivateKey string
	APIKey     string
	Secret     string
	Passphrase string

	Logger *zap.Logger
}

// NewClient creates a new Polymarket gateway client.
func NewClient(cfg *Config) (*Client, error) {
	c := &Client{
		gammaURL:   cfg.GammaURL,
		clobURL:    cfg.ClobURL,
		dataURL:    cfg.DataURL,
		polygonRPC: cfg.PolygonRPC,
		apiKey:     cfg.APIKey,
		secret:     cfg.Secret,
		passphrase: cfg.Passphrase,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: cfg.Logger,
	}

	if cfg.PrivateKey != "" {
		privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}

		publicKey, ok := privateKey.Public().(*ecdsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("derive public key")
		}

		c.privateKey = privateKey
		c.address = crypto.PubkeyToAddress(*publicKey).Hex()
		c.builder = builder.NewExchangeOrderBuilderImpl(big.NewInt(polygonChainID), nil)

		cfg.Logger.Info("wallet-initialized",
			zap.String("address", c.address[:10]+"..."))
	}

	return c, nil
}

// GetAddress returns the wallet address, or "" when no key is configured.
func (c *Client) GetAddress() string {
	return c.address
}

// GetMarkets fetches up to limit active markets from the Gamma API,
// newest first.
func (c *Client) GetMarkets(ctx context.Context, limit int, active bool) ([]types.Market, error) {
	if limit <= 0 || limit > MaxBatchSize {
		limit = MaxBatchSize
	}

	params := url.Values{}
	params.Add("closed", "false")
	params.Add("active", strconv.FormatBool(active))
	params.Add("limit", strconv.Itoa(limit))
	params.Add("order", "createdAt")
	params.Add("ascending", "false")

	requestURL := fmt.Sprintf("%s/markets?%s", c.gammaURL, params.Encode())

	start := time.Now()
	body, err := c.getJSON(ctx, requestURL)
	RequestDurationSeconds.WithLabelValues("markets").Observe(time.Since(start).Seconds())
	if err != nil {
		RequestErrorsTotal.WithLabelValues("markets").Inc()
		return nil, fmt.Errorf("get markets: %w: %v", types.ErrGatewayUnavailable, err)
	}

	// Gamma API returns a direct array, not wrapped in an object.
	var markets []types.Market
	err = json.Unmarshal(body, &markets)
	if err != nil {
		RequestErrorsTotal.WithLabelValues("markets").Inc()
		return nil, fmt.Errorf("decode markets: %w: %v", types.ErrGatewayUnavailable, err)
	}

	c.logger.Debug("fetched-markets", zap.Int("count", len(markets)))

	return markets, nil
}

// GetOrderbook fetches the current book for a token from the CLOB API.
func (c *Client) GetOrderbook(ctx context.Context, tokenID string) (*types.Orderbook, error) {
	params := url.Values{}
	params.Add("token_id", tokenID)

	requestURL := fmt.Sprintf("%s/book?%s", c.clobURL, params.Encode())

	start := time.Now()
	body, err := c.getJSON(ctx, requestURL)
	RequestDurationSeconds.WithLabelValues("book").Observe(time.Since(start).Seconds())
	if err != nil {
		RequestErrorsTotal.WithLabelValues("book").Inc()
		return nil, fmt.Errorf("get orderbook: %w: %v", types.ErrGatewayUnavailable, err)
	}

	var book types.Orderbook
	err = json.Unmarshal(body, &book)
	if err != nil {
		RequestErrorsTotal.WithLabelValues("book").Inc()
		return nil, fmt.Errorf("decode orderbook: %w: %v", types.ErrGatewayUnavailable, err)
	}

	return &book, nil
}

// GetPositions fetches the wallet's venue-reported positions from the
// Data API. Dust below 0.01 shares is filtered server side.
func (c *Client) GetPositions(ctx context.Context) ([]types.VenuePosition, error) {
	if c.address == "" {
		return nil, nil
	}

	requestURL := fmt.Sprintf("%s/positions?user=%s&sizeThreshold=0.01", c.dataURL, c.address)

	start := time.Now()
	body, err := c.getJSON(ctx, requestURL)
	RequestDurationSeconds.WithLabelValues("positions").Observe(time.Since(start).Seconds())
	if err != nil {
		RequestErrorsTotal.WithLabelValues("positions").Inc()
		return nil, fmt.Errorf("get positions: %w: %v", types.ErrGatewayUnavailable, err)
	}

	var positions []types.VenuePosition
	err = json.Unmarshal(body, &positions)
	if err != nil {
		RequestErrorsTotal.WithLabelValues("positions").Inc()
		return nil, fmt.Errorf("decode positions: %w: %v", types.ErrGatewayUnavailable, err)
	}

	held := make([]types.VenuePosition, 0, len(positions))
	for _, pos := range positions {
		if pos.Size > 0 {
			held = append(held, pos)
		}
	}

	return held, nil
}

// getJSON performs a GET request and returns the raw body.
func (c *Client) getJSON(ctx context.Context, requestURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "betzbotz/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	return body, nil
}

const polygonChainID = 137

// signed reports whether the client can sign and submit orders.
func (c *Client) signed() bool {
	return c.privateKey != nil && c.builder != nil
}

// Side order for model.OrderData amounts: BUY gives USDC for tokens,
// SELL gives tokens for USDC. Both legs use 6-decimal raw units.
func rawAmount(value float64) string {
	return strconv.FormatInt(int64(value*1e6), 10)
}
