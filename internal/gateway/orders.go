package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/polymarket/go-order-utils/pkg/model"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

const zeroAddress = "0x0000000000000000000000000000000000000000"

// signedOrderJSON is the CLOB wire format for a signed order.
type signedOrderJSON struct {
	Salt          int64  `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Side          string `json:"side"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	SignatureType int    `json:"signatureType"`
	Signature     string `json:"signature"`
}

// PlaceOrder signs and submits a limit order for the given token.
// price is per share in (0,1]; size is the number of shares.
func (c *Client) PlaceOrder(ctx context.Context, tokenID, side string, price, size float64) (*types.OrderResult, error) {
	if !c.signed() {
		return nil, fmt.Errorf("place order: wallet not initialized")
	}

	if price <= 0 || size <= 0 {
		return nil, fmt.Errorf("place order: %w: price=%f size=%f", types.ErrInvalidSize, price, size)
	}

	orderData, err := c.buildOrderData(tokenID, side, price, size)
	if err != nil {
		return nil, err
	}

	signedOrder, err := c.builder.BuildSignedOrder(c.privateKey, orderData, model.CTFExchange)
	if err != nil {
		return nil, fmt.Errorf("build signed order: %w", err)
	}

	c.logger.Info("placing-order",
		zap.String("token-id", tokenID),
		zap.String("side", side),
		zap.Float64("price", price),
		zap.Float64("size", size))

	start := time.Now()
	result, err := c.submitOrder(ctx, signedOrder)
	RequestDurationSeconds.WithLabelValues("order").Observe(time.Since(start).Seconds())
	if err != nil {
		RequestErrorsTotal.WithLabelValues("order").Inc()
		return nil, fmt.Errorf("submit order: %w: %v", types.ErrGatewayUnavailable, err)
	}

	OrdersSubmittedTotal.WithLabelValues(side).Inc()

	return result, nil
}

// SellPosition sells percent of the wallet's current holding in tokenID
// at the best available bid.
func (c *Client) SellPosition(ctx context.Context, tokenID string, percent float64) (*types.SellResult, error) {
	positions, err := c.GetPositions(ctx)
	if err != nil {
		return nil, err
	}

	var held *types.VenuePosition
	for i := range positions {
		if positions[i].TokenID == tokenID {
			held = &positions[i]
			break
		}
	}

	if held == nil {
		return nil, fmt.Errorf("sell position %s: %w", tokenID, types.ErrPositionNotFound)
	}

	size := held.Size * (percent / 100)
	if size <= 0 {
		return nil, fmt.Errorf("sell position %s: %w: nothing to sell", tokenID, types.ErrInvalidSize)
	}

	book, err := c.GetOrderbook(ctx, tokenID)
	if err != nil {
		return nil, err
	}

	bidPrice, _, ok := book.BestBid()
	if !ok || bidPrice <= 0 {
		return nil, fmt.Errorf("sell position %s: %w: no bids", tokenID, types.ErrGatewayUnavailable)
	}

	result, err := c.PlaceOrder(ctx, tokenID, types.SideSell, bidPrice, size)
	if err != nil {
		return nil, err
	}

	c.logger.Info("position-sold",
		zap.String("token-id", tokenID),
		zap.Float64("percent", percent),
		zap.Float64("size", size),
		zap.Float64("price", bidPrice))

	return &types.SellResult{
		Status:  "sold",
		OrderID: result.OrderID,
		Size:    size,
	}, nil
}

// buildOrderData maps (side, price, size) onto maker/taker raw amounts.
func (c *Client) buildOrderData(tokenID, side string, price, size float64) (*model.OrderData, error) {
	var orderSide model.Side
	var makerAmount, takerAmount string

	switch side {
	case types.SideBuy:
		// Maker gives USDC, receives outcome tokens.
		orderSide = model.BUY
		makerAmount = rawAmount(price * size)
		takerAmount = rawAmount(size)
	case types.SideSell:
		// Maker gives outcome tokens, receives USDC.
		orderSide = model.SELL
		makerAmount = rawAmount(size)
		takerAmount = rawAmount(price * size)
	default:
		return nil, fmt.Errorf("unknown order side %q", side)
	}

	return &model.OrderData{
		Maker:         c.address,
		Taker:         zeroAddress,
		TokenId:       tokenID,
		MakerAmount:   makerAmount,
		TakerAmount:   takerAmount,
		Side:          orderSide,
		FeeRateBps:    "0",
		Nonce:         "0",
		Signer:        c.address,
		Expiration:    "0",
		SignatureType: model.EOA,
	}, nil
}

// submitOrder posts a signed order to the CLOB with L2 HMAC auth headers.
func (c *Client) submitOrder(ctx context.Context, order *model.SignedOrder) (*types.OrderResult, error) {
	sideStr := types.SideBuy
	if order.Side.Uint64() == uint64(model.SELL) {
		sideStr = types.SideSell
	}

	jsonOrder := signedOrderJSON{
		Salt:          order.Salt.Int64(),
		Maker:         order.Maker.Hex(),
		Signer:        order.Signer.Hex(),
		Taker:         order.Taker.Hex(),
		TokenID:       order.TokenId.String(),
		MakerAmount:   order.MakerAmount.String(),
		TakerAmount:   order.TakerAmount.String(),
		Side:          sideStr,
		Expiration:    order.Expiration.String(),
		Nonce:         order.Nonce.String(),
		FeeRateBps:    order.FeeRateBps.String(),
		SignatureType: int(order.SignatureType.Int64()),
		Signature:     "0x" + common.Bytes2Hex(order.Signature),
	}

	// "owner" is the API key, not the maker address.
	orderRequest := map[string]interface{}{
		"order":     jsonOrder,
		"owner":     c.apiKey,
		"orderType": "GTC",
	}

	reqBody, err := json.Marshal(orderRequest)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	const requestPath = "/order"

	timestamp := fmt.Sprintf("%d", time.Now().Unix())
	signature, err := c.hmacSignature(timestamp, http.MethodPost, requestPath, string(reqBody))
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.clobURL+requestPath, strings.NewReader(string(reqBody)))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("POLY_API_KEY", c.apiKey)
	req.Header.Set("POLY_SIGNATURE", signature)
	req.Header.Set("POLY_TIMESTAMP", timestamp)
	req.Header.Set("POLY_PASSPHRASE", c.passphrase)
	req.Header.Set("POLY_ADDRESS", c.address)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result types.OrderResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	return &result, nil
}

// hmacSignature computes the URL-safe base64 HMAC the CLOB expects.
func (c *Client) hmacSignature(timestamp, method, requestPath, body string) (string, error) {
	secretBytes, err := base64.URLEncoding.DecodeString(c.secret)
	if err != nil {
		return "", fmt.Errorf("decode secret: %w", err)
	}

	h := hmac.New(sha256.New, secretBytes)
	h.Write([]byte(timestamp + method + requestPath + body))

	return base64.URLEncoding.EncodeToString(h.Sum(nil)), nil
}
