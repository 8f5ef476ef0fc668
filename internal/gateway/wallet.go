package gateway

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// USDC.e on Polygon, the CLOB's collateral token.
const polygonUSDC = "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174"

const balanceOfABI = `[{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"}]`

// GetBalance returns the wallet's on-chain USDC balance in whole dollars.
// Returns 0 when no wallet is configured.
func (c *Client) GetBalance(ctx context.Context) (float64, error) {
	if c.address == "" {
		return 0, nil
	}

	client, err := ethclient.DialContext(ctx, c.polygonRPC)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w: dial RPC: %v", types.ErrGatewayUnavailable, err)
	}
	defer client.Close()

	parsedABI, err := abi.JSON(strings.NewReader(balanceOfABI))
	if err != nil {
		return 0, fmt.Errorf("parse ABI: %w", err)
	}

	data, err := parsedABI.Pack("balanceOf", common.HexToAddress(c.address))
	if err != nil {
		return 0, fmt.Errorf("pack ABI: %w", err)
	}

	tokenAddress := common.HexToAddress(polygonUSDC)
	msg := ethereum.CallMsg{
		To:   &tokenAddress,
		Data: data,
	}

	result, err := client.CallContract(ctx, msg, nil)
	if err != nil {
		return 0, fmt.Errorf("get balance: %w: call contract: %v", types.ErrGatewayUnavailable, err)
	}

	raw := new(big.Int).SetBytes(result)

	// USDC has 6 decimals.
	balance, _ := new(big.Float).Quo(
		new(big.Float).SetInt(raw),
		big.NewFloat(1e6),
	).Float64()

	return balance, nil
}
