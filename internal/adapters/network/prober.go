package network

import (
	"context"
	"fmt"
	"time"
	"unicode"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

const probeTimeout = 5 * time.Second

// Prober queries Starknet JSON-RPC endpoints without an account
type Prober struct{}

// NewProber creates a new Prober
func NewProber() *Prober {
	return &Prober{}
}

// ChainID returns the chain id of the node at rpcURL, decoded to its short
// string form (SN_MAIN, SN_SEPOLIA) when printable.
func (p *Prober) ChainID(ctx context.Context, rpcURL string) (string, error) {
	if rpcURL == "" {
		return "", fmt.Errorf("no rpc url")
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	client, err := rpc.DialContext(ctx, rpcURL)
	if err != nil {
		return "", fmt.Errorf("failed to connect to RPC: %w", err)
	}
	defer client.Close()

	var chainID string
	if err := client.CallContext(ctx, &chainID, "starknet_chainId"); err != nil {
		return "", fmt.Errorf("failed to get chain ID: %w", err)
	}
	return DecodeChainID(chainID), nil
}

// DecodeChainID turns a hex encoded short string into text, returning the input otherwise
func DecodeChainID(chainID string) string {
	raw, err := hexutil.Decode(chainID)
	if err != nil || len(raw) == 0 {
		return chainID
	}
	for _, b := range raw {
		if b > unicode.MaxASCII || !unicode.IsPrint(rune(b)) {
			return chainID
		}
	}
	return string(raw)
}

var _ usecase.NetworkProber = (*Prober)(nil)
