package starknet

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"
	"github.com/samber/lo"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// Accounts are Cairo 1 contracts
const cairoVersion = 2

const defaultPollInterval = 5 * time.Second

// Client talks to the RPC endpoint of the active network. The provider is
// created on first use so commands that never reach the chain need no RPC URL.
type Client struct {
	network      *config.Network
	pollInterval time.Duration
	calldata     Calldata
	log          *slog.Logger

	once     sync.Once
	provider *rpc.Provider
	err      error
}

// NewClient creates a client for the active network of cfg
func NewClient(cfg *config.RuntimeConfig, log *slog.Logger) *Client {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = defaultPollInterval
	}
	return &Client{
		network:      cfg.Network,
		pollInterval: poll,
		log:          log.With("component", "starknet"),
	}
}

// Provider returns the RPC provider, dialing it on first use
func (c *Client) Provider() (*rpc.Provider, error) {
	c.once.Do(func() {
		if c.network == nil {
			c.err = domain.ErrNetworkNotFound
			return
		}
		if c.network.RPCURL == "" {
			c.err = fmt.Errorf("no rpc_url configured for network %s", c.network.Name)
			return
		}
		c.log.Debug("connecting to rpc", "network", c.network.Name, "url", c.network.RPCURL)
		c.provider, c.err = rpc.NewProvider(c.network.RPCURL)
		if c.err != nil {
			c.err = fmt.Errorf("failed to connect to %s: %w", c.network.RPCURL, c.err)
		}
	})
	return c.provider, c.err
}

// ClassAt returns the raw ABI of the class deployed at address
func (c *Client) ClassAt(ctx context.Context, address string) ([]byte, error) {
	provider, err := c.Provider()
	if err != nil {
		return nil, err
	}
	addr, err := utils.HexToFelt(address)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", address, err)
	}

	class, err := provider.ClassAt(ctx, rpc.WithBlockTag("latest"), addr)
	if err != nil {
		return nil, err
	}

	// Sierra and deprecated classes both carry their ABI under "abi"
	raw, err := json.Marshal(class)
	if err != nil {
		return nil, fmt.Errorf("failed to encode class: %w", err)
	}
	var out struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode class: %w", err)
	}
	return out.ABI, nil
}

// Call executes a read-only call against the latest block
func (c *Client) Call(ctx context.Context, call models.FunctionCall) ([]string, error) {
	provider, err := c.Provider()
	if err != nil {
		return nil, err
	}
	addr, err := utils.HexToFelt(call.ContractAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid address %s: %w", call.ContractAddress, err)
	}
	calldata, err := feltsFromHex(call.Calldata)
	if err != nil {
		return nil, err
	}

	result, err := provider.Call(ctx, rpc.FunctionCall{
		ContractAddress:    addr,
		EntryPointSelector: utils.GetSelectorFromNameFelt(call.Function),
		Calldata:           calldata,
	}, rpc.WithBlockTag("latest"))
	if err != nil {
		return nil, err
	}
	return lo.Map(result, func(f *felt.Felt, _ int) string { return f.String() }), nil
}

// CompileCalldata encodes args against the ABI
func (c *Client) CompileCalldata(abi models.ABI, function string, args []any) ([]string, error) {
	return c.calldata.Compile(abi, function, args)
}

// ChainID returns the chain id reported by the node
func (c *Client) ChainID(ctx context.Context) (string, error) {
	provider, err := c.Provider()
	if err != nil {
		return "", err
	}
	return provider.ChainID(ctx)
}

// NewAccount builds a signer for a configured credential
func (c *Client) NewAccount(ctx context.Context, credential models.AccountCredential) (usecase.Account, error) {
	provider, err := c.Provider()
	if err != nil {
		return nil, err
	}

	addr, err := utils.HexToFelt(credential.Address)
	if err != nil {
		return nil, fmt.Errorf("invalid address for account %d: %w", credential.Index, err)
	}
	key, err := parsePrivateKey(credential.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key for account %d: %w", credential.Index, err)
	}

	// The keystore is keyed by the account address
	keyID := addr.String()
	ks := account.NewMemKeystore()
	ks.Put(keyID, key)

	acc, err := account.NewAccount(provider, addr, keyID, ks, cairoVersion)
	if err != nil {
		return nil, fmt.Errorf("failed to create account %d: %w", credential.Index, err)
	}

	c.log.Debug("account loaded", "index", credential.Index, "address", addr.String())
	return &Account{
		acc:          acc,
		provider:     provider,
		address:      models.NormalizeAddress(addr.String()),
		pollInterval: c.pollInterval,
		log:          c.log.With("account", addr.String()),
	}, nil
}

func parsePrivateKey(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	base := 10
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s, base = s[2:], 16
	}
	key, ok := new(big.Int).SetString(s, base)
	if !ok || key.Sign() <= 0 {
		return nil, fmt.Errorf("not a valid key")
	}
	return key, nil
}

var (
	_ usecase.ChainClient    = (*Client)(nil)
	_ usecase.AccountFactory = (*Client)(nil)
)
