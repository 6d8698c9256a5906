package usecase

import (
	"context"
	"math/big"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// ArtifactRepository provides access to compiled contract classes
type ArtifactRepository interface {
	GetCompiledCode(ctx context.Context, contractName string) (*models.CompiledContract, error)
	ListContracts(ctx context.Context) ([]string, error)
}

// AddressLedger persists deployed contract addresses per network
type AddressLedger interface {
	GetPath(network string) string
	Fetch(ctx context.Context, contractName, network string) (address string, ok bool, err error)
	Save(ctx context.Context, contractName, address, network string) error
	List(ctx context.Context, network string) ([]models.LedgerEntry, error)
}

// ChainClient is the read side of the Starknet SDK bound to the active network
type ChainClient interface {
	// ClassAt returns the raw ABI of the class deployed at address, or nil when the class has none
	ClassAt(ctx context.Context, address string) ([]byte, error)
	Call(ctx context.Context, call models.FunctionCall) ([]string, error)
	// CompileCalldata encodes args against the inputs of function ("constructor" for the constructor)
	CompileCalldata(abi models.ABI, function string, args []any) ([]string, error)
}

// Account is a signer bound to the chain client of the active network
type Account interface {
	Address() string
	EstimateInvokeFee(ctx context.Context, call models.FunctionCall) (*big.Int, error)
	Invoke(ctx context.Context, call models.FunctionCall, maxFee *big.Int) (txHash string, err error)
	DeclareAndDeploy(ctx context.Context, req models.DeclareDeployRequest) (*models.DeclareDeployResult, error)
	// WaitForReceipt blocks until the transaction reaches a terminal state or ctx is done
	WaitForReceipt(ctx context.Context, txHash string) (*models.TransactionReceipt, error)
}

// AccountFactory builds signers from configured credentials
type AccountFactory interface {
	NewAccount(ctx context.Context, credential models.AccountCredential) (Account, error)
}

// NetworkProber queries basic facts about an RPC endpoint
type NetworkProber interface {
	ChainID(ctx context.Context, rpcURL string) (string, error)
}

// ContractBuilder compiles the cairo project
type ContractBuilder interface {
	Build(ctx context.Context) error
}

// FileWriter handles file system operations for scaffolding
type FileWriter interface {
	WriteFile(ctx context.Context, path string, content string) error
	FileExists(ctx context.Context, path string) (bool, error)
	EnsureDirectory(ctx context.Context, path string) error
}

// ConfigWriter writes the default configuration file
type ConfigWriter interface {
	WriteDefault(ctx context.Context, path string) error
}

// LocalConfigRepository manages local configuration persistence
type LocalConfigRepository interface {
	Exists() bool
	Load(ctx context.Context) (*config.LocalConfig, error)
	Save(ctx context.Context, config *config.LocalConfig) error
	GetPath() string
}

// AccountSelector handles interactive selection of accounts
type AccountSelector interface {
	SelectAccount(ctx context.Context, accounts []models.AccountCredential, prompt string) (int, error)
}

// Progress tracking interfaces

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    string
	Message  string
	Spinner  bool
	Metadata interface{}
}

// ProgressSink receives progress events and user-facing messages
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Warn(message string)
	Success(message string)
	Error(message string)
}
