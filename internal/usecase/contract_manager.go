package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// DefaultFeeBuffer is the percentage added on top of the suggested fee
const DefaultFeeBuffer = 20

// ContractManager resolves, deploys, queries and invokes contracts on the
// active network through a single signer.
type ContractManager struct {
	config    *config.RuntimeConfig
	client    ChainClient
	accounts  AccountFactory
	artifacts ArtifactRepository
	ledger    AddressLedger
	sink      ProgressSink
	log       *slog.Logger

	mu      sync.Mutex
	account Account
}

// NewContractManager creates a new ContractManager
func NewContractManager(
	cfg *config.RuntimeConfig,
	client ChainClient,
	accounts AccountFactory,
	artifacts ArtifactRepository,
	ledger AddressLedger,
	sink ProgressSink,
	log *slog.Logger,
) *ContractManager {
	if log == nil {
		log = slog.Default()
	}
	return &ContractManager{
		config:    cfg,
		client:    client,
		accounts:  accounts,
		artifacts: artifacts,
		ledger:    ledger,
		sink:      sink,
		log:       log.With("component", "contract-manager"),
	}
}

// AccountChoice selects the signer for UpdateAccount: either a live
// account or an index into the active network's credentials.
type AccountChoice struct {
	account Account
	index   int
}

// UseAccount selects an already constructed account
func UseAccount(account Account) AccountChoice {
	return AccountChoice{account: account}
}

// AccountAt selects the configured credential at index
func AccountAt(index int) AccountChoice {
	return AccountChoice{index: index}
}

// UpdateAccount replaces the active signer. Subsequent operations use the new account.
func (m *ContractManager) UpdateAccount(ctx context.Context, choice AccountChoice) (Account, error) {
	account := choice.account
	if account == nil {
		var err error
		account, err = m.loadAccount(ctx, choice.index)
		if err != nil {
			return nil, err
		}
	}

	m.mu.Lock()
	m.account = account
	m.mu.Unlock()

	m.log.Debug("active account updated", "address", account.Address())
	return account, nil
}

// Account returns the active signer, loading the configured account on first use
func (m *ContractManager) Account(ctx context.Context) (Account, error) {
	m.mu.Lock()
	account := m.account
	m.mu.Unlock()
	if account != nil {
		return account, nil
	}
	return m.UpdateAccount(ctx, AccountAt(m.config.AccountIndex))
}

// Credentials lists the signer credentials configured for the active network
func (m *ContractManager) Credentials() ([]models.AccountCredential, error) {
	network := m.config.Network
	if network == nil {
		return nil, domain.ErrNetworkNotFound
	}
	creds := make([]models.AccountCredential, 0, len(network.Accounts))
	for i, key := range network.Accounts {
		cred := models.AccountCredential{Index: i, PrivateKey: key}
		if i < len(network.Addresses) {
			cred.Address = network.Addresses[i]
		}
		creds = append(creds, cred)
	}
	return creds, nil
}

func (m *ContractManager) loadAccount(ctx context.Context, index int) (Account, error) {
	network := m.config.Network
	if network == nil {
		return nil, domain.ErrNetworkNotFound
	}

	if index < 0 || index >= len(network.Accounts) {
		return nil, &domain.InvalidAccountIndexError{
			Index:   index,
			Count:   len(network.Accounts),
			Network: network.Name,
		}
	}
	if strings.TrimSpace(network.Accounts[index]) == "" {
		return nil, &domain.MissingCredentialError{Index: index, Network: network.Name, Field: "private key"}
	}
	if index >= len(network.Addresses) || strings.TrimSpace(network.Addresses[index]) == "" {
		return nil, &domain.MissingCredentialError{Index: index, Network: network.Name, Field: "address"}
	}

	return m.accounts.NewAccount(ctx, models.AccountCredential{
		Index:      index,
		Address:    network.Addresses[index],
		PrivateKey: network.Accounts[index],
	})
}

// GetABI returns the ABI of a compiled contract artifact
func (m *ContractManager) GetABI(ctx context.Context, contractName string) (models.ABI, error) {
	compiled, err := m.artifacts.GetCompiledCode(ctx, contractName)
	if err != nil {
		return nil, err
	}
	return compiled.ABI, nil
}

// DeployContract declares and deploys a compiled contract with a random salt,
// then records its address in the ledger of the active network.
func (m *ContractManager) DeployContract(ctx context.Context, deployment models.DeploymentConfig) (*models.Deployment, error) {
	name := deployment.ContractName
	m.sink.Info(fmt.Sprintf("Deploying contract: %s, with initial args: %s", name, formatArgs(deployment.ConstructorArgs)))

	result, err := m.deploy(ctx, deployment)
	if err != nil {
		m.log.Error("deployment failed", "contract", name, "error", err)
		m.sink.Error(fmt.Sprintf("Failed to deploy %s contract", name))
		return nil, &domain.DeploymentFailedError{Contract: name, Err: err}
	}

	network := m.config.Network
	deployed := &models.Deployment{
		ContractName: name,
		Network:      m.config.NetworkName(),
		ClassHash:    result.ClassHash,
		Address:      result.Address,
		TxHash:       result.DeployTxHash,
		ExplorerURL:  network.ContractURL(models.NormalizeAddress(result.Address)),
	}

	m.sink.Success(fmt.Sprintf("%s contract deployed at address %s", name, models.NormalizeAddress(deployed.Address)))
	m.sink.Info(fmt.Sprintf("Class hash: %s", deployed.ClassHash))
	m.sink.Info(fmt.Sprintf("Transaction: %s", network.TxURL(deployed.TxHash)))
	m.log.Info("contract deployed",
		"contract", name,
		"network", deployed.Network,
		"address", deployed.Address,
		"class_hash", deployed.ClassHash,
		"tx", deployed.TxHash,
	)

	if err := m.ledger.Save(ctx, name, deployed.Address, deployed.Network); err != nil {
		m.log.Error("failed to record deployment", "contract", name, "error", err)
		return deployed, err
	}
	return deployed, nil
}

func (m *ContractManager) deploy(ctx context.Context, deployment models.DeploymentConfig) (*models.DeclareDeployResult, error) {
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}

	compiled, err := m.artifacts.GetCompiledCode(ctx, deployment.ContractName)
	if err != nil {
		return nil, err
	}

	var calldata []string
	if deployment.ConstructorArgs != nil {
		calldata, err = m.client.CompileCalldata(compiled.ABI, models.ABITypeConstructor, deployment.ConstructorArgs)
		if err != nil {
			return nil, fmt.Errorf("failed to compile constructor calldata: %w", err)
		}
	}

	salt, err := randomSalt()
	if err != nil {
		return nil, err
	}

	m.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "deploying",
		Message: fmt.Sprintf("Declaring and deploying %s", deployment.ContractName),
		Spinner: true,
	})
	return account.DeclareAndDeploy(ctx, models.DeclareDeployRequest{
		Sierra:              compiled.Sierra,
		Casm:                compiled.Casm,
		ConstructorCalldata: calldata,
		Salt:                salt,
		FinalityTimeout:     m.config.FinalityTimeout,
	})
}

// randomSalt returns a random felt below 2^248
func randomSalt() (string, error) {
	buf := make([]byte, 31)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate deployment salt: %w", err)
	}
	return "0x" + hex.EncodeToString(buf), nil
}

// ResolveContract turns a reference into a contract handle bound to the active
// account. Handles are returned as is; addresses are resolved through the
// chain and names through the address ledger of the active network.
func (m *ContractManager) ResolveContract(ctx context.Context, ref models.ContractRef) (*models.Contract, error) {
	switch ref.Kind() {
	case models.RefHandle:
		if ref.Handle() == nil {
			return nil, fmt.Errorf("nil contract handle")
		}
		return ref.Handle(), nil
	case models.RefAddress:
		return m.connectToAddress(ctx, "", ref.Address())
	default:
		return m.connectByName(ctx, ref.Name())
	}
}

func (m *ContractManager) connectByName(ctx context.Context, name string) (*models.Contract, error) {
	network := m.config.NetworkName()
	address, ok, err := m.ledger.Fetch(ctx, name, network)
	if err != nil {
		return nil, err
	}
	if !ok {
		m.log.Error("contract not deployed", "contract", name, "network", network)
		return nil, &domain.ContractNotDeployedError{Contract: name, Network: network}
	}

	// Named contracts use the ABI of the local artifact
	abi, err := m.GetABI(ctx, name)
	if err != nil {
		m.log.Error("failed to load contract abi", "contract", name, "error", err)
		return nil, err
	}

	contract := m.bind(models.NewContract(name, models.NormalizeAddress(address), abi))
	m.sink.Info(fmt.Sprintf("Connected to %s contract with address %s", name, contract.Address))
	return contract, nil
}

func (m *ContractManager) connectToAddress(ctx context.Context, name, address string) (*models.Contract, error) {
	address = models.NormalizeAddress(address)
	raw, err := m.client.ClassAt(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch class at %s: %w", address, err)
	}

	abi, err := models.ParseABI(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI of %s: %w", address, err)
	}
	if len(abi) == 0 {
		m.log.Error("no ABI found", "address", address)
		return nil, &domain.AbiNotFoundError{Address: address}
	}

	return m.bind(models.NewContract(name, address, abi)), nil
}

// bind records the active signer on the handle when one is loaded
func (m *ContractManager) bind(contract *models.Contract) *models.Contract {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.account != nil {
		contract.Account = m.account.Address()
	}
	return contract
}

// ValidateFunctionExists checks that the contract ABI declares fn
func (m *ContractManager) ValidateFunctionExists(contract *models.Contract, fn string) error {
	if contract.HasFunction(fn) {
		return nil
	}
	m.log.Error("function not found", "contract", contract.DisplayName(), "function", fn)
	return &domain.FunctionNotFoundError{Contract: contract.DisplayName(), Function: fn}
}

// QueryContract calls a read-only function and returns the raw result felts
func (m *ContractManager) QueryContract(ctx context.Context, ref models.ContractRef, fn string, args []any) ([]string, error) {
	contract, err := m.ResolveContract(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := m.ValidateFunctionExists(contract, fn); err != nil {
		return nil, err
	}

	calldata, err := m.client.CompileCalldata(contract.ABI, fn, args)
	if err != nil {
		return nil, &domain.CallFailedError{Contract: contract.DisplayName(), Function: fn, Err: err}
	}

	result, err := m.client.Call(ctx, models.FunctionCall{
		ContractAddress: contract.Address,
		Function:        fn,
		Calldata:        calldata,
	})
	if err != nil {
		m.log.Error("call failed", "contract", contract.DisplayName(), "function", fn, "error", err)
		return nil, &domain.CallFailedError{Contract: contract.DisplayName(), Function: fn, Err: err}
	}
	return result, nil
}

// InvokeOptions configures InvokeContract
type InvokeOptions struct {
	BufferPercentage int
}

// InvokeOption mutates InvokeOptions
type InvokeOption func(*InvokeOptions)

// WithFeeBuffer overrides the fee buffer percentage
func WithFeeBuffer(percentage int) InvokeOption {
	return func(o *InvokeOptions) {
		o.BufferPercentage = percentage
	}
}

// InvokeContract submits a state-changing call with a buffered max fee and
// waits for its receipt. The transaction hash is returned only on success.
func (m *ContractManager) InvokeContract(ctx context.Context, ref models.ContractRef, fn string, args []any, opts ...InvokeOption) (string, error) {
	options := InvokeOptions{BufferPercentage: DefaultFeeBuffer}
	for _, opt := range opts {
		opt(&options)
	}
	if options.BufferPercentage < 0 {
		return "", fmt.Errorf("fee buffer percentage must not be negative, got %d", options.BufferPercentage)
	}

	contract, err := m.ResolveContract(ctx, ref)
	if err != nil {
		return "", err
	}
	account, err := m.Account(ctx)
	if err != nil {
		return "", err
	}
	contract.Account = account.Address()

	if err := m.ValidateFunctionExists(contract, fn); err != nil {
		return "", err
	}

	calldata, err := m.client.CompileCalldata(contract.ABI, fn, args)
	if err != nil {
		return "", fmt.Errorf("failed to compile calldata for %s: %w", fn, err)
	}
	call := models.FunctionCall{
		ContractAddress: contract.Address,
		Function:        fn,
		Calldata:        calldata,
	}

	fee, err := m.estimate(ctx, account, call, options.BufferPercentage)
	if err != nil {
		return "", err
	}

	m.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "invoking",
		Message: fmt.Sprintf("Invoking %s on %s", fn, contract.DisplayName()),
		Spinner: true,
	})
	txHash, err := account.Invoke(ctx, call, fee.MaxFee)
	if err != nil {
		m.log.Error("invoke failed", "contract", contract.DisplayName(), "function", fn, "error", err)
		return "", fmt.Errorf("failed to submit %s: %w", fn, err)
	}
	m.log.Debug("transaction submitted", "function", fn, "tx", txHash, "max_fee", fee.MaxFee.String())

	receipt, err := m.waitForReceipt(ctx, account, txHash)
	if err != nil {
		return "", err
	}
	if err := m.HandleReceipt(fn, receipt); err != nil {
		return "", err
	}
	return txHash, nil
}

// EstimateMaxFee returns the suggested fee of calling fn with calldata plus bufferPercentage
func (m *ContractManager) EstimateMaxFee(ctx context.Context, ref models.ContractRef, fn string, calldata []string, bufferPercentage int) (*models.FeeEstimate, error) {
	if bufferPercentage < 0 {
		return nil, fmt.Errorf("fee buffer percentage must not be negative, got %d", bufferPercentage)
	}
	contract, err := m.ResolveContract(ctx, ref)
	if err != nil {
		return nil, err
	}
	account, err := m.Account(ctx)
	if err != nil {
		return nil, err
	}
	return m.estimate(ctx, account, models.FunctionCall{
		ContractAddress: contract.Address,
		Function:        fn,
		Calldata:        calldata,
	}, bufferPercentage)
}

func (m *ContractManager) estimate(ctx context.Context, account Account, call models.FunctionCall, bufferPercentage int) (*models.FeeEstimate, error) {
	suggested, err := account.EstimateInvokeFee(ctx, call)
	if err != nil {
		return nil, fmt.Errorf("failed to estimate fee for %s: %w", call.Function, err)
	}
	estimate := &models.FeeEstimate{
		Suggested: suggested,
		MaxFee:    BufferedMaxFee(suggested, bufferPercentage),
		Buffer:    bufferPercentage,
	}
	m.sink.Info(fmt.Sprintf("Suggested max fee: %s", suggested.String()))
	m.sink.Info(fmt.Sprintf("Max fee with %d%% buffer: %s", bufferPercentage, estimate.MaxFee.String()))
	m.log.Debug("fee estimated",
		"function", call.Function,
		"suggested", suggested.String(),
		"max_fee", estimate.MaxFee.String(),
		"buffer", bufferPercentage,
	)
	return estimate, nil
}

// BufferedMaxFee returns suggested * (100 + bufferPercentage) / 100 using integer division
func BufferedMaxFee(suggested *big.Int, bufferPercentage int) *big.Int {
	if suggested == nil {
		return new(big.Int)
	}
	fee := new(big.Int).Mul(suggested, big.NewInt(int64(100+bufferPercentage)))
	return fee.Quo(fee, big.NewInt(100))
}

func (m *ContractManager) waitForReceipt(ctx context.Context, account Account, txHash string) (*models.TransactionReceipt, error) {
	waitCtx := ctx
	if m.config.FinalityTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, m.config.FinalityTimeout)
		defer cancel()
	}

	m.sink.OnProgress(ctx, ProgressEvent{
		Stage:   "waiting",
		Message: fmt.Sprintf("Waiting for transaction %s", txHash),
		Spinner: true,
	})
	receipt, err := account.WaitForReceipt(waitCtx, txHash)
	if err != nil {
		if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			m.log.Error("transaction did not reach finality", "tx", txHash, "timeout", m.config.FinalityTimeout)
			return nil, &domain.FinalityTimeoutError{TxHash: txHash, Timeout: m.config.FinalityTimeout.String()}
		}
		return nil, fmt.Errorf("failed to wait for transaction %s: %w", txHash, err)
	}
	return receipt, nil
}

// HandleReceipt classifies a receipt. Success is reported and returns nil;
// every other outcome is logged and returned as a typed error.
func (m *ContractManager) HandleReceipt(operation string, receipt *models.TransactionReceipt) error {
	var hash string
	if receipt != nil {
		hash = receipt.Hash
	}

	switch receipt.Outcome() {
	case models.ReceiptSuccess:
		m.sink.Success(fmt.Sprintf("%s transaction succeeded", operation))
		m.sink.Info(fmt.Sprintf("Transaction: %s", m.config.Network.TxURL(hash)))
		return nil
	case models.ReceiptReverted:
		m.log.Error("transaction reverted", "operation", operation, "tx", hash, "reason", receipt.RevertReason)
		m.sink.Error(fmt.Sprintf("%s transaction reverted: %s", operation, receipt.RevertReason))
		return &domain.TransactionRevertedError{Operation: operation, TxHash: hash, Reason: receipt.RevertReason}
	case models.ReceiptRejected:
		m.log.Error("transaction rejected", "operation", operation, "tx", hash, "status", receipt.Status())
		m.sink.Error(fmt.Sprintf("%s transaction rejected with status: %s", operation, receipt.Status()))
		return &domain.TransactionRejectedError{Operation: operation, TxHash: hash, Status: receipt.Status()}
	default:
		m.log.Error("transaction failed", "operation", operation, "tx", hash)
		m.sink.Error(fmt.Sprintf("%s transaction failed with unknown error", operation))
		return &domain.UnknownTransactionFailureError{Operation: operation, TxHash: hash}
	}
}

func formatArgs(args []any) string {
	if len(args) == 0 {
		return "[]"
	}
	parts := make([]string, len(args))
	for i, arg := range args {
		parts[i] = fmt.Sprintf("%v", arg)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
