package starknet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/NethermindEth/juno/core/felt"
	"github.com/NethermindEth/starknet.go/account"
	"github.com/NethermindEth/starknet.go/contracts"
	"github.com/NethermindEth/starknet.go/hash"
	"github.com/NethermindEth/starknet.go/rpc"
	"github.com/NethermindEth/starknet.go/utils"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// UDCAddress is the universal deployer contract shared by all public networks
const UDCAddress = "0x041a78e741e5af2fec34b695679bc6891742439f7afb8484ecd7766661ad02bf"

// Multiplier applied to resource bounds of declare and deploy transactions
const deployFeeMultiplier = 1.5

// Account signs and submits transactions for one configured credential
type Account struct {
	acc          *account.Account
	provider     *rpc.Provider
	address      string
	pollInterval time.Duration
	log          *slog.Logger

	mu        sync.Mutex
	estimates map[string]*big.Int // last suggested fee per call
}

// Address returns the normalized account address
func (a *Account) Address() string {
	return a.address
}

// EstimateInvokeFee returns the overall fee the node suggests for call
func (a *Account) EstimateInvokeFee(ctx context.Context, call models.FunctionCall) (*big.Int, error) {
	fnCall, err := toRPCCall(call)
	if err != nil {
		return nil, err
	}

	nonce, err := a.acc.Nonce(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch nonce: %w", err)
	}
	calldata, err := a.acc.FmtCalldata([]rpc.FunctionCall{fnCall})
	if err != nil {
		return nil, fmt.Errorf("failed to format calldata: %w", err)
	}

	// The node only estimates signed transactions
	tx := utils.BuildInvokeTxn(a.acc.AccountAddress, nonce, calldata, zeroResourceBounds())
	if err := a.acc.SignInvokeTransaction(ctx, &tx.InvokeTxnV3); err != nil {
		return nil, fmt.Errorf("failed to sign estimate: %w", err)
	}

	estimates, err := a.provider.EstimateFee(ctx, []rpc.BroadcastTxn{tx}, []rpc.SimulationFlag{}, rpc.WithBlockTag("pending"))
	if err != nil {
		return nil, err
	}
	if len(estimates) == 0 {
		return nil, fmt.Errorf("node returned no fee estimate")
	}

	fee := estimates[0].OverallFee.BigInt(new(big.Int))
	a.mu.Lock()
	if a.estimates == nil {
		a.estimates = make(map[string]*big.Int)
	}
	a.estimates[callKey(call)] = fee
	a.mu.Unlock()

	a.log.Debug("estimated fee", "function", call.Function, "overall_fee", fee.String())
	return fee, nil
}

// Invoke submits call with resource bounds scaled so the overall fee stays at most maxFee
func (a *Account) Invoke(ctx context.Context, call models.FunctionCall, maxFee *big.Int) (string, error) {
	addr, err := utils.HexToFelt(call.ContractAddress)
	if err != nil {
		return "", fmt.Errorf("invalid address %s: %w", call.ContractAddress, err)
	}
	calldata, err := feltsFromHex(call.Calldata)
	if err != nil {
		return "", err
	}

	multiplier := a.multiplier(call, maxFee)
	resp, err := a.acc.BuildAndSendInvokeTxn(ctx, []rpc.InvokeFunctionCall{{
		ContractAddress: addr,
		FunctionName:    call.Function,
		CallData:        calldata,
	}}, multiplier)
	if err != nil {
		return "", err
	}

	txHash := resp.TransactionHash.String()
	a.log.Debug("invoke submitted", "function", call.Function, "tx", txHash, "multiplier", multiplier)
	return txHash, nil
}

// multiplier converts a max fee into the bound multiplier the SDK applies on its own estimate
func (a *Account) multiplier(call models.FunctionCall, maxFee *big.Int) float64 {
	a.mu.Lock()
	suggested := a.estimates[callKey(call)]
	a.mu.Unlock()

	if suggested == nil || suggested.Sign() == 0 || maxFee == nil {
		return 1.0
	}
	ratio, _ := new(big.Rat).SetFrac(maxFee, suggested).Float64()
	if ratio < 1.0 {
		return 1.0
	}
	return ratio
}

// WaitForReceipt polls until the transaction has a receipt
func (a *Account) WaitForReceipt(ctx context.Context, txHash string) (*models.TransactionReceipt, error) {
	h, err := utils.HexToFelt(txHash)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction hash %s: %w", txHash, err)
	}

	receipt, err := a.acc.WaitForTransactionReceipt(ctx, h, a.pollInterval)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(receipt)
	if err != nil {
		return nil, fmt.Errorf("failed to encode receipt: %w", err)
	}
	var out models.TransactionReceipt
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to decode receipt: %w", err)
	}
	if out.Hash == "" {
		out.Hash = txHash
	}
	return &out, nil
}

// DeclareAndDeploy declares the class unless it is already declared, then
// deploys an instance through the universal deployer.
func (a *Account) DeclareAndDeploy(ctx context.Context, req models.DeclareDeployRequest) (*models.DeclareDeployResult, error) {
	var class contracts.ContractClass
	if err := json.Unmarshal(req.Sierra, &class); err != nil {
		return nil, fmt.Errorf("failed to parse sierra class: %w", err)
	}
	var casm contracts.CasmClass
	if err := json.Unmarshal(req.Casm, &casm); err != nil {
		return nil, fmt.Errorf("failed to parse casm class: %w", err)
	}

	classHash, declareTx, err := a.declare(ctx, &class, &casm, req.FinalityTimeout)
	if err != nil {
		return nil, err
	}

	address, deployTx, err := a.deploy(ctx, classHash, req)
	if err != nil {
		return nil, err
	}

	return &models.DeclareDeployResult{
		ClassHash:     classHash.String(),
		Address:       address,
		DeclareTxHash: declareTx,
		DeployTxHash:  deployTx,
	}, nil
}

func (a *Account) declare(ctx context.Context, class *contracts.ContractClass, casm *contracts.CasmClass, timeout time.Duration) (*felt.Felt, string, error) {
	resp, err := a.acc.BuildAndSendDeclareTxn(ctx, casm, class, deployFeeMultiplier)
	if err != nil {
		if isAlreadyDeclared(err) {
			classHash := hash.ClassHash(class)
			a.log.Debug("class already declared", "class_hash", classHash.String())
			return classHash, "", nil
		}
		return nil, "", fmt.Errorf("declare failed: %w", err)
	}

	txHash := resp.TransactionHash.String()
	receipt, err := waitFinal(ctx, txHash, timeout, a.WaitForReceipt)
	if err != nil {
		return nil, "", err
	}
	if err := receiptError("declare", receipt); err != nil {
		return nil, "", err
	}

	a.log.Debug("class declared", "class_hash", resp.ClassHash.String(), "tx", txHash)
	return resp.ClassHash, txHash, nil
}

func (a *Account) deploy(ctx context.Context, classHash *felt.Felt, req models.DeclareDeployRequest) (string, string, error) {
	udc, err := utils.HexToFelt(UDCAddress)
	if err != nil {
		return "", "", err
	}
	salt, err := utils.HexToFelt(req.Salt)
	if err != nil {
		return "", "", fmt.Errorf("invalid salt %s: %w", req.Salt, err)
	}
	ctorCalldata, err := feltsFromHex(req.ConstructorCalldata)
	if err != nil {
		return "", "", err
	}

	// deployContract(class_hash, salt, unique, calldata: Span<felt252>)
	calldata := []*felt.Felt{
		classHash,
		salt,
		new(felt.Felt).SetUint64(0),
		new(felt.Felt).SetUint64(uint64(len(ctorCalldata))),
	}
	calldata = append(calldata, ctorCalldata...)

	resp, err := a.acc.BuildAndSendInvokeTxn(ctx, []rpc.InvokeFunctionCall{{
		ContractAddress: udc,
		FunctionName:    "deployContract",
		CallData:        calldata,
	}}, deployFeeMultiplier)
	if err != nil {
		return "", "", fmt.Errorf("deploy failed: %w", err)
	}

	txHash := resp.TransactionHash.String()
	receipt, err := waitFinal(ctx, txHash, req.FinalityTimeout, a.WaitForReceipt)
	if err != nil {
		return "", "", err
	}
	if err := receiptError("deploy", receipt); err != nil {
		return "", "", err
	}

	address, ok := deployedAddress(receipt)
	if !ok {
		return "", "", fmt.Errorf("no ContractDeployed event in receipt of %s", txHash)
	}
	return address, txHash, nil
}

// waitFinal waits for a receipt for at most timeout. A wait cut short by the
// timeout, rather than by ctx, is a FinalityTimeoutError.
func waitFinal(ctx context.Context, txHash string, timeout time.Duration, wait func(context.Context, string) (*models.TransactionReceipt, error)) (*models.TransactionReceipt, error) {
	if timeout <= 0 {
		return wait(ctx, txHash)
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	receipt, err := wait(waitCtx, txHash)
	if err != nil {
		if ctx.Err() == nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) {
			return nil, &domain.FinalityTimeoutError{TxHash: txHash, Timeout: timeout.String()}
		}
		return nil, err
	}
	return receipt, nil
}

// deployedAddress extracts the address from the universal deployer ContractDeployed event
func deployedAddress(receipt *models.TransactionReceipt) (string, bool) {
	selector := utils.GetSelectorFromNameFelt("ContractDeployed").String()
	udc := models.NormalizeAddress(UDCAddress)
	for _, event := range receipt.Events {
		if models.NormalizeAddress(event.FromAddress) != udc {
			continue
		}
		if len(event.Keys) == 0 || !sameFelt(event.Keys[0], selector) || len(event.Data) == 0 {
			continue
		}
		return models.NormalizeAddress(event.Data[0]), true
	}
	return "", false
}

func receiptError(operation string, receipt *models.TransactionReceipt) error {
	switch receipt.Outcome() {
	case models.ReceiptSuccess:
		return nil
	case models.ReceiptReverted:
		return &domain.TransactionRevertedError{Operation: operation, TxHash: receipt.Hash, Reason: receipt.RevertReason}
	case models.ReceiptRejected:
		return &domain.TransactionRejectedError{Operation: operation, TxHash: receipt.Hash, Status: receipt.Status()}
	default:
		return &domain.UnknownTransactionFailureError{Operation: operation, TxHash: receipt.Hash}
	}
}

func isAlreadyDeclared(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already declared")
}

func sameFelt(a, b string) bool {
	return models.NormalizeAddress(a) == models.NormalizeAddress(b)
}

func callKey(call models.FunctionCall) string {
	return call.ContractAddress + "/" + call.Function + "/" + strings.Join(call.Calldata, ",")
}

func toRPCCall(call models.FunctionCall) (rpc.FunctionCall, error) {
	addr, err := utils.HexToFelt(call.ContractAddress)
	if err != nil {
		return rpc.FunctionCall{}, fmt.Errorf("invalid address %s: %w", call.ContractAddress, err)
	}
	calldata, err := feltsFromHex(call.Calldata)
	if err != nil {
		return rpc.FunctionCall{}, err
	}
	return rpc.FunctionCall{
		ContractAddress:    addr,
		EntryPointSelector: utils.GetSelectorFromNameFelt(call.Function),
		Calldata:           calldata,
	}, nil
}

func zeroResourceBounds() rpc.ResourceBoundsMapping {
	zero := rpc.ResourceBounds{MaxAmount: "0x0", MaxPricePerUnit: "0x0"}
	return rpc.ResourceBoundsMapping{L1Gas: zero, L1DataGas: zero, L2Gas: zero}
}

var _ usecase.Account = (*Account)(nil)
