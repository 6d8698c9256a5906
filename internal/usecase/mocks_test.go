package usecase_test

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	mock.Mock
}

func (m *MockChainClient) ClassAt(ctx context.Context, address string) ([]byte, error) {
	args := m.Called(ctx, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockChainClient) Call(ctx context.Context, call models.FunctionCall) ([]string, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockChainClient) CompileCalldata(abi models.ABI, function string, callArgs []any) ([]string, error) {
	args := m.Called(abi, function, callArgs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAccount is a mock implementation of Account
type MockAccount struct {
	mock.Mock
	address string
}

func NewMockAccount(address string) *MockAccount {
	return &MockAccount{address: address}
}

func (m *MockAccount) Address() string {
	return m.address
}

func (m *MockAccount) EstimateInvokeFee(ctx context.Context, call models.FunctionCall) (*big.Int, error) {
	args := m.Called(ctx, call)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*big.Int), args.Error(1)
}

func (m *MockAccount) Invoke(ctx context.Context, call models.FunctionCall, maxFee *big.Int) (string, error) {
	args := m.Called(ctx, call, maxFee)
	return args.String(0), args.Error(1)
}

func (m *MockAccount) DeclareAndDeploy(ctx context.Context, req models.DeclareDeployRequest) (*models.DeclareDeployResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DeclareDeployResult), args.Error(1)
}

func (m *MockAccount) WaitForReceipt(ctx context.Context, txHash string) (*models.TransactionReceipt, error) {
	args := m.Called(ctx, txHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TransactionReceipt), args.Error(1)
}

// MockAccountFactory is a mock implementation of AccountFactory
type MockAccountFactory struct {
	mock.Mock
}

func (m *MockAccountFactory) NewAccount(ctx context.Context, credential models.AccountCredential) (usecase.Account, error) {
	args := m.Called(ctx, credential)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(usecase.Account), args.Error(1)
}

// MockArtifactRepository is a mock implementation of ArtifactRepository
type MockArtifactRepository struct {
	mock.Mock
}

func (m *MockArtifactRepository) GetCompiledCode(ctx context.Context, contractName string) (*models.CompiledContract, error) {
	args := m.Called(ctx, contractName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CompiledContract), args.Error(1)
}

func (m *MockArtifactRepository) ListContracts(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockAddressLedger is a mock implementation of AddressLedger
type MockAddressLedger struct {
	mock.Mock
}

func (m *MockAddressLedger) GetPath(network string) string {
	args := m.Called(network)
	return args.String(0)
}

func (m *MockAddressLedger) Fetch(ctx context.Context, contractName, network string) (string, bool, error) {
	args := m.Called(ctx, contractName, network)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockAddressLedger) Save(ctx context.Context, contractName, address, network string) error {
	args := m.Called(ctx, contractName, address, network)
	return args.Error(0)
}

func (m *MockAddressLedger) List(ctx context.Context, network string) ([]models.LedgerEntry, error) {
	args := m.Called(ctx, network)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.LedgerEntry), args.Error(1)
}

// memoryLedger is an in-memory AddressLedger
type memoryLedger struct {
	mu      sync.Mutex
	entries map[string]map[string]string
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{entries: make(map[string]map[string]string)}
}

func (l *memoryLedger) GetPath(network string) string {
	return network + "/deployed_contract_addresses.json"
}

func (l *memoryLedger) Fetch(_ context.Context, contractName, network string) (string, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	address, ok := l.entries[network][contractName]
	return address, ok, nil
}

func (l *memoryLedger) Save(_ context.Context, contractName, address, network string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.entries[network] == nil {
		l.entries[network] = make(map[string]string)
	}
	l.entries[network][contractName] = address
	return nil
}

func (l *memoryLedger) List(_ context.Context, network string) ([]models.LedgerEntry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var entries []models.LedgerEntry
	for name, address := range l.entries[network] {
		entries = append(entries, models.LedgerEntry{ContractName: name, Address: address})
	}
	return entries, nil
}

// recordingSink collects everything reported to the user
type recordingSink struct {
	mu       sync.Mutex
	events   []usecase.ProgressEvent
	infos    []string
	warnings []string
	success  []string
	errors   []string
}

func (s *recordingSink) OnProgress(_ context.Context, event usecase.ProgressEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) Info(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.infos = append(s.infos, message)
}

func (s *recordingSink) Warn(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.warnings = append(s.warnings, message)
}

func (s *recordingSink) Success(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.success = append(s.success, message)
}

func (s *recordingSink) Error(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, message)
}

// memoryFiles is an in-memory FileWriter
type memoryFiles struct {
	mu    sync.Mutex
	files map[string]string
	dirs  map[string]bool
}

func newMemoryFiles() *memoryFiles {
	return &memoryFiles{files: make(map[string]string), dirs: make(map[string]bool)}
}

func (f *memoryFiles) WriteFile(_ context.Context, path string, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files[path] = content
	return nil
}

func (f *memoryFiles) FileExists(_ context.Context, path string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.files[path]; ok {
		return true, nil
	}
	return f.dirs[path], nil
}

func (f *memoryFiles) EnsureDirectory(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[path] = true
	return nil
}

func (f *memoryFiles) paths(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for path := range f.files {
		if strings.HasPrefix(path, prefix) {
			out = append(out, path)
		}
	}
	return out
}

// MockConfigWriter is a mock implementation of ConfigWriter
type MockConfigWriter struct {
	mock.Mock
}

func (m *MockConfigWriter) WriteDefault(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

// MockNetworkProber is a mock implementation of NetworkProber
type MockNetworkProber struct {
	mock.Mock
}

func (m *MockNetworkProber) ChainID(ctx context.Context, rpcURL string) (string, error) {
	args := m.Called(ctx, rpcURL)
	return args.String(0), args.Error(1)
}

// MockAccountSelector is a mock implementation of AccountSelector
type MockAccountSelector struct {
	mock.Mock
}

func (m *MockAccountSelector) SelectAccount(ctx context.Context, accounts []models.AccountCredential, prompt string) (int, error) {
	args := m.Called(ctx, accounts, prompt)
	return args.Int(0), args.Error(1)
}

// memoryLocalConfig is an in-memory LocalConfigRepository
type memoryLocalConfig struct {
	saved *config.LocalConfig
}

func (s *memoryLocalConfig) Exists() bool { return s.saved != nil }

func (s *memoryLocalConfig) Load(context.Context) (*config.LocalConfig, error) {
	if s.saved == nil {
		return config.DefaultLocalConfig(), nil
	}
	copied := *s.saved
	return &copied, nil
}

func (s *memoryLocalConfig) Save(_ context.Context, cfg *config.LocalConfig) error {
	copied := *cfg
	s.saved = &copied
	return nil
}

func (s *memoryLocalConfig) GetPath() string { return ".starknet-deploy/config.local.json" }
