package deployments

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/samber/lo"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

const (
	DeploymentsDir = "deployments"
	LedgerFile     = "deployed_contract_addresses.json"
)

// fileLocks serializes read-modify-write per ledger file across every
// FileRepository in the process, keyed by absolute path
var fileLocks sync.Map

// FileRepository stores deployed contract addresses in one json file per network
type FileRepository struct {
	scriptsDir string
}

// NewFileRepository creates a ledger rooted at the scripts directory of the project
func NewFileRepository(cfg *config.RuntimeConfig) *FileRepository {
	return NewFileRepositoryAt(cfg.ScriptsDir())
}

// NewFileRepositoryAt creates a ledger rooted at scriptsDir
func NewFileRepositoryAt(scriptsDir string) *FileRepository {
	return &FileRepository{scriptsDir: scriptsDir}
}

// GetPath returns the ledger file of a network
func (r *FileRepository) GetPath(network string) string {
	return filepath.Join(r.scriptsDir, DeploymentsDir, network, LedgerFile)
}

// lock returns the mutex guarding one ledger file
func (r *FileRepository) lock(path string) *sync.Mutex {
	key := path
	if abs, err := filepath.Abs(path); err == nil {
		key = abs
	}
	l, _ := fileLocks.LoadOrStore(key, &sync.Mutex{})
	return l.(*sync.Mutex)
}

// Fetch returns the recorded address of a contract, creating an empty ledger if none exists
func (r *FileRepository) Fetch(ctx context.Context, contractName, network string) (string, bool, error) {
	path := r.GetPath(network)
	l := r.lock(path)
	l.Lock()
	defer l.Unlock()

	entries, err := r.load(path)
	if err != nil {
		return "", false, err
	}
	address, ok := entries[contractName]
	return address, ok, nil
}

// Save records the address of a contract, replacing any previous address
func (r *FileRepository) Save(ctx context.Context, contractName, address, network string) error {
	path := r.GetPath(network)
	l := r.lock(path)
	l.Lock()
	defer l.Unlock()

	entries, err := r.load(path)
	if err != nil {
		return err
	}
	entries[contractName] = address
	return r.saveFile(path, entries)
}

// List returns every entry of a network ledger sorted by contract name
func (r *FileRepository) List(ctx context.Context, network string) ([]models.LedgerEntry, error) {
	path := r.GetPath(network)
	l := r.lock(path)
	l.Lock()
	defer l.Unlock()

	entries, err := r.load(path)
	if err != nil {
		return nil, err
	}
	names := lo.Keys(entries)
	slices.Sort(names)
	return lo.Map(names, func(name string, _ int) models.LedgerEntry {
		return models.LedgerEntry{ContractName: name, Address: entries[name]}
	}), nil
}

// load reads a ledger file, bootstrapping it as {} when absent
func (r *FileRepository) load(path string) (map[string]string, error) {
	if err := r.ensure(path); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read ledger", Path: path, Err: err}
	}

	entries := make(map[string]string)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, &domain.PersistenceError{Op: "parse ledger", Path: path, Err: err}
	}
	return entries, nil
}

func (r *FileRepository) ensure(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return &domain.PersistenceError{Op: "stat ledger", Path: path, Err: err}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &domain.PersistenceError{Op: "create ledger directory", Path: filepath.Dir(path), Err: err}
	}
	return r.saveFile(path, map[string]string{})
}

// saveFile writes the ledger through a temp file and an atomic rename
func (r *FileRepository) saveFile(path string, entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode ledger", Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), LedgerFile+".*")
	if err != nil {
		return &domain.PersistenceError{Op: "write ledger", Path: path, Err: err}
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write ledger", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write ledger", Path: path, Err: err}
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write ledger", Path: path, Err: err}
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write ledger", Path: path, Err: err}
	}
	return nil
}

var _ usecase.AddressLedger = (*FileRepository)(nil)
