package contracts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

const (
	SierraSuffix = ".contract_class.json"
	CasmSuffix   = ".compiled_contract_class.json"
)

// Repository reads compiled contract classes produced by scarb
type Repository struct {
	artifactDir string
	packageName string
	log         *slog.Logger
}

// NewRepository creates a repository over the artifact directory of the project
func NewRepository(cfg *config.RuntimeConfig, log *slog.Logger) *Repository {
	return &Repository{
		artifactDir: cfg.ArtifactDir(),
		packageName: cfg.PackageName(),
		log:         log,
	}
}

// SierraPath returns the path of the sierra class of a contract
func (r *Repository) SierraPath(contractName string) string {
	return filepath.Join(r.artifactDir, r.prefix()+contractName+SierraSuffix)
}

// CasmPath returns the path of the compiled casm class of a contract
func (r *Repository) CasmPath(contractName string) string {
	return filepath.Join(r.artifactDir, r.prefix()+contractName+CasmSuffix)
}

func (r *Repository) prefix() string {
	if r.packageName == "" {
		return ""
	}
	return r.packageName + "_"
}

// GetCompiledCode reads both compiled representations of a contract
func (r *Repository) GetCompiledCode(ctx context.Context, contractName string) (*models.CompiledContract, error) {
	if strings.TrimSpace(contractName) == "" {
		return nil, fmt.Errorf("contract name is required")
	}

	var sierra, casm []byte

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sierra, err = r.readArtifact(ctx, contractName, r.SierraPath(contractName))
		return err
	})
	g.Go(func() error {
		var err error
		casm, err = r.readArtifact(ctx, contractName, r.CasmPath(contractName))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var class struct {
		ABI json.RawMessage `json:"abi"`
	}
	if err := json.Unmarshal(sierra, &class); err != nil {
		return nil, &domain.ArtifactNotFoundError{Contract: contractName, Path: r.SierraPath(contractName), Err: err}
	}
	if !json.Valid(casm) {
		return nil, &domain.ArtifactNotFoundError{Contract: contractName, Path: r.CasmPath(contractName), Err: fmt.Errorf("invalid json")}
	}
	abi, err := models.ParseABI(class.ABI)
	if err != nil {
		return nil, &domain.ArtifactNotFoundError{Contract: contractName, Path: r.SierraPath(contractName), Err: err}
	}

	r.log.Debug("loaded compiled contract", "contract", contractName, "sierra_bytes", len(sierra), "casm_bytes", len(casm))
	return &models.CompiledContract{
		Name:   contractName,
		Sierra: sierra,
		Casm:   casm,
		ABI:    abi,
	}, nil
}

func (r *Repository) readArtifact(ctx context.Context, contractName, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &domain.ArtifactNotFoundError{Contract: contractName, Path: path}
		}
		return nil, &domain.ArtifactNotFoundError{Contract: contractName, Path: path, Err: err}
	}
	return data, nil
}

// ListContracts returns the names of all contracts with a sierra class, sorted
func (r *Repository) ListContracts(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.artifactDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("artifact directory %s not found, run scarb build first", r.artifactDir)
		}
		return nil, fmt.Errorf("failed to read artifact directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		file := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(file, SierraSuffix) {
			continue
		}
		name := strings.TrimSuffix(file, SierraSuffix)
		if prefix := r.prefix(); prefix != "" {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			name = strings.TrimPrefix(name, prefix)
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

var _ usecase.ArtifactRepository = (*Repository)(nil)
