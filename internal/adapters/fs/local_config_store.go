package fs

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// LocalConfigFile holds the active network and account of one checkout, inside the data dir
const LocalConfigFile = "config.local.json"

// LocalConfigStoreAdapter persists the active network and account selection
type LocalConfigStoreAdapter struct {
	configPath string
}

// NewLocalConfigStoreAdapter creates a store under the data dir of the project
func NewLocalConfigStoreAdapter(cfg *config.RuntimeConfig) *LocalConfigStoreAdapter {
	return &LocalConfigStoreAdapter{
		configPath: filepath.Join(cfg.DataDir, LocalConfigFile),
	}
}

// Exists reports whether a selection has been saved
func (s *LocalConfigStoreAdapter) Exists() bool {
	info, err := os.Stat(s.configPath)
	return err == nil && info.Mode().IsRegular()
}

// Load returns the saved selection. A missing or empty file yields the defaults.
func (s *LocalConfigStoreAdapter) Load(ctx context.Context) (*config.LocalConfig, error) {
	data, err := os.ReadFile(s.configPath)
	if errors.Is(err, os.ErrNotExist) {
		return config.DefaultLocalConfig(), nil
	}
	if err != nil {
		return nil, &domain.PersistenceError{Op: "read local config", Path: s.configPath, Err: err}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return config.DefaultLocalConfig(), nil
	}

	var local config.LocalConfig
	if err := json.Unmarshal(data, &local); err != nil {
		return nil, &domain.PersistenceError{Op: "parse local config", Path: s.configPath, Err: err}
	}
	if err := validateLocalConfig(&local); err != nil {
		return nil, &domain.PersistenceError{Op: "parse local config", Path: s.configPath, Err: err}
	}
	return &local, nil
}

// Save replaces the selection through a temp file and rename so readers never
// see a partial write
func (s *LocalConfigStoreAdapter) Save(ctx context.Context, local *config.LocalConfig) error {
	if err := validateLocalConfig(local); err != nil {
		return err
	}

	dir := filepath.Dir(s.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &domain.PersistenceError{Op: "create data directory", Path: dir, Err: err}
	}

	data, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return &domain.PersistenceError{Op: "encode local config", Path: s.configPath, Err: err}
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(dir, LocalConfigFile+".*")
	if err != nil {
		return &domain.PersistenceError{Op: "write local config", Path: s.configPath, Err: err}
	}
	tmpPath := tmp.Name()
	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpPath, 0644)
	}
	if err == nil {
		err = os.Rename(tmpPath, s.configPath)
	}
	if err != nil {
		os.Remove(tmpPath)
		return &domain.PersistenceError{Op: "write local config", Path: s.configPath, Err: err}
	}
	return nil
}

// GetPath returns the location of the selection file
func (s *LocalConfigStoreAdapter) GetPath() string {
	return s.configPath
}

func validateLocalConfig(local *config.LocalConfig) error {
	if local == nil {
		return fmt.Errorf("local config is nil")
	}
	if local.Account < 0 {
		return fmt.Errorf("%s must not be negative, got %d", config.ConfigKeyAccount, local.Account)
	}
	return nil
}

var _ usecase.LocalConfigRepository = (*LocalConfigStoreAdapter)(nil)
