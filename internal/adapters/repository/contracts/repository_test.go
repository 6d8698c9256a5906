package contracts_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/starknet-deploy/internal/domain"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
)

const tokenSierra = `{
  "sierra_program": ["0x1"],
  "abi": [
    {"type": "constructor", "name": "constructor", "inputs": [{"name": "supply", "type": "core::felt252"}]},
    {"type": "function", "name": "transfer", "inputs": [], "outputs": [], "state_mutability": "external"}
  ]
}`

func newRepository(t *testing.T, packageName string) (*contracts.Repository, string) {
	t.Helper()
	root := t.TempDir()
	cfg := &config.RuntimeConfig{
		ProjectRoot: root,
		DeployConfig: &config.DeployConfig{
			Paths: config.PathsConfig{PackageName: packageName, ContractClasses: "target/dev"},
		},
	}
	dir := filepath.Join(root, "target", "dev")
	require.NoError(t, os.MkdirAll(dir, 0755))
	return contracts.NewRepository(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))), dir
}

func writeArtifact(t *testing.T, dir, file, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func TestGetCompiledCode(t *testing.T) {
	ctx := context.Background()

	t.Run("reads both representations", func(t *testing.T) {
		repo, dir := newRepository(t, "token")
		writeArtifact(t, dir, "token_Token.contract_class.json", tokenSierra)
		writeArtifact(t, dir, "token_Token.compiled_contract_class.json", `{"bytecode": []}`)

		compiled, err := repo.GetCompiledCode(ctx, "Token")
		require.NoError(t, err)
		assert.Equal(t, "Token", compiled.Name)
		assert.JSONEq(t, tokenSierra, string(compiled.Sierra))
		assert.JSONEq(t, `{"bytecode": []}`, string(compiled.Casm))
		require.Len(t, compiled.ABI, 2)

		ctor, ok := compiled.ABI.Constructor()
		require.True(t, ok)
		assert.Equal(t, "supply", ctor.Inputs[0].Name)
	})

	t.Run("missing casm", func(t *testing.T) {
		repo, dir := newRepository(t, "token")
		writeArtifact(t, dir, "token_Token.contract_class.json", tokenSierra)

		_, err := repo.GetCompiledCode(ctx, "Token")
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)

		var notFound *domain.ArtifactNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, repo.CasmPath("Token"), notFound.Path)
	})

	t.Run("missing contract", func(t *testing.T) {
		repo, _ := newRepository(t, "token")

		_, err := repo.GetCompiledCode(ctx, "Nope")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("malformed sierra", func(t *testing.T) {
		repo, dir := newRepository(t, "token")
		writeArtifact(t, dir, "token_Token.contract_class.json", "{not json")
		writeArtifact(t, dir, "token_Token.compiled_contract_class.json", `{"bytecode":[]}`)

		_, err := repo.GetCompiledCode(ctx, "Token")
		assert.ErrorIs(t, err, domain.ErrArtifactNotFound)
	})

	t.Run("malformed casm", func(t *testing.T) {
		repo, dir := newRepository(t, "token")
		writeArtifact(t, dir, "token_Token.contract_class.json", tokenSierra)
		writeArtifact(t, dir, "token_Token.compiled_contract_class.json", "")

		_, err := repo.GetCompiledCode(ctx, "Token")
		var notFound *domain.ArtifactNotFoundError
		require.ErrorAs(t, err, &notFound)
		assert.Equal(t, repo.CasmPath("Token"), notFound.Path)
	})

	t.Run("empty name", func(t *testing.T) {
		repo, _ := newRepository(t, "token")

		_, err := repo.GetCompiledCode(ctx, " ")
		assert.Error(t, err)
	})

	t.Run("paths follow the package prefix", func(t *testing.T) {
		repo, dir := newRepository(t, "my_pkg")
		assert.Equal(t, filepath.Join(dir, "my_pkg_Vault.contract_class.json"), repo.SierraPath("Vault"))
		assert.Equal(t, filepath.Join(dir, "my_pkg_Vault.compiled_contract_class.json"), repo.CasmPath("Vault"))
	})
}

func TestListContracts(t *testing.T) {
	repo, dir := newRepository(t, "token")
	writeArtifact(t, dir, "token_Token.contract_class.json", tokenSierra)
	writeArtifact(t, dir, "token_Token.compiled_contract_class.json", `{}`)
	writeArtifact(t, dir, "token_Registry.contract_class.json", tokenSierra)
	writeArtifact(t, dir, "token.starknet_artifacts.json", `{}`)
	writeArtifact(t, dir, "other_Thing.contract_class.json", tokenSierra)

	names, err := repo.ListContracts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Registry", "Token"}, names)
}
