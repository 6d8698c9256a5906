package adapters

import (
	"github.com/google/wire"

	"github.com/trebuchet-org/starknet-deploy/internal/adapters/fs"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/interactive"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/network"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/repository/contracts"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/scarb"
	"github.com/trebuchet-org/starknet-deploy/internal/adapters/starknet"
	"github.com/trebuchet-org/starknet-deploy/internal/config"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// FSSet provides filesystem-based implementations
var FSSet = wire.NewSet(
	fs.NewFileWriterAdapter,
	wire.Bind(new(usecase.FileWriter), new(*fs.FileWriterAdapter)),

	fs.NewLocalConfigStoreAdapter,
	wire.Bind(new(usecase.LocalConfigRepository), new(*fs.LocalConfigStoreAdapter)),

	config.NewConfigFileWriter,
	wire.Bind(new(usecase.ConfigWriter), new(*config.ConfigFileWriter)),
)

// RepositorySet provides the artifact store and address ledger
var RepositorySet = wire.NewSet(
	contracts.NewRepository,
	wire.Bind(new(usecase.ArtifactRepository), new(*contracts.Repository)),

	deployments.NewFileRepository,
	wire.Bind(new(usecase.AddressLedger), new(*deployments.FileRepository)),
)

// StarknetSet provides the chain client and signer factory
var StarknetSet = wire.NewSet(
	starknet.NewClient,
	wire.Bind(new(usecase.ChainClient), new(*starknet.Client)),
	wire.Bind(new(usecase.AccountFactory), new(*starknet.Client)),
)

// NetworkSet provides RPC probing
var NetworkSet = wire.NewSet(
	network.NewProber,
	wire.Bind(new(usecase.NetworkProber), new(*network.Prober)),
)

// BuildSet provides the scarb builder
var BuildSet = wire.NewSet(
	scarb.NewBuilder,
	wire.Bind(new(usecase.ContractBuilder), new(*scarb.Builder)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.AccountSelector), new(*interactive.SelectorAdapter)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	FSSet,
	RepositorySet,
	StarknetSet,
	NetworkSet,
	BuildSet,
	InteractiveSet,
)
