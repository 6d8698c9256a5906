// Package starkdeploy exposes the contract manager to Go deployment scripts.
//
// A script under src/scripts calls InitializeContractManager and then deploys,
// calls or invokes contracts the same way the starknet-deploy CLI does:
//
//	manager, err := starkdeploy.InitializeContractManager(ctx, starkdeploy.WithNetwork("local"))
//	if err != nil {
//		return err
//	}
//	deployment, err := manager.DeployContract(ctx, starkdeploy.DeploymentConfig{ContractName: "Token"})
package starkdeploy

import (
	"context"
	"io"
	"os"

	"github.com/trebuchet-org/starknet-deploy/internal/adapters/progress"
	"github.com/trebuchet-org/starknet-deploy/internal/app"
	"github.com/trebuchet-org/starknet-deploy/internal/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

type (
	ContractManager  = usecase.ContractManager
	DeploymentConfig = models.DeploymentConfig
	Deployment       = models.Deployment
	ContractRef      = models.ContractRef
	InvokeOption     = usecase.InvokeOption
	InvokeOptions    = usecase.InvokeOptions
)

var (
	RefFromName      = models.RefFromName
	RefFromAddress   = models.RefFromAddress
	ParseContractRef = models.ParseContractRef
	WithFeeBuffer    = usecase.WithFeeBuffer
)

// DefaultFeeBuffer is the percentage added to fee estimates unless WithFeeBuffer says otherwise
const DefaultFeeBuffer = usecase.DefaultFeeBuffer

type options struct {
	projectRoot string
	network     string
	account     *int
	output      io.Writer
	quiet       bool
}

// Option configures InitializeContractManager
type Option func(*options)

// WithProjectRoot skips the lookup of starknet-deploy.toml from the working directory
func WithProjectRoot(root string) Option {
	return func(o *options) { o.projectRoot = root }
}

// WithNetwork overrides the network selected in the configuration
func WithNetwork(name string) Option {
	return func(o *options) { o.network = name }
}

// WithAccount overrides the index of the signing account
func WithAccount(index int) Option {
	return func(o *options) { o.account = &index }
}

// WithOutput redirects progress output, stderr by default
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// WithQuiet discards progress output
func WithQuiet() Option {
	return func(o *options) { o.quiet = true }
}

// InitializeContractManager loads the project configuration and returns a
// contract manager bound to the selected network and account.
func InitializeContractManager(ctx context.Context, opts ...Option) (*ContractManager, error) {
	o := options{output: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	if o.projectRoot == "" {
		root, err := config.FindProjectRoot()
		if err != nil {
			return nil, err
		}
		o.projectRoot = root
	}

	v := config.SetupViper(o.projectRoot)
	if o.network != "" {
		v.Set("network", o.network)
	}
	if o.account != nil {
		v.Set("account", *o.account)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sink := usecase.ProgressSink(progress.NewSpinnerSinkTo(o.output))
	if o.quiet {
		sink = progress.NewNopSink()
	}
	return app.InitContractManager(v, sink)
}
