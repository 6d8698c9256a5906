package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/config"
	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// ContractDeployer deploys a single contract
type ContractDeployer interface {
	DeployContract(ctx context.Context, deployment models.DeploymentConfig) (*models.Deployment, error)
}

// ComposeDeployment deploys a set of contracts described in a YAML file in dependency order
type ComposeDeployment struct {
	config   *config.RuntimeConfig
	deployer ContractDeployer
	ledger   AddressLedger
	progress ProgressSink
	log      *slog.Logger
}

// NewComposeDeployment creates a new compose deployment use case
func NewComposeDeployment(
	cfg *config.RuntimeConfig,
	deployer ContractDeployer,
	ledger AddressLedger,
	progress ProgressSink,
	log *slog.Logger,
) *ComposeDeployment {
	return &ComposeDeployment{
		config:   cfg,
		deployer: deployer,
		ledger:   ledger,
		progress: progress,
		log:      log,
	}
}

// ComposeParams contains parameters for a compose run
type ComposeParams struct {
	ConfigPath   string
	DryRun       bool // only build and report the plan
	Resume       bool // continue a previously failed run
	SkipDeployed bool // reuse addresses already recorded in the ledger
}

// ComposeResult contains the result of a compose run
type ComposeResult struct {
	Plan          *ExecutionPlan
	ExecutedSteps []*StepResult
	FailedStep    *StepResult
	Success       bool
	Addresses     map[string]string // step name -> deployed address
}

// StepResult contains the result of executing a single step
type StepResult struct {
	Step       *ExecutionStep
	Deployment *models.Deployment
	Skipped    bool
	Error      error
}

// ComposeState is persisted between runs so a failed compose can be resumed
type ComposeState struct {
	StartedAt        time.Time         `json:"started_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
	ConfigPath       string            `json:"config_path"`
	Network          string            `json:"network"`
	Plan             *ExecutionPlan    `json:"plan"`
	Addresses        map[string]string `json:"addresses"`
	CurrentStepIndex int               `json:"current_step_index"`
	Status           string            `json:"status"` // "running", "failed", "completed"
}

// Execute runs the compose file
func (o *ComposeDeployment) Execute(ctx context.Context, params ComposeParams) (*ComposeResult, error) {
	network := o.config.NetworkName()

	var state *ComposeState
	if params.Resume {
		prev, err := o.loadState(params.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to resume: %w", err)
		}
		if prev.Network != network {
			return nil, fmt.Errorf("cannot resume: previous run targeted network %s, now %s", prev.Network, network)
		}
		if prev.Status == "completed" {
			return nil, fmt.Errorf("previous run already completed successfully")
		}
		state = prev
		o.progress.OnProgress(ctx, ProgressEvent{
			Stage: "compose_resumed",
			Metadata: map[string]any{
				"from_step": state.CurrentStepIndex,
				"total":     len(state.Plan.Steps),
			},
		})
	} else {
		file, err := ParseComposeFile(params.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to parse compose file: %w", err)
		}
		if err := file.Validate(); err != nil {
			return nil, fmt.Errorf("invalid compose file: %w", err)
		}
		if file.Network != "" && file.Network != network {
			return nil, fmt.Errorf("compose file %s targets network %s but the active network is %s", params.ConfigPath, file.Network, network)
		}
		plan, err := NewDependencyGraph(file).TopologicalSort()
		if err != nil {
			return nil, fmt.Errorf("failed to create execution plan: %w", err)
		}
		state = &ComposeState{
			StartedAt:  time.Now(),
			ConfigPath: params.ConfigPath,
			Network:    network,
			Plan:       &ExecutionPlan{Group: file.Group, Steps: plan},
			Addresses:  make(map[string]string),
			Status:     "running",
		}
	}

	o.progress.OnProgress(ctx, ProgressEvent{Stage: "plan_created", Metadata: state.Plan})

	result := &ComposeResult{
		Plan:      state.Plan,
		Success:   true,
		Addresses: state.Addresses,
	}
	if params.DryRun {
		return result, nil
	}

	for i := state.CurrentStepIndex; i < len(state.Plan.Steps); i++ {
		step := state.Plan.Steps[i]
		state.CurrentStepIndex = i
		o.saveState(state)

		o.progress.OnProgress(ctx, ProgressEvent{
			Stage: "step_starting",
			Metadata: map[string]any{
				"name":     step.Name,
				"contract": step.Contract,
				"current":  i + 1,
				"total":    len(state.Plan.Steps),
			},
		})

		stepResult := o.executeStep(ctx, step, state.Addresses, params.SkipDeployed)
		result.ExecutedSteps = append(result.ExecutedSteps, stepResult)
		o.progress.OnProgress(ctx, ProgressEvent{Stage: "step_completed", Metadata: stepResult})

		if stepResult.Error != nil {
			o.log.Error("compose step failed", "step", step.Name, "contract", step.Contract, "error", stepResult.Error)
			result.FailedStep = stepResult
			result.Success = false
			state.Status = "failed"
			o.saveState(state)
			break
		}
		state.Addresses[step.Name] = stepResult.Deployment.Address
	}

	if result.Success {
		state.Status = "completed"
		state.CurrentStepIndex = len(state.Plan.Steps)
		o.saveState(state)
	}

	o.progress.OnProgress(ctx, ProgressEvent{Stage: "compose_completed"})
	return result, nil
}

func (o *ComposeDeployment) executeStep(ctx context.Context, step *ExecutionStep, addresses map[string]string, skipDeployed bool) *StepResult {
	if skipDeployed {
		address, ok, err := o.ledger.Fetch(ctx, step.Contract, o.config.NetworkName())
		if err != nil {
			return &StepResult{Step: step, Error: err}
		}
		if ok {
			return &StepResult{
				Step:    step,
				Skipped: true,
				Deployment: &models.Deployment{
					ContractName: step.Contract,
					Network:      o.config.NetworkName(),
					Address:      address,
				},
			}
		}
	}

	args, err := substituteArgs(step.Args, addresses)
	if err != nil {
		return &StepResult{Step: step, Error: fmt.Errorf("step %s: %w", step.Name, err)}
	}

	deployment, err := o.deployer.DeployContract(ctx, models.DeploymentConfig{
		ContractName:    step.Contract,
		ConstructorArgs: args,
	})
	return &StepResult{Step: step, Deployment: deployment, Error: err}
}

var referencePattern = regexp.MustCompile(`\$\{([A-Za-z0-9_\-]+)\}`)

// substituteArgs replaces ${Step} references with the address deployed by that step
func substituteArgs(args []any, addresses map[string]string) ([]any, error) {
	if args == nil {
		return nil, nil
	}
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := substituteValue(arg, addresses)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func substituteValue(value any, addresses map[string]string) (any, error) {
	switch v := value.(type) {
	case string:
		var missing string
		replaced := referencePattern.ReplaceAllStringFunc(v, func(match string) string {
			name := referencePattern.FindStringSubmatch(match)[1]
			address, ok := addresses[name]
			if !ok {
				missing = name
				return match
			}
			return address
		})
		if missing != "" {
			return nil, fmt.Errorf("reference ${%s} has no deployed address", missing)
		}
		return replaced, nil
	case []any:
		return substituteArgs(v, addresses)
	default:
		return value, nil
	}
}

// stateFilePath returns the path of the compose state file
func (o *ComposeDeployment) stateFilePath(configPath string) string {
	base := filepath.Base(configPath)
	name := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(o.config.DataDir, fmt.Sprintf("compose-%s.json", name))
}

// saveState persists state; failures only produce a warning
func (o *ComposeDeployment) saveState(state *ComposeState) {
	state.UpdatedAt = time.Now()
	path := o.stateFilePath(state.ConfigPath)

	data, err := json.MarshalIndent(state, "", "  ")
	if err == nil {
		if err = os.MkdirAll(filepath.Dir(path), 0755); err == nil {
			err = os.WriteFile(path, data, 0644)
		}
	}
	if err != nil {
		o.log.Warn("failed to save compose state", "path", path, "error", err)
	}
}

// loadState loads the state of a previous run
func (o *ComposeDeployment) loadState(configPath string) (*ComposeState, error) {
	path := o.stateFilePath(configPath)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no previous compose run found for %s", filepath.Base(configPath))
		}
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	var state ComposeState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if state.Addresses == nil {
		state.Addresses = make(map[string]string)
	}
	return &state, nil
}

// ParseComposeFile reads a YAML compose file
func ParseComposeFile(path string) (*ComposeFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var file ComposeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	for name, d := range file.Deployments {
		if d == nil {
			d = &ComposeEntry{}
			file.Deployments[name] = d
		}
		if d.Contract == "" {
			d.Contract = name
		}
	}
	return &file, nil
}

// ComposeFile is the top level of a compose YAML file
type ComposeFile struct {
	Group       string                   `yaml:"group"`
	Network     string                   `yaml:"network,omitempty"`
	Deployments map[string]*ComposeEntry `yaml:"deployments"`
}

// ComposeEntry is a single contract deployment. Contract defaults to the entry name.
type ComposeEntry struct {
	Contract string   `yaml:"contract,omitempty"`
	Args     []any    `yaml:"args,omitempty"`
	Deps     []string `yaml:"deps,omitempty"`
}

// ExecutionPlan is the linearized list of deployments
type ExecutionPlan struct {
	Group string           `json:"group"`
	Steps []*ExecutionStep `json:"steps"`
}

// ExecutionStep is a single deployment of the plan
type ExecutionStep struct {
	Name         string   `json:"name"`
	Contract     string   `json:"contract"`
	Args         []any    `json:"args,omitempty"`
	Dependencies []string `json:"dependencies,omitempty"`
}

// Validate checks the compose file for errors
func (f *ComposeFile) Validate() error {
	if f.Group == "" {
		return fmt.Errorf("group name is required")
	}
	if len(f.Deployments) == 0 {
		return fmt.Errorf("at least one deployment is required")
	}

	for name, d := range f.Deployments {
		for _, dep := range d.Deps {
			if dep == name {
				return fmt.Errorf("deployment '%s' cannot depend on itself", name)
			}
			if _, exists := f.Deployments[dep]; !exists {
				return fmt.Errorf("deployment '%s' depends on non-existent deployment '%s'", name, dep)
			}
		}
		for _, ref := range references(d.Args) {
			if !slices.Contains(d.Deps, ref) {
				return fmt.Errorf("deployment '%s' references ${%s} without depending on it", name, ref)
			}
		}
	}
	return nil
}

func references(args []any) []string {
	var refs []string
	for _, arg := range args {
		switch v := arg.(type) {
		case string:
			for _, m := range referencePattern.FindAllStringSubmatch(v, -1) {
				refs = append(refs, m[1])
			}
		case []any:
			refs = append(refs, references(v)...)
		}
	}
	return refs
}

// DependencyGraph is the directed acyclic graph of deployments
type DependencyGraph struct {
	nodes map[string]*ComposeEntry
	edges map[string][]string // dependency -> dependents
}

// NewDependencyGraph creates a dependency graph from a compose file
func NewDependencyGraph(file *ComposeFile) *DependencyGraph {
	graph := &DependencyGraph{
		nodes: file.Deployments,
		edges: make(map[string][]string),
	}
	for name, d := range file.Deployments {
		for _, dep := range d.Deps {
			if _, exists := file.Deployments[dep]; exists {
				graph.edges[dep] = append(graph.edges[dep], name)
			}
		}
	}
	return graph
}

// TopologicalSort orders deployments so every dependency comes first.
// Ties are broken alphabetically.
func (g *DependencyGraph) TopologicalSort() ([]*ExecutionStep, error) {
	inDegree := make(map[string]int, len(g.nodes))
	for name, d := range g.nodes {
		inDegree[name] += 0
		for _, dep := range d.Deps {
			if _, exists := g.nodes[dep]; !exists {
				return nil, fmt.Errorf("deployment '%s' depends on non-existent deployment '%s'", name, dep)
			}
			inDegree[name]++
		}
	}

	var ready []string
	for name, degree := range inDegree {
		if degree == 0 {
			ready = append(ready, name)
		}
	}
	slices.Sort(ready)

	var steps []*ExecutionStep
	for len(ready) > 0 {
		current := ready[0]
		ready = ready[1:]

		d := g.nodes[current]
		steps = append(steps, &ExecutionStep{
			Name:         current,
			Contract:     d.Contract,
			Args:         d.Args,
			Dependencies: d.Deps,
		})

		for _, dependent := range g.edges[current] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				ready = append(ready, dependent)
			}
		}
		slices.Sort(ready)
	}

	if len(steps) != len(g.nodes) {
		var cycle []string
		for name, degree := range inDegree {
			if degree > 0 {
				cycle = append(cycle, name)
			}
		}
		slices.Sort(cycle)
		return nil, fmt.Errorf("circular dependency detected involving deployments: %v", cycle)
	}
	return steps, nil
}
