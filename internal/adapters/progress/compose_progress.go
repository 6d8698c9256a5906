package progress

import (
	"context"
	"fmt"

	"github.com/trebuchet-org/starknet-deploy/internal/cli/render"
	"github.com/trebuchet-org/starknet-deploy/internal/usecase"
)

// ComposeProgress handles progress events for compose runs
type ComposeProgress struct {
	composeRenderer *render.ComposeRenderer
	spinner         *SpinnerSink

	planRendered bool
}

// NewComposeProgress creates a new compose progress reporter
func NewComposeProgress(composeRenderer *render.ComposeRenderer) *ComposeProgress {
	return &ComposeProgress{
		composeRenderer: composeRenderer,
		spinner:         NewSpinnerSinkTo(composeRenderer.GetWriter()),
	}
}

// OnProgress renders compose stages and passes everything else to the spinner
func (p *ComposeProgress) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	switch event.Stage {
	case "plan_created":
		if plan, ok := event.Metadata.(*usecase.ExecutionPlan); ok && !p.planRendered {
			p.composeRenderer.RenderExecutionPlan(plan)
			p.planRendered = true
		}

	case "compose_resumed":
		if info, ok := event.Metadata.(map[string]any); ok {
			from, _ := info["from_step"].(int)
			total, _ := info["total"].(int)
			p.spinner.Info(fmt.Sprintf("Resuming from step %d of %d", from+1, total))
		}

	case "step_starting":
		if info, ok := event.Metadata.(map[string]any); ok {
			name, _ := info["name"].(string)
			current, _ := info["current"].(int)
			total, _ := info["total"].(int)
			p.spinner.Stop()
			p.composeRenderer.RenderStepStarting(current, total, name)
		}

	case "step_completed":
		p.spinner.Stop()
		if stepResult, ok := event.Metadata.(*usecase.StepResult); ok {
			p.composeRenderer.RenderStepResult(stepResult)
		}

	case "compose_completed":
		p.spinner.Stop()

	default:
		p.spinner.OnProgress(ctx, event)
	}
}

// Info forwards info messages to the spinner
func (p *ComposeProgress) Info(message string) { p.spinner.Info(message) }

// Warn forwards warnings to the spinner
func (p *ComposeProgress) Warn(message string) { p.spinner.Warn(message) }

// Success forwards success messages to the spinner
func (p *ComposeProgress) Success(message string) { p.spinner.Success(message) }

// Error forwards error messages to the spinner
func (p *ComposeProgress) Error(message string) { p.spinner.Error(message) }

var _ usecase.ProgressSink = (*ComposeProgress)(nil)
