package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/trebuchet-org/starknet-deploy/internal/domain/models"
)

// DeploymentRenderer renders single contract operations
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderDeployment prints where a contract landed
func (r *DeploymentRenderer) RenderDeployment(d *models.Deployment) error {
	fmt.Fprintln(r.out)
	color.New(color.FgGreen, color.Bold).Fprintf(r.out, "%s deployed on %s\n", d.ContractName, d.Network)
	r.field("Address", addressStyle.Sprint(models.NormalizeAddress(d.Address)))
	r.field("Class hash", d.ClassHash)
	r.field("Transaction", d.TxHash)
	if d.ExplorerURL != "" && d.ExplorerURL != d.TxHash {
		r.field("Explorer", faintStyle.Sprint(d.ExplorerURL))
	}
	return nil
}

// RenderCallResult prints the felts returned by a read-only call
func (r *DeploymentRenderer) RenderCallResult(contract, function string, result []string) error {
	headerStyle.Fprintf(r.out, "%s.%s\n", contract, function)
	if len(result) == 0 {
		faintStyle.Fprintln(r.out, "  (no return value)")
		return nil
	}
	for i, felt := range result {
		fmt.Fprintf(r.out, "  [%d] %s\n", i, felt)
	}
	return nil
}

// RenderInvokeResult prints the hash of a confirmed transaction
func (r *DeploymentRenderer) RenderInvokeResult(contract, function, txHash string) error {
	r.field("Invoked", fmt.Sprintf("%s.%s", contract, function))
	r.field("Transaction", txHash)
	return nil
}

func (r *DeploymentRenderer) field(label, value string) {
	fmt.Fprintf(r.out, "  %s %s\n", faintStyle.Sprint(label+":"+strings.Repeat(" ", max(0, 12-len(label)))), value)
}
