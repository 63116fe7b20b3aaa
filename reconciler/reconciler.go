// Package reconciler drives a management endpoint toward a desired state.
// Every reconciliation reads the live state once, decides, and issues at
// most one write.
package reconciler

import (
	"context"

	"github.com/crmarques/jbossctl/resource"
)

type Reconciler interface {
	Apply(ctx context.Context, target string, desired DesiredState) (Outcome, error)
}

// DesiredState is one of Present, DeploymentPresent or Absent.
type DesiredState interface {
	desiredState()
}

type Present struct {
	Attributes resource.AttributeSet
}

type DeploymentPresent struct {
	Source Source
}

type Absent struct{}

func (Present) desiredState()           {}
func (DeploymentPresent) desiredState() {}
func (Absent) desiredState()            {}

// Source locates a deployment artifact. A local source is read, checksummed
// and uploaded by the caller; a remote source is a file on the managed host
// that the server reads itself.
type Source struct {
	Path   string
	Remote bool
}

// Outcome is the caller-facing result of a reconciliation.
type Outcome struct {
	Changed bool           `json:"changed" yaml:"changed"`
	Meta    any            `json:"meta" yaml:"meta"`
	Msg     string         `json:"msg,omitempty" yaml:"msg,omitempty"`
	Diff    *resource.Diff `json:"diff,omitempty" yaml:"diff,omitempty"`
}
