package reconciler

import (
	"context"
	"fmt"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/management"
	"github.com/crmarques/jbossctl/resource"
	"github.com/go-logr/logr"
)

var _ Reconciler = (*ResourceReconciler)(nil)

// ResourceReconciler manages one configuration resource per call. Only the
// attributes named in the desired set are compared or written.
type ResourceReconciler struct {
	Client    management.Client
	CheckMode bool
	Logger    logr.Logger
}

func (r *ResourceReconciler) Apply(ctx context.Context, path string, desired DesiredState) (Outcome, error) {
	switch state := desired.(type) {
	case Present:
		return r.EnsurePresent(ctx, path, state.Attributes)
	case Absent:
		return r.EnsureAbsent(ctx, path)
	default:
		return Outcome{}, unsupportedStateError(desired)
	}
}

func (r *ResourceReconciler) EnsurePresent(ctx context.Context, path string, attributes resource.AttributeSet) (Outcome, error) {
	addr, err := r.parse(path)
	if err != nil {
		return Outcome{}, err
	}
	desired, err := normalizeAttributes(attributes)
	if err != nil {
		return Outcome{}, err
	}
	logger := loggerFor(ctx, r.Logger).WithValues("path", addr.String())

	current, exists, err := r.read(ctx, addr)
	if err != nil {
		return Outcome{}, err
	}

	if !exists {
		add, err := management.Add(addr, desired)
		if err != nil {
			return Outcome{}, err
		}
		outcome := Outcome{Changed: true, Msg: fmt.Sprintf("Added %s", path), Meta: desired}
		if r.CheckMode {
			outcome.Diff = &resource.Diff{Before: nil, After: desired}
			logger.V(1).Info("resource would be added", "attributes", resource.SortedKeys(desired))
			return outcome, nil
		}
		if _, err := write(ctx, r.Client, add); err != nil {
			return Outcome{}, err
		}
		logger.Info("resource added")
		return outcome, nil
	}

	delta, err := resource.Delta(current, desired)
	if err != nil {
		return Outcome{}, err
	}
	if len(delta) == 0 {
		logger.V(1).Info("resource is up to date")
		return Outcome{Changed: false, Meta: current}, nil
	}

	outcome := Outcome{
		Changed: true,
		Msg:     fmt.Sprintf("Updated %s", path),
		Meta:    delta,
		Diff:    resource.DeltaDiff(current, delta),
	}
	if r.CheckMode {
		logger.V(1).Info("resource would be updated", "changed", resource.SortedKeys(delta))
		return outcome, nil
	}
	if _, err := write(ctx, r.Client, management.Update(addr, delta)); err != nil {
		return Outcome{}, err
	}
	logger.Info("resource updated", "changed", resource.SortedKeys(delta))
	return outcome, nil
}

func (r *ResourceReconciler) EnsureAbsent(ctx context.Context, path string) (Outcome, error) {
	addr, err := r.parse(path)
	if err != nil {
		return Outcome{}, err
	}
	logger := loggerFor(ctx, r.Logger).WithValues("path", addr.String())

	current, exists, err := r.read(ctx, addr)
	if err != nil {
		return Outcome{}, err
	}
	if !exists {
		return Outcome{Changed: false, Msg: fmt.Sprintf("%s is absent", path)}, nil
	}

	outcome := Outcome{Changed: true, Msg: fmt.Sprintf("Removed %s", path)}
	if r.CheckMode {
		outcome.Diff = &resource.Diff{Before: current, After: nil}
		logger.V(1).Info("resource would be removed")
		return outcome, nil
	}
	if _, err := write(ctx, r.Client, management.Remove(addr)); err != nil {
		return Outcome{}, err
	}
	logger.Info("resource removed")
	return outcome, nil
}

// Read returns the resource attributes, or exists=false when the server
// rejects the read.
func (r *ResourceReconciler) Read(ctx context.Context, path string) (resource.AttributeSet, bool, error) {
	addr, err := r.parse(path)
	if err != nil {
		return nil, false, err
	}
	return r.read(ctx, addr)
}

func (r *ResourceReconciler) read(ctx context.Context, addr address.Address) (resource.AttributeSet, bool, error) {
	if r.Client == nil {
		return nil, false, validationError("management client is required", nil)
	}

	result, err := r.Client.Execute(ctx, management.ReadResource(addr))
	if err != nil {
		return nil, false, err
	}
	if !result.Succeeded() {
		loggerFor(ctx, r.Logger).V(1).Info("read-resource reported absent", "path", addr.String(), "failure", result.Failure())
		return nil, false, nil
	}

	attributes, err := result.Attributes()
	if err != nil {
		return nil, false, err
	}
	return attributes, true, nil
}

func (r *ResourceReconciler) parse(path string) (address.Address, error) {
	addr, err := address.Parse(path)
	if err != nil {
		return nil, err
	}
	if len(addr) == 0 {
		return nil, validationError("resource path must name at least one segment", nil)
	}
	return addr, nil
}

func normalizeAttributes(attributes resource.AttributeSet) (resource.AttributeSet, error) {
	if attributes == nil {
		return resource.AttributeSet{}, nil
	}
	normalized, err := resource.Normalize(map[string]any(attributes))
	if err != nil {
		return nil, err
	}
	return resource.AttributeSet(normalized.(map[string]any)), nil
}
