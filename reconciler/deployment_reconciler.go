package reconciler

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/checksum"
	"github.com/crmarques/jbossctl/management"
	"github.com/crmarques/jbossctl/resource"
	"github.com/go-logr/logr"
)

var _ Reconciler = (*DeploymentReconciler)(nil)

// DeploymentReconciler keeps a named deployment in line with an artifact.
// Content identity is the SHA-1 the server records for uploaded content.
type DeploymentReconciler struct {
	Client    management.Client
	CheckMode bool
	Logger    logr.Logger
}

func (r *DeploymentReconciler) Apply(ctx context.Context, name string, desired DesiredState) (Outcome, error) {
	switch state := desired.(type) {
	case DeploymentPresent:
		return r.EnsurePresent(ctx, name, state.Source)
	case Absent:
		return r.EnsureAbsent(ctx, name)
	default:
		return Outcome{}, unsupportedStateError(desired)
	}
}

func (r *DeploymentReconciler) EnsurePresent(ctx context.Context, name string, source Source) (Outcome, error) {
	if err := validateDeploymentName(name); err != nil {
		return Outcome{}, err
	}
	if strings.TrimSpace(source.Path) == "" {
		return Outcome{}, validationError("deployment source path is required", nil)
	}
	logger := loggerFor(ctx, r.Logger).WithValues("deployment", name)

	record, exists, err := r.read(ctx, name)
	if err != nil {
		return Outcome{}, err
	}

	// A remote artifact lives on the managed host, so there is nothing to
	// checksum here and an existing deployment is always replaced.
	var localChecksum string
	if !source.Remote {
		localChecksum, err = checksum.File(source.Path)
		if err != nil {
			return Outcome{}, err
		}
	}
	desiredMeta := any(localChecksum)
	if source.Remote {
		desiredMeta = source.Path
	}

	if !exists {
		outcome := Outcome{Changed: true, Msg: fmt.Sprintf("Deployed %s", name), Meta: desiredMeta}
		if r.CheckMode {
			outcome.Diff = &resource.Diff{Before: nil, After: desiredMeta}
			logger.V(1).Info("deployment would be added")
			return outcome, nil
		}
		content, err := r.content(ctx, source, localChecksum)
		if err != nil {
			return Outcome{}, err
		}
		operation := management.Composite(
			management.AddDeployment(name, content),
			management.Deploy(address.Deployment(name)),
		)
		if _, err := write(ctx, r.Client, operation); err != nil {
			return Outcome{}, err
		}
		logger.Info("deployment added")
		return outcome, nil
	}

	serverChecksum, err := recordedChecksum(record)
	if err != nil {
		return Outcome{}, err
	}
	if !source.Remote && serverChecksum == localChecksum {
		logger.V(1).Info("deployment content is up to date", "checksum", localChecksum)
		return Outcome{Changed: false, Meta: localChecksum}, nil
	}

	outcome := Outcome{
		Changed: true,
		Msg:     fmt.Sprintf("Updated %s", name),
		Meta:    desiredMeta,
		Diff:    &resource.Diff{Before: checksumOrNil(serverChecksum), After: desiredMeta},
	}
	if r.CheckMode {
		logger.V(1).Info("deployment would be replaced", "before", serverChecksum)
		return outcome, nil
	}
	content, err := r.content(ctx, source, localChecksum)
	if err != nil {
		return Outcome{}, err
	}
	if _, err := write(ctx, r.Client, management.FullReplaceDeployment(name, content)); err != nil {
		return Outcome{}, err
	}
	logger.Info("deployment replaced", "before", serverChecksum)
	return outcome, nil
}

func (r *DeploymentReconciler) EnsureAbsent(ctx context.Context, name string) (Outcome, error) {
	if err := validateDeploymentName(name); err != nil {
		return Outcome{}, err
	}
	logger := loggerFor(ctx, r.Logger).WithValues("deployment", name)

	record, exists, err := r.read(ctx, name)
	if err != nil {
		return Outcome{}, err
	}
	if !exists {
		return Outcome{Changed: false, Msg: fmt.Sprintf("%s is absent", name)}, nil
	}

	outcome := Outcome{Changed: true, Msg: fmt.Sprintf("Removed %s", name)}
	if r.CheckMode {
		serverChecksum, err := recordedChecksum(record)
		if err != nil {
			return Outcome{}, err
		}
		outcome.Diff = &resource.Diff{Before: checksumOrNil(serverChecksum), After: nil}
		logger.V(1).Info("deployment would be removed")
		return outcome, nil
	}

	addr := address.Deployment(name)
	if _, err := write(ctx, r.Client, management.Composite(management.Undeploy(addr), management.Remove(addr))); err != nil {
		return Outcome{}, err
	}
	logger.Info("deployment removed")
	return outcome, nil
}

// Read returns the deployment record, or exists=false when the server has
// no deployment by that name.
func (r *DeploymentReconciler) Read(ctx context.Context, name string) (management.DeploymentRecord, bool, error) {
	if err := validateDeploymentName(name); err != nil {
		return management.DeploymentRecord{}, false, err
	}
	return r.read(ctx, name)
}

func (r *DeploymentReconciler) read(ctx context.Context, name string) (management.DeploymentRecord, bool, error) {
	if r.Client == nil {
		return management.DeploymentRecord{}, false, validationError("management client is required", nil)
	}

	result, err := r.Client.Execute(ctx, management.ReadResource(address.Deployment(name)))
	if err != nil {
		return management.DeploymentRecord{}, false, err
	}
	if !result.Succeeded() {
		loggerFor(ctx, r.Logger).V(1).Info("deployment read reported absent", "deployment", name, "failure", result.Failure())
		return management.DeploymentRecord{}, false, nil
	}

	var record management.DeploymentRecord
	if err := result.Decode(&record); err != nil {
		return management.DeploymentRecord{}, false, err
	}
	return record, true, nil
}

// content returns the content reference for a write. Local artifacts are
// uploaded first; the returned hash must match the checksum computed before
// the read.
func (r *DeploymentReconciler) content(ctx context.Context, source Source, localChecksum string) (management.ContentItem, error) {
	if source.Remote {
		return management.ContentItem{URL: remoteURL(source.Path)}, nil
	}

	file, err := os.Open(source.Path)
	if err != nil {
		return management.ContentItem{}, artifactError(fmt.Sprintf("artifact %q could not be opened", source.Path), err)
	}
	defer file.Close()

	hash, err := r.Client.Upload(ctx, filepath.Base(source.Path), file)
	if err != nil {
		return management.ContentItem{}, err
	}
	uploaded, err := checksum.DecodeServerHash(hash)
	if err != nil {
		return management.ContentItem{}, err
	}
	if uploaded != localChecksum {
		return management.ContentItem{}, artifactError(
			fmt.Sprintf("artifact %q changed during upload: expected %s, server stored %s", source.Path, localChecksum, uploaded),
			nil,
		)
	}
	return management.ContentItem{Hash: &hash}, nil
}

// recordedChecksum returns the hex hash of the first content item, or "" for
// unmanaged content the server does not hash.
func recordedChecksum(record management.DeploymentRecord) (string, error) {
	if len(record.Content) == 0 || record.Content[0].Hash == nil {
		return "", nil
	}
	return checksum.DecodeServerHash(*record.Content[0].Hash)
}

func remoteURL(path string) string {
	if strings.Contains(path, "://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

func checksumOrNil(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func validateDeploymentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return validationError("deployment name is required", nil)
	}
	if strings.ContainsAny(name, "/=") {
		return validationError(fmt.Sprintf("deployment name %q must not contain '/' or '='", name), nil)
	}
	return nil
}
