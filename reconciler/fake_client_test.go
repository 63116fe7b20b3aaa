package reconciler

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/management"
)

// fakeServer is an in-memory management endpoint. Resources are keyed by
// their path form; composites apply all steps or none.
type fakeServer struct {
	mu         sync.Mutex
	resources  map[string]map[string]any
	executed   []management.Operation
	uploads    []string
	failWrites string
	executeErr error
}

func newFakeServer() *fakeServer {
	return &fakeServer{resources: map[string]map[string]any{}}
}

func (f *fakeServer) seed(path string, attributes map[string]any) {
	f.resources[path] = attributes
}

func (f *fakeServer) seedDeployment(name string, content []byte) {
	value := management.NewBytesValue(sha1Sum(content))
	f.resources[address.Deployment(name).String()] = map[string]any{
		"name":    name,
		"enabled": true,
		"content": []management.ContentItem{{Hash: &value}},
	}
}

func (f *fakeServer) writes() []management.Operation {
	writes := []management.Operation{}
	for _, operation := range f.executed {
		if operation.Name != management.OpReadResource {
			writes = append(writes, operation)
		}
	}
	return writes
}

func (f *fakeServer) Execute(_ context.Context, operation management.Operation) (management.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.executeErr != nil {
		return management.Result{}, f.executeErr
	}
	f.executed = append(f.executed, operation)

	if operation.Name == management.OpReadResource {
		current, ok := f.resources[operation.Address.String()]
		if !ok {
			return failed(fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", operation.Address)), nil
		}
		payload, err := json.Marshal(current)
		if err != nil {
			return management.Result{}, err
		}
		return management.Result{Outcome: management.OutcomeSuccess, Result: payload}, nil
	}

	if f.failWrites != "" {
		return management.Result{Outcome: "failed", FailureDescription: mustJSON(f.failWrites), RolledBack: true}, nil
	}

	staged := cloneResources(f.resources)
	if failure := apply(staged, operation); failure != "" {
		return failed(failure), nil
	}
	f.resources = staged
	return management.Result{Outcome: management.OutcomeSuccess}, nil
}

func (f *fakeServer) Upload(_ context.Context, name string, content io.Reader) (management.BytesValue, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := io.ReadAll(content)
	if err != nil {
		return management.BytesValue{}, err
	}
	f.uploads = append(f.uploads, name)
	return management.NewBytesValue(sha1Sum(data)), nil
}

func apply(resources map[string]map[string]any, operation management.Operation) string {
	key := operation.Address.String()
	switch operation.Name {
	case management.OpComposite:
		for _, step := range operation.Steps {
			if failure := apply(resources, step); failure != "" {
				return failure
			}
		}
	case management.OpAdd:
		if _, exists := resources[key]; exists {
			return fmt.Sprintf("WFLYCTL0212: Duplicate resource %s", key)
		}
		attributes := map[string]any{}
		for name, value := range operation.Params {
			attributes[name] = value
		}
		resources[key] = attributes
	case management.OpWriteAttribute:
		current, exists := resources[key]
		if !exists {
			return fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", key)
		}
		current[operation.Params["name"].(string)] = operation.Params["value"]
	case management.OpRemove:
		if _, exists := resources[key]; !exists {
			return fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", key)
		}
		delete(resources, key)
	case management.OpDeploy, management.OpUndeploy:
		current, exists := resources[key]
		if !exists {
			return fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", key)
		}
		current["enabled"] = operation.Name == management.OpDeploy
	case management.OpFullReplaceDeployment:
		name := operation.Params["name"].(string)
		deploymentKey := address.Deployment(name).String()
		if _, exists := resources[deploymentKey]; !exists {
			return fmt.Sprintf("WFLYSRV0160: Deployment %s does not exist", name)
		}
		resources[deploymentKey] = map[string]any{
			"name":    name,
			"enabled": true,
			"content": operation.Params["content"],
		}
	default:
		return fmt.Sprintf("unsupported operation %s", operation.Name)
	}
	return ""
}

func cloneResources(resources map[string]map[string]any) map[string]map[string]any {
	cloned := make(map[string]map[string]any, len(resources))
	for key, attributes := range resources {
		copied := make(map[string]any, len(attributes))
		for name, value := range attributes {
			copied[name] = value
		}
		cloned[key] = copied
	}
	return cloned
}

func failed(description string) management.Result {
	return management.Result{Outcome: "failed", FailureDescription: mustJSON(description)}
}

func mustJSON(value any) json.RawMessage {
	encoded, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	return encoded
}

func sha1Sum(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
}
