package testkit

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/config"
	"github.com/crmarques/jbossctl/core"
	"github.com/crmarques/jbossctl/management"
)

// FakeManagement is an in-memory management endpoint for command tests.
// Resources are keyed by path; composites apply all steps or none.
type FakeManagement struct {
	mu        sync.Mutex
	resources map[string]map[string]any
	executed  []management.Operation
	// ExecuteErr fails every operation before it reaches the model.
	ExecuteErr error
}

func NewFakeManagement() *FakeManagement {
	return &FakeManagement{resources: map[string]map[string]any{}}
}

func (f *FakeManagement) Seed(path string, attributes map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resources[address.MustParse(path).String()] = attributes
}

func (f *FakeManagement) SeedDeployment(name string, content []byte) {
	value := management.NewBytesValue(SHA1(content))
	f.Seed(address.Deployment(name).String(), map[string]any{
		"name":    name,
		"enabled": true,
		"content": []any{map[string]any{"hash": map[string]any{"BYTES_VALUE": value.Base64}}},
	})
}

func (f *FakeManagement) Resource(path string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	attributes, ok := f.resources[address.MustParse(path).String()]
	return attributes, ok
}

// Writes returns every executed operation other than reads.
func (f *FakeManagement) Writes() []management.Operation {
	f.mu.Lock()
	defer f.mu.Unlock()
	writes := []management.Operation{}
	for _, operation := range f.executed {
		if operation.Name != management.OpReadResource {
			writes = append(writes, operation)
		}
	}
	return writes
}

func (f *FakeManagement) Execute(_ context.Context, operation management.Operation) (management.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.ExecuteErr != nil {
		return management.Result{}, f.ExecuteErr
	}
	f.executed = append(f.executed, operation)

	switch operation.Name {
	case management.OpReadResource:
		current, ok := f.resources[operation.Address.String()]
		if !ok {
			return failedResult(fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", operation.Address)), nil
		}
		return successResult(current)
	case "read-attribute":
		current, ok := f.resources[operation.Address.String()]
		if !ok {
			return failedResult(fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", operation.Address)), nil
		}
		name, _ := operation.Params["name"].(string)
		return successResult(current[name])
	}

	staged := cloneResources(f.resources)
	if failure := applyOperation(staged, operation); failure != "" {
		return failedResult(failure), nil
	}
	f.resources = staged
	return management.Result{Outcome: management.OutcomeSuccess}, nil
}

func (f *FakeManagement) Upload(_ context.Context, _ string, content io.Reader) (management.BytesValue, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return management.BytesValue{}, err
	}
	return management.NewBytesValue(SHA1(data)), nil
}

// FakeSessions opens every selection against the same client.
type FakeSessions struct {
	Client     management.Client
	Err        error
	Selections []config.ContextSelection
}

func (s *FakeSessions) Open(_ context.Context, selection config.ContextSelection) (core.Session, error) {
	s.Selections = append(s.Selections, selection)
	if s.Err != nil {
		return core.Session{}, s.Err
	}
	return core.Session{
		Context:  config.Context{Name: selection.Name},
		Endpoint: "http://127.0.0.1:9990/management",
		Client:   s.Client,
	}, nil
}

func SHA1(data []byte) []byte {
	sum := sha1.Sum(data)
	return sum[:]
}

func applyOperation(resources map[string]map[string]any, operation management.Operation) string {
	key := operation.Address.String()
	notFound := fmt.Sprintf("WFLYCTL0216: Management resource '%s' not found", key)

	switch operation.Name {
	case management.OpComposite:
		for _, step := range operation.Steps {
			if failure := applyOperation(resources, step); failure != "" {
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
			return notFound
		}
		name, _ := operation.Params["name"].(string)
		current[name] = operation.Params["value"]
	case management.OpRemove:
		if _, exists := resources[key]; !exists {
			return notFound
		}
		delete(resources, key)
	case management.OpDeploy, management.OpUndeploy:
		current, exists := resources[key]
		if !exists {
			return notFound
		}
		current["enabled"] = operation.Name == management.OpDeploy
	case management.OpFullReplaceDeployment:
		name, _ := operation.Params["name"].(string)
		resources[address.Deployment(name).String()] = map[string]any{
			"name":    name,
			"enabled": true,
			"content": operation.Params["content"],
		}
	default:
		return fmt.Sprintf("WFLYCTL0031: No operation named '%s' exists", operation.Name)
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

func successResult(value any) (management.Result, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return management.Result{}, err
	}
	return management.Result{Outcome: management.OutcomeSuccess, Result: payload}, nil
}

func failedResult(description string) management.Result {
	encoded, _ := json.Marshal(description)
	return management.Result{Outcome: "failed", FailureDescription: encoded}
}
