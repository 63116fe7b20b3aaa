// Package management models the WildFly/JBoss management API wire protocol:
// DMR-style JSON operations addressed by node lists and the outcome envelope
// returned for them.
package management

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/faults"
)

const (
	OpReadResource          = "read-resource"
	OpAdd                   = "add"
	OpWriteAttribute        = "write-attribute"
	OpRemove                = "remove"
	OpDeploy                = "deploy"
	OpUndeploy              = "undeploy"
	OpFullReplaceDeployment = "full-replace-deployment"
	OpComposite             = "composite"
)

const (
	fieldOperation = "operation"
	fieldAddress   = "address"
	fieldSteps     = "steps"
)

type Operation struct {
	Name    string
	Address address.Address
	Params  map[string]any
	Steps   []Operation
}

type BytesValue struct {
	Base64 string `json:"BYTES_VALUE"`
}

// ContentItem is one entry of a deployment "content" list. Hash references
// content already stored in the server repository; URL and Path reference a
// file resolved on the managed host.
type ContentItem struct {
	Hash    *BytesValue `json:"hash,omitempty"`
	URL     string      `json:"url,omitempty"`
	Path    string      `json:"path,omitempty"`
	Archive *bool       `json:"archive,omitempty"`
}

func ReadResource(addr address.Address) Operation {
	return Operation{
		Name:    OpReadResource,
		Address: addr,
		Params: map[string]any{
			"include-runtime": false,
			"recursive":       false,
		},
	}
}

// Add creates a resource with attributes. Attribute names that collide with
// the operation envelope cannot be expressed on the wire and are rejected.
func Add(addr address.Address, attributes map[string]any) (Operation, error) {
	if err := checkParamNames(attributes); err != nil {
		return Operation{}, err
	}
	return Operation{Name: OpAdd, Address: addr, Params: cloneParams(attributes)}, nil
}

func WriteAttribute(addr address.Address, name string, value any) Operation {
	return Operation{
		Name:    OpWriteAttribute,
		Address: addr,
		Params: map[string]any{
			"name":  name,
			"value": value,
		},
	}
}

// Update writes every attribute of delta. A multi-attribute delta is wrapped
// in a composite so the server applies it atomically.
func Update(addr address.Address, delta map[string]any) Operation {
	keys := make([]string, 0, len(delta))
	for key := range delta {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	if len(keys) == 1 {
		return WriteAttribute(addr, keys[0], delta[keys[0]])
	}

	steps := make([]Operation, 0, len(keys))
	for _, key := range keys {
		steps = append(steps, WriteAttribute(addr, key, delta[key]))
	}
	return Composite(steps...)
}

func Remove(addr address.Address) Operation {
	return Operation{Name: OpRemove, Address: addr}
}

func Deploy(addr address.Address) Operation {
	return Operation{Name: OpDeploy, Address: addr}
}

func Undeploy(addr address.Address) Operation {
	return Operation{Name: OpUndeploy, Address: addr}
}

func AddDeployment(name string, content ContentItem) Operation {
	return Operation{
		Name:    OpAdd,
		Address: address.Deployment(name),
		Params: map[string]any{
			"content": []ContentItem{content},
		},
	}
}

func FullReplaceDeployment(name string, content ContentItem) Operation {
	return Operation{
		Name:    OpFullReplaceDeployment,
		Address: address.Address{},
		Params: map[string]any{
			"name":    name,
			"content": []ContentItem{content},
			"enabled": true,
		},
	}
}

func Composite(steps ...Operation) Operation {
	return Operation{
		Name:    OpComposite,
		Address: address.Address{},
		Steps:   steps,
	}
}

// Describe renders the operation the way jboss-cli prints it, for log and
// error messages.
func (o Operation) Describe() string {
	if o.Name == OpComposite {
		return fmt.Sprintf("composite(%d steps)", len(o.Steps))
	}
	return o.Address.String() + ":" + o.Name
}

func (o Operation) MarshalJSON() ([]byte, error) {
	if err := checkParamNames(o.Params); err != nil {
		return nil, err
	}

	payload := make(map[string]any, len(o.Params)+3)
	for key, value := range o.Params {
		payload[key] = value
	}

	addr := o.Address
	if addr == nil {
		addr = address.Address{}
	}
	payload[fieldOperation] = o.Name
	payload[fieldAddress] = addr
	if o.Name == OpComposite || len(o.Steps) > 0 {
		steps := o.Steps
		if steps == nil {
			steps = []Operation{}
		}
		payload[fieldSteps] = steps
	}

	return json.Marshal(payload)
}

// UnmarshalJSON accepts the wire form. The address may also be given as a
// path string such as "/subsystem=logging".
func (o *Operation) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	var parsed Operation
	nameRaw, ok := raw[fieldOperation]
	if !ok {
		return faults.NewTypedError(faults.ValidationError, "operation field is required", nil)
	}
	if err := json.Unmarshal(nameRaw, &parsed.Name); err != nil {
		return faults.NewTypedError(faults.ValidationError, "operation field must be a string", err)
	}
	delete(raw, fieldOperation)

	if addrRaw, ok := raw[fieldAddress]; ok {
		addr, err := decodeAddress(addrRaw)
		if err != nil {
			return err
		}
		parsed.Address = addr
		delete(raw, fieldAddress)
	} else {
		parsed.Address = address.Address{}
	}

	if stepsRaw, ok := raw[fieldSteps]; ok {
		if err := json.Unmarshal(stepsRaw, &parsed.Steps); err != nil {
			return err
		}
		delete(raw, fieldSteps)
	}

	if len(raw) > 0 {
		parsed.Params = make(map[string]any, len(raw))
		for key, value := range raw {
			var decoded any
			if err := json.Unmarshal(value, &decoded); err != nil {
				return err
			}
			parsed.Params[key] = decoded
		}
	}

	*o = parsed
	return nil
}

func decodeAddress(data json.RawMessage) (address.Address, error) {
	var asPath string
	if err := json.Unmarshal(data, &asPath); err == nil {
		return address.Parse(asPath)
	}

	var addr address.Address
	if err := json.Unmarshal(data, &addr); err != nil {
		return nil, err
	}
	return addr, nil
}

func checkParamNames(params map[string]any) error {
	for _, reserved := range []string{fieldOperation, fieldAddress, fieldSteps} {
		if _, ok := params[reserved]; ok {
			return faults.NewTypedError(
				faults.ValidationError,
				fmt.Sprintf("parameter %q collides with the operation envelope", reserved),
				nil,
			)
		}
	}
	return nil
}

func cloneParams(values map[string]any) map[string]any {
	if values == nil {
		return nil
	}
	cloned := make(map[string]any, len(values))
	for key, value := range values {
		cloned[key] = value
	}
	return cloned
}
