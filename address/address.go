// Package address translates management model paths such as
// /subsystem=datasources/data-source=DemoDS into the ordered node list used
// by the management wire protocol.
//
// Values cannot contain '/' and a value's first '=' always terminates the
// node type; no escaping is supported.
package address

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crmarques/jbossctl/faults"
)

type Segment struct {
	Type  string
	Value string
}

type Address []Segment

func Parse(path string) (Address, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" || trimmed == "/" {
		return Address{}, nil
	}

	parts := strings.Split(trimmed, "/")
	if parts[0] == "" {
		parts = parts[1:]
	}

	result := make(Address, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}

		nodeType, nodeValue, found := strings.Cut(part, "=")
		if !found {
			return nil, faults.NewTypedError(
				faults.MalformedPathError,
				fmt.Sprintf("malformed path %q: segment %q is not type=value", path, part),
				nil,
			)
		}
		result = append(result, Segment{Type: nodeType, Value: nodeValue})
	}

	return result, nil
}

// MustParse is Parse for compile-time constant paths.
func MustParse(path string) Address {
	value, err := Parse(path)
	if err != nil {
		panic(err)
	}
	return value
}

func Deployment(name string) Address {
	return Address{}.Child("deployment", name)
}

func (a Address) Child(nodeType string, nodeValue string) Address {
	child := make(Address, len(a), len(a)+1)
	copy(child, a)
	return append(child, Segment{Type: nodeType, Value: nodeValue})
}

func (a Address) String() string {
	if len(a) == 0 {
		return "/"
	}

	var builder strings.Builder
	for _, segment := range a {
		builder.WriteByte('/')
		builder.WriteString(segment.Type)
		builder.WriteByte('=')
		builder.WriteString(segment.Value)
	}
	return builder.String()
}

func (a Address) MarshalJSON() ([]byte, error) {
	nodes := make([]map[string]string, len(a))
	for idx, segment := range a {
		nodes[idx] = map[string]string{segment.Type: segment.Value}
	}
	return json.Marshal(nodes)
}

func (a *Address) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*a = Address{}
		return nil
	}

	var nodes []map[string]string
	if err := json.Unmarshal(data, &nodes); err != nil {
		return err
	}

	parsed := make(Address, 0, len(nodes))
	for _, node := range nodes {
		if len(node) != 1 {
			return faults.NewTypedError(
				faults.MalformedPathError,
				fmt.Sprintf("address node must hold exactly one type/value pair, got %d", len(node)),
				nil,
			)
		}
		for nodeType, nodeValue := range node {
			parsed = append(parsed, Segment{Type: nodeType, Value: nodeValue})
		}
	}

	*a = parsed
	return nil
}
