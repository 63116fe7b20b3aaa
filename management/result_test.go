package management

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/crmarques/jbossctl/address"
	"github.com/crmarques/jbossctl/faults"
)

func TestResultFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "string_description",
			body: `{"outcome":"failed","failure-description":"WFLYCTL0212: Duplicate resource [(\"deployment\" => \"app.war\")]","rolled-back":true}`,
			want: `WFLYCTL0212: Duplicate resource [("deployment" => "app.war")]`,
		},
		{
			name: "object_description",
			body: `{"outcome":"failed","failure-description":{"host-failure-descriptions":{"master":"boom"}}}`,
			want: `{"host-failure-descriptions":{"master":"boom"}}`,
		},
		{
			name: "no_description",
			body: `{"outcome":"cancelled"}`,
			want: "outcome cancelled",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var result Result
			if err := json.Unmarshal([]byte(tc.body), &result); err != nil {
				t.Fatalf("Unmarshal returned error: %v", err)
			}
			if result.Succeeded() {
				t.Fatalf("expected non-success outcome")
			}
			if got := result.Failure(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestResultAttributes(t *testing.T) {
	t.Parallel()

	var result Result
	if err := json.Unmarshal([]byte(`{"outcome":"success","result":{"min-pool-size":10,"max-pool-size":40,"enabled":true}}`), &result); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if !result.Succeeded() {
		t.Fatalf("expected success outcome")
	}

	attributes, err := result.Attributes()
	if err != nil {
		t.Fatalf("Attributes returned error: %v", err)
	}
	if attributes["min-pool-size"] != int64(10) || attributes["enabled"] != true {
		t.Fatalf("unexpected attributes %#v", attributes)
	}

	scalar := Result{Outcome: OutcomeSuccess, Result: json.RawMessage(`"running"`)}
	if _, err := scalar.Attributes(); !faults.IsCategory(err, faults.OperationError) {
		t.Fatalf("expected OperationError for non-object result, got %v", err)
	}
}

func TestResultDecodeDeploymentRecord(t *testing.T) {
	t.Parallel()

	result := Result{
		Outcome: OutcomeSuccess,
		Result:  json.RawMessage(`{"name":"app.war","runtime-name":"app.war","enabled":true,"content":[{"hash":{"BYTES_VALUE":"AQI="}}]}`),
	}

	var record DeploymentRecord
	if err := result.Decode(&record); err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if len(record.Content) != 1 || record.Content[0].Hash == nil || record.Content[0].Hash.Base64 != "AQI=" {
		t.Fatalf("unexpected record %#v", record)
	}

	empty := Result{Outcome: OutcomeSuccess}
	if err := empty.Decode(&record); !faults.IsCategory(err, faults.OperationError) {
		t.Fatalf("expected OperationError for empty result, got %v", err)
	}
}

func TestOperationErrorCarriesFailureVerbatim(t *testing.T) {
	t.Parallel()

	operation, err := Add(address.MustParse("/subsystem=datasources/data-source=DemoDS"), nil)
	if err != nil {
		t.Fatalf("Add returned error: %v", err)
	}
	result := Result{Outcome: "failed", FailureDescription: json.RawMessage(`"WFLYCTL0212: Duplicate resource"`), RolledBack: true}

	err = OperationError(operation, result)
	if !faults.IsCategory(err, faults.OperationError) {
		t.Fatalf("expected OperationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "WFLYCTL0212: Duplicate resource") || !strings.Contains(err.Error(), "/subsystem=datasources/data-source=DemoDS:add") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
