//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "agrovet-api"
	ConsumerName = "agrovet-portal"

	StateEmpty         = "no agrovets registered"
	StateAgrovetExists = "agrovet with id 1 exists"
	StateProductListed = "agrovet 1 lists product 2"
)

// Ids follow from the shared counter: the seeded agrovet takes 1 and its
// product takes 2 on a fresh registry.
const (
	ExistingAgrovetID uint64 = 1
	ExistingProductID uint64 = 2
	MissingAgrovetID  uint64 = 404
)

const (
	exampleAgrovetName = "GreenFarm Pact Supplies"
	exampleProductName = "Maize Seed 2kg"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the agrovet portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleAgrovetPayload is the create body used by the consumer and the seed used by the provider.
func ExampleAgrovetPayload() map[string]any {
	return map[string]any{
		"name":     exampleAgrovetName,
		"location": "Nakuru",
		"contact":  "+254700000001",
		"email":    "pact@greenfarm.example",
		"products": []string{"seed", "fertilizer"},
	}
}

// ExampleProductPayload lists a product under the seeded agrovet.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"agrovetId": ExistingAgrovetID,
		"name":      exampleProductName,
		"category":  "Seeds",
		"price":     450,
		"stock":     30,
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
