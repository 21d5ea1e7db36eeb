package publishers

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRegistryEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: http
    enabled: true
    http:
      url: https://example.com/2
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	enabled := reg.Enabled()
	if len(enabled) != 1 || enabled[0].ID != "http2" {
		t.Fatalf("expected only http2 enabled, got %#v", enabled)
	}
}

func TestLoadRegistryParsesCloudSinks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "publishers.json")
	raw := `{"publishers":[
  {"id":" topic ","type":"SNS","sns":{"topic_arn":"arn:aws:sns:::t","region":"us-east-1"}},
  {"id":"ps","type":"gcp_pubsub","gcp_pubsub":{"project_id":"p","topic":"t"}}
]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	reg, err := LoadRegistry(path)
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	cfg, ok := reg.ByID("topic")
	if !ok || cfg.Type != TypeSNS {
		t.Fatalf("expected sanitized sns publisher, got %#v", cfg)
	}
	if len(reg.Enabled()) != 2 {
		t.Fatalf("expected both publishers enabled by default")
	}
}

func TestValidatePublisherConfigRejectsIncompleteCloudSinks(t *testing.T) {
	if err := validatePublisherConfig(PublisherConfig{ID: "s", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "x"}}); err == nil {
		t.Fatalf("expected validation error for missing topic arn")
	}
	if err := validatePublisherConfig(PublisherConfig{ID: "g", Type: TypeGCPPubSub}); err == nil {
		t.Fatalf("expected validation error for missing gcp_pubsub block")
	}
}

func TestValidatePublisherConfigRejectsMissingHTTP(t *testing.T) {
	err := validatePublisherConfig(PublisherConfig{
		ID:   "h1",
		Type: TypeHTTP,
	})
	if err == nil {
		t.Fatalf("expected validation error for missing http block")
	}
}
