package routers

import (
	"testing"
	"time"

	toolkit "github.com/7ozzam/cohere-toolkit-with-openai"
	"github.com/7ozzam/cohere-toolkit-with-openai/stores"
)

type nilStore struct{ stores.Store }

func TestRetentionJanitor_BuiltFromConfig(t *testing.T) {
	deps := Dependencies{
		Config: &toolkit.Config{Retention: 30 * 24 * time.Hour},
		Store:  &nilStore{},
	}
	if retentionJanitor(deps) == nil {
		t.Error("Expected a janitor when the config sets a retention window")
	}
}

func TestRetentionJanitor_DisabledWithoutRetention(t *testing.T) {
	deps := Dependencies{
		Config: &toolkit.Config{},
		Store:  &nilStore{},
	}
	if retentionJanitor(deps) != nil {
		t.Error("Expected no janitor without a retention window")
	}
	if retentionJanitor(Dependencies{Store: &nilStore{}}) != nil {
		t.Error("Expected no janitor without a config")
	}
}
