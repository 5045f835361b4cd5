package runtime

import "testing"

type stubHandler struct {
	jobType string
}

func (h *stubHandler) Type() string       { return h.jobType }
func (h *stubHandler) Run(*Context) error { return nil }

func TestRegistryRegisterAndGet(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&stubHandler{jobType: "crawl_feed"}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	h, ok := registry.Get("crawl_feed")
	if !ok || h == nil {
		t.Fatalf("registered handler not found")
	}
	if _, ok := registry.Get("unknown_type"); ok {
		t.Fatalf("unknown type must not resolve")
	}
}

func TestRegistryRejectsDuplicatesAndNil(t *testing.T) {
	registry := NewRegistry()

	if err := registry.Register(&stubHandler{jobType: "classify"}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := registry.Register(&stubHandler{jobType: "classify"}); err == nil {
		t.Fatalf("duplicate registration must fail")
	}
	if err := registry.Register(nil); err == nil {
		t.Fatalf("nil handler must fail")
	}
	if err := registry.Register(&stubHandler{jobType: ""}); err == nil {
		t.Fatalf("empty job type must fail")
	}
}
