package bridge

import "testing"

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	fake := NewFakeBridge()
	reg.Register("editor", fake)

	if got := reg.Get("editor"); got != Bridge(fake) {
		t.Error("expected the registered instance back")
	}
	if reg.Get("missing") != nil {
		t.Error("expected nil for an unregistered key")
	}
}

func TestRegistry_EmptyKeyIsDefault(t *testing.T) {
	reg := NewRegistry()
	fake := NewFakeBridge()
	reg.Register("", fake)

	if reg.Get(DefaultKey) == nil {
		t.Error("expected empty-key registration under the default key")
	}
	if reg.Get("") == nil {
		t.Error("expected empty-key lookup to resolve the default")
	}

	reg.Unregister("")
	if reg.Get(DefaultKey) != nil {
		t.Error("expected empty-key unregistration to clear the default")
	}
}

func TestRegistry_ReplaceAndKeys(t *testing.T) {
	reg := NewRegistry()
	first := NewFakeBridge()
	second := NewFakeBridge()
	reg.Register("app", first)
	reg.Register("app", second)
	reg.Register("zeta", first)
	reg.Register("alpha", first)

	if got := reg.Get("app"); got != Bridge(second) {
		t.Error("expected re-registration to replace the instance")
	}
	keys := reg.Keys()
	if len(keys) != 3 || keys[0] != "alpha" || keys[1] != "app" || keys[2] != "zeta" {
		t.Errorf("expected sorted keys, got %v", keys)
	}
}
