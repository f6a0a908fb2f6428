package renderer_test

import (
	"slices"
	"testing"

	"github.com/pagesnap/pagesnap/internal/logging"
	"github.com/pagesnap/pagesnap/internal/renderer"
	"github.com/pagesnap/pagesnap/internal/testutil"
)

func TestNewRenderer_UnregisteredBackend(t *testing.T) {
	t.Parallel()
	cfg := renderer.Config{Backend: "definitely-not-registered"}

	if _, err := renderer.NewRenderer(cfg, &testutil.DummyLogger{}); err == nil {
		t.Fatal("NewRenderer succeeded for an unregistered backend")
	}
}

func TestNewRenderer_RegisteredStub(t *testing.T) {
	t.Parallel()
	stub := &testutil.DummyRenderer{CreateFile: true}
	renderer.RegisterBackend("factory-test-stub", testutil.StubBackendConstructor(stub))

	r, err := renderer.NewRenderer(renderer.Config{Backend: "factory-test-stub"}, nil)
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}
	if r != stub {
		t.Fatal("NewRenderer returned a different renderer than registered")
	}

	if !slices.Contains(renderer.ListBackends(), "factory-test-stub") {
		t.Error("ListBackends does not include the registered backend")
	}
}

func TestNewRenderer_BackendNameIsCaseInsensitive(t *testing.T) {
	t.Parallel()
	stub := &testutil.DummyRenderer{}
	renderer.RegisterBackend("Factory-Test-Case", testutil.StubBackendConstructor(stub))

	if _, err := renderer.NewRenderer(renderer.Config{Backend: "factory-test-case"}, nil); err != nil {
		t.Fatalf("NewRenderer with lower-cased name: %v", err)
	}
}

func TestNewRenderer_EmptyBackendDefaultsToChrome(t *testing.T) {
	t.Parallel()
	renderer.RegisterDefaultBackends()

	// The chrome backend never probes for the binary at construction, so
	// this works on hosts without a browser installed.
	r, err := renderer.NewRenderer(renderer.Config{Headless: true}, logging.NewStdoutLogger("test"))
	if err != nil {
		t.Fatalf("NewRenderer with empty backend: %v", err)
	}
	defer r.Close()

	if _, ok := r.(*renderer.ChromeExecRenderer); !ok {
		t.Fatalf("default backend is %T, want *ChromeExecRenderer", r)
	}
}

func TestRegisterBackend_IgnoresEmptyNameAndNilCtor(t *testing.T) {
	t.Parallel()
	renderer.RegisterBackend("", testutil.StubBackendConstructor(&testutil.DummyRenderer{}))
	renderer.RegisterBackend("factory-test-nil", nil)

	if slices.Contains(renderer.ListBackends(), "") {
		t.Error("empty backend name was registered")
	}
	if slices.Contains(renderer.ListBackends(), "factory-test-nil") {
		t.Error("nil constructor was registered")
	}
}
