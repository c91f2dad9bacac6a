package preview

import "testing"

func TestState_String_Loading(t *testing.T) {
	if s := StateLoading.String(); s != "loading" {
		t.Errorf("expected 'loading', got %q", s)
	}
}

func TestState_String_Healthy(t *testing.T) {
	if s := StateHealthy.String(); s != "healthy" {
		t.Errorf("expected 'healthy', got %q", s)
	}
}

func TestState_String_Degraded(t *testing.T) {
	if s := StateDegraded.String(); s != "degraded" {
		t.Errorf("expected 'degraded', got %q", s)
	}
}

func TestState_String_Empty(t *testing.T) {
	if s := StateEmpty.String(); s != "empty" {
		t.Errorf("expected 'empty', got %q", s)
	}
}

func TestState_String_Faulted(t *testing.T) {
	if s := StateFaulted.String(); s != "faulted" {
		t.Errorf("expected 'faulted', got %q", s)
	}
}

func TestState_String_Unknown(t *testing.T) {
	unknown := State(999)
	if s := unknown.String(); s != "unknown" {
		t.Errorf("expected 'unknown', got %q", s)
	}
}

func TestState_Values(t *testing.T) {
	// Loading must stay the zero value so a fresh Session reports it.
	if StateLoading != 0 {
		t.Errorf("expected StateLoading=0, got %d", StateLoading)
	}
	if StateFaulted != 4 {
		t.Errorf("expected StateFaulted=4, got %d", StateFaulted)
	}
}
