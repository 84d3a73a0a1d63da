package logger

import "testing"

func TestSanitizeKVs_RedactsSecrets(t *testing.T) {
	in := []interface{}{"username", "educator", "password", "edu123", "api_key", "sk-1", "count", 5}
	out := sanitizeKVs(in)

	if len(out) != len(in) {
		t.Fatalf("expected %d values, got %d", len(in), len(out))
	}
	if out[1] != "educator" {
		t.Errorf("expected username to pass through, got %v", out[1])
	}
	if out[3] != "[REDACTED]" {
		t.Errorf("expected password redacted, got %v", out[3])
	}
	if out[5] != "[REDACTED]" {
		t.Errorf("expected api_key redacted, got %v", out[5])
	}
	if out[7] != 5 {
		t.Errorf("expected count to pass through, got %v", out[7])
	}
}

func TestSanitizeKVs_OddLength(t *testing.T) {
	out := sanitizeKVs([]interface{}{"a", 1, "dangling"})
	if len(out) != 3 || out[2] != "dangling" {
		t.Errorf("expected dangling key preserved, got %v", out)
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	log := Nop().With("session_token", "abc")
	log.Info("hello", "k", "v")
	log.Sync()
}
