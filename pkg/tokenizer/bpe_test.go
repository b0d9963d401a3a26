package tokenizer

import "testing"

func TestNewBPE_CountsTokens(t *testing.T) {
	bpe, err := NewBPE("")
	if err != nil {
		t.Skipf("encoding unavailable: %v", err)
	}
	count, err := bpe.Count("Whoever causes death by doing an act shall be punished.")
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if count == 0 {
		t.Error("expected a non-zero token count")
	}
}

func TestNewBPE_UnknownEncodingErrors(t *testing.T) {
	if _, err := NewBPE("no-such-encoding"); err == nil {
		t.Fatal("expected error for unknown encoding")
	}
}
