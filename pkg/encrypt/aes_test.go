package encrypt

import "testing"

func TestAESRoundTrip(t *testing.T) {
	key := "not-exactly-32-bytes"
	plain := "sk-live-abc123"

	enc, err := AESEncrypt(key, plain)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if enc == plain {
		t.Fatal("ciphertext equals plaintext")
	}

	dec, err := AESDecrypt(key, enc)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if dec != plain {
		t.Errorf("round trip = %q, want %q", dec, plain)
	}
}

func TestAESWrongKey(t *testing.T) {
	enc, err := AESEncrypt("key-a", "secret")
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if _, err := AESDecrypt("key-b", enc); err == nil {
		t.Error("decrypt with wrong key should fail")
	}
}

func TestAESDecryptGarbage(t *testing.T) {
	if _, err := AESDecrypt("key", "not base64!!"); err == nil {
		t.Error("expected base64 error")
	}
	if _, err := AESDecrypt("key", "c2hvcnQ="); err == nil {
		t.Error("expected short ciphertext error")
	}
}
