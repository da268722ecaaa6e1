package identity

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

// Tokens are attacker-supplied strings; the lookup body must stay valid
// JSON no matter what characters the token contains.
func TestVerifyIDTokenEncodesToken(t *testing.T) {
	token := `ey"Jh},"injected":"x`

	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("request body is not valid JSON: %v (body: %s)", err, body)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"users":[{"localId":"uid-1","displayName":"Alice","email":"a@example.com"}]}`)
	}))
	defer srv.Close()

	client := &Client{ProjectID: "demo", APIKey: "key", baseURL: srv.URL}
	info, err := client.VerifyIDToken(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if info.UID != "uid-1" {
		t.Errorf("uid = %q, want uid-1", info.UID)
	}
	if got["idToken"] != token {
		t.Errorf("idToken round-trip = %q, want %q", got["idToken"], token)
	}
	if _, ok := got["injected"]; ok {
		t.Errorf("token content leaked into a separate JSON field")
	}
}

func TestVerifyIDTokenProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"error":{"code":400,"message":"INVALID_ID_TOKEN"}}`)
	}))
	defer srv.Close()

	client := &Client{ProjectID: "demo", APIKey: "key", baseURL: srv.URL}
	if _, err := client.VerifyIDToken("bad"); err == nil {
		t.Fatal("expected error for provider rejection")
	}
}
