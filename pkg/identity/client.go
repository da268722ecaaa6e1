package identity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// Client verifies provider ID tokens against the hosted identity toolkit.
// The frontend signs the user in with the provider SDK and hands us the ID
// token; we never see credentials.
type Client struct {
	ProjectID string
	APIKey    string
	baseURL   string
}

type UserInfo struct {
	UID    string `json:"localId"`
	Name   string `json:"displayName"`
	Email  string `json:"email"`
	Avatar string `json:"photoUrl"`
}

func NewClient(projectID, apiKey string) *Client {
	return &Client{
		ProjectID: projectID,
		APIKey:    apiKey,
		baseURL:   "https://identitytoolkit.googleapis.com/v1",
	}
}

// VerifyIDToken exchanges a provider ID token for the account record. An
// invalid or expired token comes back as an error from the provider.
func (c *Client) VerifyIDToken(idToken string) (*UserInfo, error) {
	body, err := json.Marshal(map[string]string{"idToken": idToken})
	if err != nil {
		return nil, fmt.Errorf("encode lookup req: %w", err)
	}
	url := fmt.Sprintf("%s/accounts:lookup?key=%s", c.baseURL, c.APIKey)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request account lookup: %w", err)
	}
	defer resp.Body.Close()

	respBytes, _ := io.ReadAll(resp.Body)

	var result struct {
		Users []UserInfo `json:"users"`
		Error *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error,omitempty"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return nil, fmt.Errorf("decode lookup resp: %w (body: %s)", err, string(respBytes))
	}
	if result.Error != nil {
		return nil, fmt.Errorf("verify id token failed (code=%d): %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Users) == 0 {
		return nil, fmt.Errorf("no account for token (body: %s)", string(respBytes))
	}
	return &result.Users[0], nil
}
