// AngelaMos | 2026
// directory.go

package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultLookupURL = "https://identitytoolkit.googleapis.com/v1/accounts:lookup"

// Directory resolves provider account metadata (currently the email address)
// for display purposes. Callers are expected to degrade gracefully when a
// lookup fails; nothing here is load-bearing for authorization.
type Directory struct {
	apiKey    string
	lookupURL string
	client    *http.Client
}

func NewDirectory(apiKey string) *Directory {
	return &Directory{
		apiKey:    apiKey,
		lookupURL: defaultLookupURL,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

type lookupRequest struct {
	LocalID []string `json:"localId"`
}

type lookupResponse struct {
	Users []struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	} `json:"users"`
}

func (d *Directory) Email(ctx context.Context, uid string) (string, error) {
	if d.apiKey == "" {
		return "", fmt.Errorf("directory lookup disabled: no api key configured")
	}

	body, err := json.Marshal(lookupRequest{LocalID: []string{uid}})
	if err != nil {
		return "", fmt.Errorf("marshal lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.lookupURL+"?key="+d.apiKey,
		bytes.NewReader(body),
	)
	if err != nil {
		return "", fmt.Errorf("build lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("account lookup: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("account lookup: unexpected status %d", resp.StatusCode)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decode lookup response: %w", err)
	}

	if len(decoded.Users) == 0 {
		return "", fmt.Errorf("account lookup: no record for uid")
	}

	return decoded.Users[0].Email, nil
}
