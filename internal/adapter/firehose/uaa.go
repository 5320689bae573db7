package firehose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

var ErrUnauthorized = errors.New("uaa: unauthorized")

const maxTokenResponseSize = 1 << 20

// FetchUAAToken exchanges client credentials for a token and returns it in
// Authorization header form, e.g. "bearer abc".
func FetchUAAToken(ctx context.Context, client *http.Client, uaaURL, username, password string) (string, error) {
	endpoint, err := url.JoinPath(uaaURL, "oauth", "token")
	if err != nil {
		return "", fmt.Errorf("uaa url %q: %w", redactURL(uaaURL), err)
	}

	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("create token request: %w", err)
	}
	req.SetBasicAuth(username, password)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request uaa token: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTokenResponseSize))
	if err != nil {
		return "", fmt.Errorf("read uaa response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", fmt.Errorf("%w: status %d", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	if !gjson.ValidBytes(body) {
		return "", fmt.Errorf("uaa response is not valid JSON")
	}
	parsed := gjson.ParseBytes(body)
	accessToken := parsed.Get("access_token").String()
	tokenType := parsed.Get("token_type").String()
	if accessToken == "" || tokenType == "" {
		return "", fmt.Errorf("%w: token response missing access_token or token_type", ErrUnauthorized)
	}

	return tokenType + " " + accessToken, nil
}
