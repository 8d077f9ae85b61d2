package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultLoginBase = "https://login.microsoftonline.com"
	defaultGraphBase = "https://graph.microsoft.com/v1.0"

	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	authAttempts = 3
)

// authRetryDelay is a var so tests can shrink it.
var authRetryDelay = time.Second

// Credentials are the three app-registration secrets the client-credentials
// flow needs. They come from the environment or the OS keychain, never from
// config files.
type Credentials struct {
	ClientID     string
	ClientSecret string
	TenantID     string
}

func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.TenantID != ""
}

// Client uploads a workbook to a OneDrive and shares it. The pipeline
// treats it purely as a sink: bytes + filename + recipients in, share link
// or error out.
type Client struct {
	creds Credentials
	hc    *http.Client

	// overridable for tests
	LoginBase string
	GraphBase string

	token  string
	userID string
}

func New(creds Credentials) *Client {
	return &Client{
		creds:     creds,
		hc:        &http.Client{Timeout: 60 * time.Second},
		LoginBase: defaultLoginBase,
		GraphBase: defaultGraphBase,
	}
}

// Authenticate runs the client-credentials exchange and resolves the drive
// owner's user id. Three attempts with a short sleep; exhausting them is
// terminal for the upload stage.
func (c *Client) Authenticate(ctx context.Context, targetUser string) error {
	var lastErr error
	for attempt := 1; attempt <= authAttempts; attempt++ {
		if lastErr = c.authenticateOnce(ctx, targetUser); lastErr == nil {
			return nil
		}
		log.Printf("[upload] auth attempt %d/%d failed: %v", attempt, authAttempts, lastErr)
		if attempt < authAttempts {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(authRetryDelay):
			}
		}
	}
	return fmt.Errorf("onedrive auth failed after %d attempts: %w", authAttempts, lastErr)
}

func (c *Client) authenticateOnce(ctx context.Context, targetUser string) error {
	tokenURL := fmt.Sprintf("%s/%s/oauth2/v2.0/token", c.LoginBase, c.creds.TenantID)
	form := url.Values{
		"client_id":     {c.creds.ClientID},
		"client_secret": {c.creds.ClientSecret},
		"scope":         {"https://graph.microsoft.com/.default"},
		"grant_type":    {"client_credentials"},
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL,
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.hc.Do(req)
	if err != nil {
		return fmt.Errorf("token request: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("token request: status %d", res.StatusCode)
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(res.Body).Decode(&tok); err != nil {
		return fmt.Errorf("token decode: %w", err)
	}
	if tok.AccessToken == "" {
		return fmt.Errorf("token response missing access_token")
	}
	c.token = tok.AccessToken

	// resolve the drive owner
	var user struct {
		ID string `json:"id"`
	}
	if err := c.getJSON(ctx, c.GraphBase+"/users/"+url.PathEscape(targetUser), &user); err != nil {
		return fmt.Errorf("resolve user %q: %w", targetUser, err)
	}
	if user.ID == "" {
		return fmt.Errorf("user %q has no id", targetUser)
	}
	c.userID = user.ID
	return nil
}

// UploadAndShare puts the workbook into the drive root, invites the
// recipients (best-effort), and returns an organization view link.
func (c *Client) UploadAndShare(ctx context.Context, file []byte, filename string, recipients []string) (string, error) {
	if c.token == "" || c.userID == "" {
		return "", fmt.Errorf("not authenticated")
	}

	uploadURL := fmt.Sprintf("%s/users/%s/drive/root:/%s:/content",
		c.GraphBase, c.userID, url.PathEscape(filename))

	req, _ := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(file))
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", xlsxContentType)

	res, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK && res.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("upload: status %d", res.StatusCode)
	}

	var item struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(res.Body).Decode(&item); err != nil || item.ID == "" {
		return "", fmt.Errorf("upload: response missing item id")
	}
	log.Printf("[upload] uploaded %s item=%s bytes=%d", filename, item.ID, len(file))

	c.invite(ctx, item.ID, recipients)

	return c.createLink(ctx, item.ID)
}

// invite shares the item with the team. Failures are logged and swallowed;
// the link is what matters.
func (c *Client) invite(ctx context.Context, itemID string, recipients []string) {
	if len(recipients) == 0 {
		return
	}

	type recipient struct {
		Email string `json:"email"`
	}
	body := struct {
		Recipients     []recipient `json:"recipients"`
		Message        string      `json:"message"`
		RequireSignIn  bool        `json:"requireSignIn"`
		SendInvitation bool        `json:"sendInvitation"`
		Roles          []string    `json:"roles"`
	}{
		Message:        "C2C AI/ML job results - auto-generated",
		RequireSignIn:  true,
		SendInvitation: true,
		Roles:          []string{"read"},
	}
	for _, email := range recipients {
		email = strings.TrimSpace(email)
		if email != "" {
			body.Recipients = append(body.Recipients, recipient{Email: email})
		}
	}
	if len(body.Recipients) == 0 {
		return
	}

	inviteURL := fmt.Sprintf("%s/users/%s/drive/items/%s/invite", c.GraphBase, c.userID, itemID)
	if err := c.postJSON(ctx, inviteURL, body, nil); err != nil {
		log.Printf("[upload] share invite failed: %v", err)
		return
	}
	log.Printf("[upload] shared with %d recipients", len(body.Recipients))
}

func (c *Client) createLink(ctx context.Context, itemID string) (string, error) {
	linkURL := fmt.Sprintf("%s/users/%s/drive/items/%s/createLink", c.GraphBase, c.userID, itemID)
	body := map[string]string{"type": "view", "scope": "organization"}

	var out struct {
		Link struct {
			WebURL string `json:"webUrl"`
		} `json:"link"`
	}
	if err := c.postJSON(ctx, linkURL, body, &out); err != nil {
		return "", fmt.Errorf("create link: %w", err)
	}
	if out.Link.WebURL == "" {
		return "", fmt.Errorf("create link: response missing webUrl")
	}
	return out.Link.WebURL, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	req.Header.Set("Authorization", "Bearer "+c.token)

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}

func (c *Client) postJSON(ctx context.Context, rawURL string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("status %d", res.StatusCode)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, res.Body)
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
