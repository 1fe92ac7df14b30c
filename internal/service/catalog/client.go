package catalog

import (
	"VoiceCart/entity"
	"VoiceCart/internal/lib/sl"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

type menuResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Menu    entity.MenuDocument `json:"menu"`
}

// Client reads menus from the POS catalog API.
type Client struct {
	baseURL     string
	http        *http.Client
	credentials *CredentialProvider
	log         *slog.Logger
}

func NewClient(baseURL string, credentials *CredentialProvider, timeout time.Duration, log *slog.Logger) *Client {
	httpClient := &http.Client{Timeout: timeout}
	if credentials != nil {
		httpClient.Transport = &oauth2.Transport{Source: credentials}
	}
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		http:        httpClient,
		credentials: credentials,
		log:         log.With(sl.Module("catalog.client")),
	}
}

// FetchMenu returns nil when the catalog has no menu for the key.
func (c *Client) FetchMenu(ctx context.Context, restaurantKey string) (*entity.MenuDocument, error) {
	endpoint := fmt.Sprintf("%s/menus/%s", c.baseURL, url.PathEscape(restaurantKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	case http.StatusUnauthorized:
		if c.credentials != nil {
			c.credentials.Invalidate()
		}
		return nil, fmt.Errorf("catalog rejected credentials")
	default:
		return nil, fmt.Errorf("request failed with status: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var response menuResponse
	if err = json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if !response.Success {
		return nil, fmt.Errorf("response indicated failure: %s", response.Message)
	}
	if response.Menu.RestaurantKey == "" {
		response.Menu.RestaurantKey = restaurantKey
	}

	c.log.With(
		slog.String("restaurant", restaurantKey),
		slog.Int("items", len(response.Menu.Items)),
	).Debug("menu fetched")

	return &response.Menu, nil
}
