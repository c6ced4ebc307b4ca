package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/domain"
	"github.com/ANIKETSHETTY47/home-energy-monitor/internal/service"
)

// Client talks to the energy API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("health check failed: %s", resp.Status)
	}
	return nil
}

func (c *Client) Energy(ctx context.Context) (*service.Overview, error) {
	var out service.Overview
	if err := c.getJSON(ctx, "/api/energy", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Chart(ctx context.Context) ([]domain.HourlySample, error) {
	var out []domain.HourlySample
	if err := c.getJSON(ctx, "/api/chart", &out, nil); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Backend(ctx context.Context) (*domain.BackendInfo, error) {
	var out domain.BackendInfo
	if err := c.getJSON(ctx, "/api/backend", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Alerts(ctx context.Context, severity domain.Severity) ([]domain.Alert, error) {
	params := url.Values{}
	if severity != "" {
		params.Set("severity", string(severity))
	}
	var out []domain.Alert
	if err := c.getJSON(ctx, "/api/alerts", &out, params); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Settings(ctx context.Context) (*domain.Settings, error) {
	var out domain.Settings
	if err := c.getJSON(ctx, "/api/settings", &out, nil); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateSettings returns an error wrapping domain.ErrInvalidSettings when the
// API rejects the values.
func (c *Client) UpdateSettings(ctx context.Context, s domain.Settings) (*domain.Settings, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/api/settings", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusBadRequest {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		msg := strings.TrimPrefix(apiErr.Error, domain.ErrInvalidSettings.Error()+": ")
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidSettings, msg)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("update settings failed: %s", resp.Status)
	}
	var out domain.Settings
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any, params url.Values) error {
	u := c.baseURL + path
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("request %s failed: %s", path, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
