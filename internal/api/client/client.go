package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"time"

	"github.com/staffeye/internal/models"
	"github.com/spf13/viper"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient() (*Client, error) {
	baseURL := os.Getenv("STAFFEYE_API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// The login command persists the token in the viper config; the env var
	// takes precedence for scripting.
	token := os.Getenv("STAFFEYE_TOKEN")
	if token == "" {
		token = viper.GetString("token")
	}

	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

func (c *Client) Login(email, password string) (string, error) {
	data := map[string]string{
		"email":    email,
		"password": password,
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := c.post("/api/v1/auth/login", data, &result); err != nil {
		return "", err
	}

	c.token = result.Token
	return result.Token, nil
}

func (c *Client) ListSchedules() ([]models.ScheduledTask, error) {
	var tasks []models.ScheduledTask
	if err := c.get("/api/v1/reports/schedules", &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *Client) ToggleSchedule(id uint, active bool) error {
	data := map[string]bool{"active": active}
	return c.put(fmt.Sprintf("/api/v1/reports/schedules/%d/toggle", id), data, nil)
}

func (c *Client) RunScheduleNow(id uint) error {
	return c.post(fmt.Sprintf("/api/v1/reports/schedules/%d/run", id), nil, nil)
}

func (c *Client) ListReports() ([]models.Report, error) {
	var reports []models.Report
	if err := c.get("/api/v1/reports", &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// DownloadReport streams the CSV artifact for a generated report into the
// output file.
func (c *Client) DownloadReport(id uint, output string) error {
	resp, err := c.doRequest(http.MethodGet, fmt.Sprintf("/api/v1/reports/%d/download", id), nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %v", err)
	}
	defer out.Close()

	_, err = io.Copy(out, resp.Body)
	return err
}

func (c *Client) get(endpoint string, v interface{}) error {
	resp, err := c.doRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(v)
}

func (c *Client) post(endpoint string, data, v interface{}) error {
	return c.send(http.MethodPost, endpoint, data, v)
}

func (c *Client) put(endpoint string, data, v interface{}) error {
	return c.send(http.MethodPut, endpoint, data, v)
}

func (c *Client) send(method, endpoint string, data, v interface{}) error {
	var body io.Reader
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %v", err)
		}
		body = bytes.NewReader(jsonData)
	}

	resp, err := c.doRequest(method, endpoint, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if v != nil {
		return json.NewDecoder(resp.Body).Decode(v)
	}
	return nil
}

func (c *Client) doRequest(method, endpoint string, body io.Reader) (*http.Response, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %v", err)
	}
	u.Path = path.Join(u.Path, endpoint)

	req, err := http.NewRequest(method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}

	if resp.StatusCode >= 400 {
		defer resp.Body.Close()
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("API error: %s", errResp.Error)
		}
		return nil, fmt.Errorf("API error: status %d", resp.StatusCode)
	}

	return resp, nil
}
