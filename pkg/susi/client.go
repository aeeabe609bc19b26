package susi

import (
	"encoding/json"
	"fmt"
	"io"
	log "log/slog"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/MuhammadWasif/susi-linux/internal/fault"
	"github.com/MuhammadWasif/susi-linux/pkg/reply"
)

const DefaultEndpoint = "https://api.susi.ai"

// Client talks to a SUSI dialogue server. Ask is called only from the
// control-loop goroutine; UseAPIEndpoint may be called from the server
// checker goroutine, hence the endpoint lock.
type Client struct {
	http *http.Client

	mu       sync.Mutex
	endpoint string

	accessToken string
	location    *location
	tzOffsetMin int
}

type location struct {
	Longitude   float64
	Latitude    float64
	CountryName string
	CountryCode string
}

func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	_, offset := time.Now().Zone()
	return &Client{
		http:        httpClient,
		endpoint:    DefaultEndpoint,
		tzOffsetMin: -offset / 60,
	}
}

// UseAPIEndpoint pins the chat endpoint, typically once the background
// server checker finds a reachable local server.
func (c *Client) UseAPIEndpoint(endpoint string) {
	c.mu.Lock()
	c.endpoint = endpoint
	c.mu.Unlock()
	log.Info("Using api endpoint", "endpoint", endpoint)
}

func (c *Client) Endpoint() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.endpoint
}

// UpdateLocation attaches the device location to subsequent queries.
func (c *Client) UpdateLocation(lon, lat float64, countryName, countryCode string) {
	c.location = &location{
		Longitude:   lon,
		Latitude:    lat,
		CountryName: countryName,
		CountryCode: countryCode,
	}
}

// SignIn authenticates against the server and keeps the access token
// for subsequent queries.
func (c *Client) SignIn(email, password string) error {
	q := url.Values{}
	q.Set("login", email)
	q.Set("password", password)
	q.Set("type", "access-token")

	u := fmt.Sprintf("%s/aaa/login.json?%s", c.Endpoint(), q.Encode())
	resp, err := c.http.Get(u)
	if err != nil {
		return fault.Errorf(fault.ConnectionError, "sign in: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("sign in: status %s", resp.Status)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("sign in: decode: %w", err)
	}
	if body.AccessToken == "" {
		return fmt.Errorf("sign in: no access token in response")
	}
	c.accessToken = body.AccessToken
	return nil
}

// Ask sends the recognized text to the dialogue server and returns its
// structured reply. Unreachable server maps to a ConnectionError fault.
func (c *Client) Ask(text, language string) (*reply.Reply, error) {
	q := url.Values{}
	q.Set("q", text)
	q.Set("timezoneOffset", strconv.Itoa(c.tzOffsetMin))
	if language != "" {
		q.Set("language", language)
	}
	if c.accessToken != "" {
		q.Set("access_token", c.accessToken)
	}
	if c.location != nil {
		q.Set("longitude", strconv.FormatFloat(c.location.Longitude, 'f', -1, 64))
		q.Set("latitude", strconv.FormatFloat(c.location.Latitude, 'f', -1, 64))
		q.Set("country_name", c.location.CountryName)
		q.Set("country_code", c.location.CountryCode)
	}

	u := fmt.Sprintf("%s/susi/chat.json?%s", c.Endpoint(), q.Encode())
	log.Debug("Asking dialogue server", "q", text)

	resp, err := c.http.Get(u)
	if err != nil {
		return nil, fault.Errorf(fault.ConnectionError, "ask: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ask: status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fault.Errorf(fault.ConnectionError, "ask: read body: %w", err)
	}
	return decodeReply(data)
}

// decodeReply accepts either the flat action mapping or the full server
// envelope carrying it under answers[0].
func decodeReply(data []byte) (*reply.Reply, error) {
	var envelope struct {
		Answers []json.RawMessage `json:"answers"`
	}
	if err := json.Unmarshal(data, &envelope); err == nil && len(envelope.Answers) > 0 {
		return reply.Parse(envelope.Answers[0])
	}
	return reply.Parse(data)
}
