package susi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/MuhammadWasif/susi-linux/internal/fault"
)

const geoURL = "http://ip-api.com/json"

type GeoLocation struct {
	Longitude   float64 `json:"lon"`
	Latitude    float64 `json:"lat"`
	CountryName string  `json:"country"`
	CountryCode string  `json:"countryCode"`
}

// LookupLocation resolves the device's approximate location from its
// public address. Boot-time best effort; failure is non-fatal.
func LookupLocation(httpClient *http.Client) (*GeoLocation, error) {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	resp, err := httpClient.Get(geoURL)
	if err != nil {
		return nil, fault.Errorf(fault.ConnectionError, "location lookup: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("location lookup: status %s", resp.Status)
	}

	var loc GeoLocation
	if err := json.NewDecoder(resp.Body).Decode(&loc); err != nil {
		return nil, fmt.Errorf("location lookup: decode: %w", err)
	}
	return &loc, nil
}
