package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"bookable/pkg/model"
)

type AvailabilityClient struct {
	httpClient *HttpClient
}

func NewAvailabilityClient(baseURL string) *AvailabilityClient {
	return &AvailabilityClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AvailabilityClient) As(identity string) *AvailabilityClient {
	return &AvailabilityClient{httpClient: c.httpClient.WithIdentity(identity)}
}

func (c *AvailabilityClient) GetForSeller(sellerID, date string) (*Response, error) {
	path := fmt.Sprintf("/api/v1/sellers/id/%s/availability?date=%s",
		url.PathEscape(sellerID), url.QueryEscape(date))
	return c.httpClient.GET(path)
}

func (c *AvailabilityClient) GetMine(date string) (*Response, error) {
	return c.httpClient.GET("/api/v1/availability?date=" + url.QueryEscape(date))
}

func (c *AvailabilityClient) Put(date string, slots []model.TimeSlot) (*Response, error) {
	path := "/api/v1/availability?date=" + url.QueryEscape(date)
	return c.httpClient.PUT(path, map[string]any{"slots": slots})
}

func (c *AvailabilityClient) Suggest(date string) (*Response, error) {
	return c.httpClient.GET("/api/v1/availability/suggest?date=" + url.QueryEscape(date))
}

func (c *AvailabilityClient) WaitForHealthy() error {
	return c.httpClient.WaitForHealthy(defaultHealthWait)
}

func (c *AvailabilityClient) DecodeAvailability(resp *Response) (*model.Availability, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode availability wrapper:\n%s\n%s", resp.ToString(), err)
	}

	var availability model.Availability
	if err := json.Unmarshal(wrapper.Data, &availability); err != nil {
		return nil, fmt.Errorf("could not decode availability json:\n%s\n%s", resp.ToString(), err)
	}
	return &availability, nil
}
