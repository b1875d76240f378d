package client

import (
	"encoding/json"
	"fmt"
	"net/url"

	"bookable/pkg/model"
)

type SellerClient struct {
	httpClient *HttpClient
}

func NewSellerClient(baseURL string) *SellerClient {
	return &SellerClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *SellerClient) As(identity string) *SellerClient {
	return &SellerClient{httpClient: c.httpClient.WithIdentity(identity)}
}

func (c *SellerClient) List(limit int, offset int64) (*Response, error) {
	path := fmt.Sprintf("/api/v1/sellers?limit=%d&offset=%d", limit, offset)
	return c.httpClient.GET(path)
}

func (c *SellerClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/sellers/id/" + url.PathEscape(id))
}

func (c *SellerClient) GetProfile() (*Response, error) {
	return c.httpClient.GET("/api/v1/sellers/me")
}

func (c *SellerClient) UpsertProfile(body any) (*Response, error) {
	return c.httpClient.PUT("/api/v1/sellers/me", body)
}

func (c *SellerClient) WaitForHealthy() error {
	return c.httpClient.WaitForHealthy(defaultHealthWait)
}

func (c *SellerClient) DecodeSeller(resp *Response) (*model.Seller, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode seller wrapper:\n%s\n%s", resp.ToString(), err)
	}

	var seller model.Seller
	if err := json.Unmarshal(wrapper.Data, &seller); err != nil {
		return nil, fmt.Errorf("could not decode seller json:\n%s\n%s", resp.ToString(), err)
	}
	return &seller, nil
}

func (c *SellerClient) DecodeSellers(resp *Response) ([]*model.Seller, *Metadata, error) {
	var wrapper struct {
		Data       json.RawMessage `json:"data"`
		TotalCount int64           `json:"total_count"`
		Limit      int             `json:"limit"`
		Offset     int64           `json:"offset"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, nil, fmt.Errorf("could not decode paginated resp:\n%s\n%s", resp.ToString(), err)
	}

	var sellers []*model.Seller
	if err := json.Unmarshal(wrapper.Data, &sellers); err != nil {
		return nil, nil, fmt.Errorf("could not decode seller list:\n%s\n%s", resp.ToString(), err)
	}

	return sellers, &Metadata{
		TotalCount: wrapper.TotalCount,
		Limit:      wrapper.Limit,
		Offset:     wrapper.Offset,
	}, nil
}
