package client

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"bookable/pkg/model"
)

const defaultHealthWait = 30 * time.Second

type AppointmentClient struct {
	httpClient *HttpClient
}

func NewAppointmentClient(baseURL string) *AppointmentClient {
	return &AppointmentClient{
		httpClient: NewHttpClient(baseURL),
	}
}

func (c *AppointmentClient) As(identity string) *AppointmentClient {
	return &AppointmentClient{httpClient: c.httpClient.WithIdentity(identity)}
}

func (c *AppointmentClient) Book(body any) (*Response, error) {
	return c.httpClient.POST("/api/v1/appointments", body)
}

func (c *AppointmentClient) BookRaw(rawBody []byte) (*Response, error) {
	return c.httpClient.POSTRaw("/api/v1/appointments", rawBody)
}

func (c *AppointmentClient) ListActive() (*Response, error) {
	return c.httpClient.GET("/api/v1/appointments")
}

func (c *AppointmentClient) GetByID(id string) (*Response, error) {
	return c.httpClient.GET("/api/v1/appointments/id/" + url.PathEscape(id))
}

func (c *AppointmentClient) Cancel(id string) (*Response, error) {
	return c.httpClient.POST("/api/v1/appointments/id/"+url.PathEscape(id)+"/cancel", nil)
}

func (c *AppointmentClient) WaitForHealthy() error {
	return c.httpClient.WaitForHealthy(defaultHealthWait)
}

func (c *AppointmentClient) DecodeAppointment(resp *Response) (*model.Appointment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode appointment wrapper:\n%s\n%s", resp.ToString(), err)
	}

	var appointment model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appointment); err != nil {
		return nil, fmt.Errorf("could not decode appointment json:\n%s\n%s", resp.ToString(), err)
	}
	return &appointment, nil
}

func (c *AppointmentClient) DecodeAppointments(resp *Response) ([]*model.Appointment, error) {
	var wrapper struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body, &wrapper); err != nil {
		return nil, fmt.Errorf("could not decode appointments wrapper:\n%s\n%s", resp.ToString(), err)
	}

	var appointments []*model.Appointment
	if err := json.Unmarshal(wrapper.Data, &appointments); err != nil {
		return nil, fmt.Errorf("could not decode appointment list:\n%s\n%s", resp.ToString(), err)
	}
	return appointments, nil
}
