package calendar

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"bookable/pkg/model"
)

const primaryCalendar = "primary"

// GoogleProvider talks to the Google Calendar v3 REST API with each party's
// own OAuth access token.
type GoogleProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewGoogleProvider(baseURL string, timeout time.Duration) *GoogleProvider {
	return &GoogleProvider{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type googleEventTime struct {
	DateTime string `json:"dateTime"`
	TimeZone string `json:"timeZone,omitempty"`
}

type googleAttendee struct {
	Email string `json:"email"`
}

type googleConferenceRequest struct {
	CreateRequest struct {
		RequestID             string            `json:"requestId"`
		ConferenceSolutionKey map[string]string `json:"conferenceSolutionKey"`
	} `json:"createRequest"`
}

type googleEventBody struct {
	Summary        string                   `json:"summary"`
	Description    string                   `json:"description,omitempty"`
	Start          googleEventTime          `json:"start"`
	End            googleEventTime          `json:"end"`
	Attendees      []googleAttendee         `json:"attendees,omitempty"`
	ConferenceData *googleConferenceRequest `json:"conferenceData,omitempty"`
}

type googleEventResponse struct {
	ID             string `json:"id"`
	ConferenceData struct {
		EntryPoints []struct {
			URI string `json:"uri"`
		} `json:"entryPoints"`
	} `json:"conferenceData"`
}

func (p *GoogleProvider) CreateEvent(ctx context.Context, cred Credential, event Event) (*CreatedEvent, error) {
	body := googleEventBody{
		Summary:     event.Summary,
		Description: event.Description,
		Start:       googleEventTime{DateTime: event.Start.Format(time.RFC3339), TimeZone: event.TimeZone},
		End:         googleEventTime{DateTime: event.End.Format(time.RFC3339), TimeZone: event.TimeZone},
	}
	for _, email := range event.Attendees {
		body.Attendees = append(body.Attendees, googleAttendee{Email: email})
	}
	if event.RequestID != "" {
		conf := &googleConferenceRequest{}
		conf.CreateRequest.RequestID = event.RequestID
		conf.CreateRequest.ConferenceSolutionKey = map[string]string{"type": "hangoutsMeet"}
		body.ConferenceData = conf
	}

	path := fmt.Sprintf("/calendars/%s/events?conferenceDataVersion=1", primaryCalendar)
	respBody, err := p.do(ctx, cred, http.MethodPost, path, body)
	if err != nil {
		return nil, err
	}

	var created googleEventResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return nil, fmt.Errorf("failed to decode event response: %w", err)
	}

	out := &CreatedEvent{EventID: created.ID}
	if len(created.ConferenceData.EntryPoints) > 0 {
		out.MeetingLink = created.ConferenceData.EntryPoints[0].URI
	}
	return out, nil
}

func (p *GoogleProvider) DeleteEvent(ctx context.Context, cred Credential, eventID string) error {
	path := fmt.Sprintf("/calendars/%s/events/%s", primaryCalendar, url.PathEscape(eventID))
	_, err := p.do(ctx, cred, http.MethodDelete, path, nil)
	return err
}

func (p *GoogleProvider) FreeBusy(ctx context.Context, cred Credential, from, to time.Time) ([]model.BusyInterval, error) {
	body := map[string]any{
		"timeMin": from.Format(time.RFC3339),
		"timeMax": to.Format(time.RFC3339),
		"items":   []map[string]string{{"id": primaryCalendar}},
	}

	respBody, err := p.do(ctx, cred, http.MethodPost, "/freeBusy", body)
	if err != nil {
		return nil, err
	}

	var decoded struct {
		Calendars map[string]struct {
			Busy []struct {
				Start time.Time `json:"start"`
				End   time.Time `json:"end"`
			} `json:"busy"`
		} `json:"calendars"`
	}
	if err := json.Unmarshal(respBody, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode free/busy response: %w", err)
	}

	var busy []model.BusyInterval
	for _, window := range decoded.Calendars[primaryCalendar].Busy {
		busy = append(busy, model.BusyInterval{Start: window.Start, End: window.End})
	}
	return busy, nil
}

func (p *GoogleProvider) do(ctx context.Context, cred Credential, method, path string, body any) ([]byte, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+cred.AccessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calendar request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read calendar response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("calendar API returned %d: %s", resp.StatusCode, respBody)
	}
	return respBody, nil
}
