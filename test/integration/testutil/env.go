package testutil

import (
	"os"
	"testing"

	"bookable/pkg/client"
)

// TestEnv points the black-box suite at running service instances. The
// suite is opt-in: without TEST_SELLERS_URL set it skips, so plain unit runs
// stay self-contained.
type TestEnv struct {
	SellersURL      string
	AvailabilityURL string
	AppointmentsURL string
}

func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	sellersURL := os.Getenv("TEST_SELLERS_URL")
	if sellersURL == "" {
		t.Skip("TEST_SELLERS_URL not set; skipping integration suite")
	}
	return &TestEnv{
		SellersURL:      sellersURL,
		AvailabilityURL: getEnv("TEST_AVAILABILITY_URL", "http://localhost:8081"),
		AppointmentsURL: getEnv("TEST_APPOINTMENTS_URL", "http://localhost:8082"),
	}
}

func (e *TestEnv) Sellers(t *testing.T) *client.SellerClient {
	t.Helper()
	c := client.NewSellerClient(e.SellersURL)
	if err := c.WaitForHealthy(); err != nil {
		t.Fatalf("sellers service not healthy: %v", err)
	}
	return c
}

func (e *TestEnv) Availability(t *testing.T) *client.AvailabilityClient {
	t.Helper()
	c := client.NewAvailabilityClient(e.AvailabilityURL)
	if err := c.WaitForHealthy(); err != nil {
		t.Fatalf("availability service not healthy: %v", err)
	}
	return c
}

func (e *TestEnv) Appointments(t *testing.T) *client.AppointmentClient {
	t.Helper()
	c := client.NewAppointmentClient(e.AppointmentsURL)
	if err := c.WaitForHealthy(); err != nil {
		t.Fatalf("appointments service not healthy: %v", err)
	}
	return c
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
