package common

import (
	"context"
	"os"
	"testing"
	"time"

	"roombook/pkg/client"
	"roombook/pkg/config"
)

const DefaultServerURL = "http://localhost:8080"

type IntegrationTestSuite struct {
	Config      *config.Config
	Client      *client.BookingClient
	ServiceName string
}

// NewIntegrationTestSuite points a booking client at TEST_SERVER_URL and
// waits for the server to report healthy. The suite skips when it never does.
func NewIntegrationTestSuite(t *testing.T, serviceName string) *IntegrationTestSuite {
	t.Helper()
	cfg := config.Load(serviceName)

	serverURL := os.Getenv("TEST_SERVER_URL")
	if serverURL == "" {
		serverURL = DefaultServerURL
	}

	bookingClient := client.NewBookingClient(serverURL)
	if err := bookingClient.HTTP().WaitForHealthy(context.Background(), 10*time.Second); err != nil {
		t.Skipf("roombook server not reachable at %s: %v", serverURL, err)
	}

	return &IntegrationTestSuite{
		Config:      cfg,
		Client:      bookingClient,
		ServiceName: serviceName,
	}
}

// ClearDate removes every booking on date by repeatedly deleting index 0.
func (s *IntegrationTestSuite) ClearDate(t *testing.T, date string) {
	t.Helper()
	ctx := context.Background()

	for range 1000 {
		resp, err := s.Client.Remove(ctx, date, 0)
		if err != nil {
			t.Fatalf("failed to clear %s: %v", date, err)
		}
		if resp.StatusCode != 200 {
			return
		}
	}
	t.Fatalf("failed to clear %s: too many bookings", date)
}
