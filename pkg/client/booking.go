package client

import (
	"context"
	"net/url"
	"strconv"

	"roombook/pkg/model"
)

type BookingClient struct {
	httpClient *HttpClient
}

func NewBookingClient(baseURL string) *BookingClient {
	return &BookingClient{
		httpClient: NewHttpClient(baseURL),
	}
}

// HTTP exposes the underlying client, e.g. to set an Origin header.
func (c *BookingClient) HTTP() *HttpClient {
	return c.httpClient
}

func (c *BookingClient) ValidatePIN(ctx context.Context, pin string) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/validate-pin", model.PinRequest{Pin: pin})
}

func (c *BookingClient) Add(ctx context.Context, req model.AddBookingRequest) (*Response, error) {
	return c.httpClient.POST(ctx, "/api/bookings", req)
}

func (c *BookingClient) AddIdempotent(ctx context.Context, req model.AddBookingRequest, key string) (*Response, error) {
	return c.httpClient.POSTWithHeaders(ctx, "/api/bookings", req, map[string]string{
		"Idempotency-Key": key,
	})
}

func (c *BookingClient) GetAll(ctx context.Context) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/bookings")
}

func (c *BookingClient) Get(ctx context.Context, date string) (*Response, error) {
	return c.httpClient.GET(ctx, "/api/bookings/"+url.PathEscape(date))
}

func (c *BookingClient) Remove(ctx context.Context, date string, index int) (*Response, error) {
	return c.httpClient.DELETE(ctx, "/api/bookings/"+url.PathEscape(date)+"/"+strconv.Itoa(index))
}
