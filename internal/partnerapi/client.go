package partnerapi

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/partner-portal/internal/domain"
)

// Client posts signup requests to the remote partner signup service.
type Client struct {
	url     string
	timeout time.Duration
}

// NewClient targets the absolute signup URL. A zero timeout leaves the
// request unbounded.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, timeout: timeout}
}

// URL returns the signup endpoint.
func (c *Client) URL() string {
	return c.url
}

// Signup sends req as a JSON body and returns the status and full body.
// The context is only checked before sending; an in-flight request is not
// cancelled.
func (c *Client) Signup(ctx context.Context, req domain.SignupRequest) (domain.SignupResponse, error) {
	if err := ctx.Err(); err != nil {
		return domain.SignupResponse{}, err
	}

	agent := fiber.Post(c.url).JSON(req)
	if c.timeout > 0 {
		agent.Timeout(c.timeout)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return domain.SignupResponse{}, errors.Join(errs...)
	}
	return domain.SignupResponse{Status: status, Body: body}, nil
}
