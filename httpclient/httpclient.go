// Package httpclient builds the resty clients used to reach the dictionary and transformation
// services and defines the error returned when those services can't be reached
package httpclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Option defines an option applied to a client on creation
type Option func(c *resty.Client)

// OptionTimeout sets the timeout applied to every request. A zero value disables the timeout
func OptionTimeout(timeout time.Duration) Option {
	return func(c *resty.Client) {
		c.SetTimeout(timeout)
	}
}

// OptionDebug enables request/response debug logging
func OptionDebug(debug bool) Option {
	return func(c *resty.Client) {
		c.SetDebug(debug)
	}
}

// OptionUserAgent sets the user agent header sent with every request
func OptionUserAgent(userAgent string) Option {
	return func(c *resty.Client) {
		c.SetHeader("User-Agent", userAgent)
	}
}

// New returns a new resty client. The baseURL, if not empty, is used as the base of relative
// request urls
func New(baseURL string, options ...Option) (c *resty.Client) {
	c = resty.New()
	if baseURL != "" {
		c.SetBaseURL(strings.TrimRight(baseURL, "/"))
	}

	for _, opt := range options {
		opt(c)
	}

	return c
}

// TransportError is returned when a request couldn't complete (connection refused, timeout,
// cancelled context, etc.). It never represents a non-200 response
type TransportError struct {
	Op  string
	URL string
	Err error
}

// NewTransportError returns a new TransportError for the operation on url
func NewTransportError(op string, url string, err error) *TransportError {
	return &TransportError{Op: op, URL: url, Err: err}
}

// Error returns the error message including the operation and url
func (e *TransportError) Error() string {
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.URL, e.Err)
}

// Unwrap returns the underlying error
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Cause returns the underlying error (github.com/pkg/errors compatibility)
func (e *TransportError) Cause() error {
	return e.Err
}
