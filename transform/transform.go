// Package transform provides a client for the text transformation service. The service rewrites
// (stylizes) a text and fails by returning an empty body
package transform

import (
	"context"
	"encoding/json"

	"github.com/alexandre-normand/dictscot/httpclient"
	"github.com/go-resty/resty/v2"
)

// Status is the status of a transformation
type Status int

// Transformation statuses
const (
	// Unavailable means the service failed internally (empty or unparseable body)
	Unavailable Status = iota
	// NoResult means the service ran but returned a null result
	NoResult
	// Transformed means the service returned a transformed text
	Transformed
)

var statusNames = map[Status]string{
	Unavailable: "unavailable",
	NoResult:    "noResult",
	Transformed: "transformed",
}

// String returns the name of the status
func (s Status) String() string {
	return statusNames[s]
}

// Result holds the status of a transformation along with the transformed text when the
// status is Transformed
type Result struct {
	Status Status
	Text   string
}

type transformResponse struct {
	Result *string `json:"result"`
}

// Client is a transformation service client
type Client struct {
	http     *resty.Client
	endpoint string
}

// NewClient returns a new client for the transformation service at endpoint
func NewClient(endpoint string, options ...httpclient.Option) (c *Client) {
	c = new(Client)
	c.http = httpclient.New("", options...)
	c.endpoint = endpoint

	return c
}

// Transform sends text as a raw body to the transformation service. The body is first read as text
// so that an empty body (the service failing) is told apart from a null result (the service
// running without anything to offer). Failing to reach the service returns a
// *httpclient.TransportError
func (c *Client) Transform(ctx context.Context, text string) (result Result, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "text/plain; charset=utf-8").
		SetBody(text).
		Post(c.endpoint)
	if err != nil {
		return Result{Status: Unavailable}, httpclient.NewTransportError("transform", c.endpoint, err)
	}

	raw := resp.String()
	if raw == "" {
		return Result{Status: Unavailable}, nil
	}

	var tr transformResponse
	if err = json.Unmarshal([]byte(raw), &tr); err != nil {
		return Result{Status: Unavailable}, nil
	}

	if tr.Result == nil {
		return Result{Status: NoResult}, nil
	}

	return Result{Status: Transformed, Text: *tr.Result}, nil
}
