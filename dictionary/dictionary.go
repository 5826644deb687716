// Package dictionary provides a client for the dictionary service: a remote key/value store
// where words (keys) are registered along with their meaning (values)
package dictionary

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexandre-normand/dictscot/httpclient"
	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

const (
	lookupPath   = "/dict/get"
	registerPath = "/dict/register"
)

// LookupResult holds the result of a lookup. The zero value is NotFound
type LookupResult struct {
	Value string
	Found bool
}

// NotFound is the result of a lookup for a key with no value
var NotFound = LookupResult{}

// Found returns a LookupResult for a found value
func Found(value string) LookupResult {
	return LookupResult{Value: value, Found: true}
}

// RegisterOutcome is the outcome of a register call
type RegisterOutcome int

// Register outcomes
const (
	Failure RegisterOutcome = iota
	Success
)

// String returns the name of the outcome
func (o RegisterOutcome) String() string {
	if o == Success {
		return "success"
	}

	return "failure"
}

type lookupRequest struct {
	Key string `json:"key"`
}

type lookupResponse struct {
	Value *string `json:"value"`
}

type registerRequest struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Client is a dictionary service client
type Client struct {
	http    *resty.Client
	baseURL string
}

// NewClient returns a new dictionary client for the service at apiURL
func NewClient(apiURL string, options ...httpclient.Option) (c *Client) {
	c = new(Client)
	c.http = httpclient.New(apiURL, options...)
	c.baseURL = c.http.BaseURL

	return c
}

// Get looks up the value registered for key. Any non-200 response is a NotFound as is a 200
// response with an empty/null body or a null value. Failing to reach the service returns
// a *httpclient.TransportError
func (c *Client) Get(ctx context.Context, key string) (result LookupResult, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(lookupRequest{Key: key}).
		Post(lookupPath)
	if err != nil {
		return NotFound, httpclient.NewTransportError("lookup", c.baseURL+lookupPath, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return NotFound, nil
	}

	body := bytes.TrimSpace(resp.Body())
	if len(body) == 0 {
		return NotFound, nil
	}

	var lr *lookupResponse
	if err = json.Unmarshal(body, &lr); err != nil {
		return NotFound, errors.Wrapf(err, "decoding lookup response for key [%s]", key)
	}

	if lr == nil || lr.Value == nil {
		return NotFound, nil
	}

	return Found(*lr.Value), nil
}

// Register registers value for key. Only a 200 response is a Success, the response body is
// ignored. Failing to reach the service returns a *httpclient.TransportError
func (c *Client) Register(ctx context.Context, key string, value string) (outcome RegisterOutcome, err error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(registerRequest{Key: key, Value: value}).
		Post(registerPath)
	if err != nil {
		return Failure, httpclient.NewTransportError("register", c.baseURL+registerPath, err)
	}

	if resp.StatusCode() != http.StatusOK {
		return Failure, nil
	}

	return Success, nil
}
