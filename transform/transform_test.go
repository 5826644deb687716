package transform_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexandre-normand/dictscot/httpclient"
	"github.com/alexandre-normand/dictscot/transform"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform(t *testing.T) {
	tests := map[string]struct {
		status         int
		body           string
		expectedResult transform.Result
	}{
		"Transformed": {
			status:         http.StatusOK,
			body:           `{"result": "X"}`,
			expectedResult: transform.Result{Status: transform.Transformed, Text: "X"},
		},
		"NullResult": {
			status:         http.StatusOK,
			body:           `{"result": null}`,
			expectedResult: transform.Result{Status: transform.NoResult},
		},
		"MissingResult": {
			status:         http.StatusOK,
			body:           `{}`,
			expectedResult: transform.Result{Status: transform.NoResult},
		},
		"EmptyBody": {
			status:         http.StatusOK,
			body:           ``,
			expectedResult: transform.Result{Status: transform.Unavailable},
		},
		"EmptyBodyOnServerError": {
			status:         http.StatusInternalServerError,
			body:           ``,
			expectedResult: transform.Result{Status: transform.Unavailable},
		},
		"UnparseableBody": {
			status:         http.StatusBadGateway,
			body:           `<html>bad gateway</html>`,
			expectedResult: transform.Result{Status: transform.Unavailable},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "/hyokachan", r.URL.Path)

				body, err := io.ReadAll(r.Body)
				require.NoError(t, err)
				assert.Equal(t, "bar", string(body))

				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer server.Close()

			c := transform.NewClient(server.URL + "/hyokachan")
			result, err := c.Transform(context.Background(), "bar")

			assert.NoError(t, err)
			assert.Equal(t, tc.expectedResult, result)
		})
	}
}

func TestTransformTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := transform.NewClient(url)
	result, err := c.Transform(context.Background(), "bar")

	assert.Equal(t, transform.Unavailable, result.Status)

	var terr *httpclient.TransportError
	if assert.True(t, errors.As(err, &terr)) {
		assert.Equal(t, "transform", terr.Op)
		assert.Equal(t, url, terr.URL)
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "unavailable", transform.Unavailable.String())
	assert.Equal(t, "noResult", transform.NoResult.String())
	assert.Equal(t, "transformed", transform.Transformed.String())
}
