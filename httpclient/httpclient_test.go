package httpclient_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alexandre-normand/dictscot/httpclient"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTrimsTrailingSlashFromBaseURL(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := httpclient.New(server.URL+"/", httpclient.OptionUserAgent("dictscot-test"))
	_, err := c.R().Post("/dict/get")

	require.NoError(t, err)
	assert.Equal(t, "/dict/get", path)
}

func TestOptionTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := httpclient.New(server.URL, httpclient.OptionTimeout(10*time.Millisecond))
	_, err := c.R().SetContext(context.Background()).Get("/")

	assert.Error(t, err)
}

func TestTransportError(t *testing.T) {
	cause := errors.New("connection refused")
	err := error(httpclient.NewTransportError("lookup", "http://dict/dict/get", cause))

	assert.EqualError(t, err, "lookup [http://dict/dict/get]: connection refused")
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause, errors.Cause(err))

	var terr *httpclient.TransportError
	if assert.True(t, errors.As(errors.Wrap(err, "handling message"), &terr)) {
		assert.Equal(t, "lookup", terr.Op)
	}
}
