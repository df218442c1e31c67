package networking

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/tests"
)

func TestClientGet_Error(t *testing.T) {
	testCases := []struct {
		status        int
		wantTransient bool
	}{
		{status: http.StatusInternalServerError, wantTransient: true},
		{status: http.StatusTooManyRequests, wantTransient: true},
		{status: http.StatusNotFound, wantTransient: false},
	}

	for _, kase := range testCases {
		t.Run(fmt.Sprintf("%d", kase.status), func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(kase.status)
			}))
			defer ts.Close()

			res, e := MakeHTTPClient(0).Get(ts.URL)

			assert.Nil(t, res)
			assert.Contains(t, e.Error(), fmt.Sprintf("http client error: status code %d", kase.status))
			assert.Equal(t, kase.wantTransient, api.IsTransient(e))
		})
	}
}

func TestClientGet_BodyError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "1")
	}))
	defer ts.Close()

	res, e := MakeHTTPClient(0).Get(ts.URL)

	assert.Nil(t, res)
	assert.Contains(t, e.Error(), "http client error: could not read body unexpected EOF")
}

func TestClientGet_Ok(t *testing.T) {
	response := tests.RandomString()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(response))
	}))
	defer ts.Close()

	res, e := MakeHTTPClient(0).Get(ts.URL)

	assert.Nil(t, e)
	assert.Equal(t, response, string(res))
}

func TestClientGet_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := ts.URL
	ts.Close()

	_, e := MakeHTTPClient(0).Get(url)
	assert.True(t, api.IsTransient(e))
}
