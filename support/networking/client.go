package networking

import (
	"fmt"
	"io/ioutil"
	"net/http"
	"time"

	"github.com/lightyeario/tradingbots/api"
)

// DefaultTimeout is used when the caller does not specify one
const DefaultTimeout = 10 * time.Second

// HTTPClient is a minimal GET client for JSON feeds
type HTTPClient struct {
	client *http.Client
}

// MakeHTTPClient is a factory method, a zero timeout means DefaultTimeout
func MakeHTTPClient(timeout time.Duration) *HTTPClient {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Get fetches the body of the url; transport failures are returned as transient errors
func (hc *HTTPClient) Get(url string) ([]byte, error) {
	res, e := hc.client.Get(url)
	if e != nil {
		return nil, api.MakeErrTransientNetwork("GET", e)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError || res.StatusCode == http.StatusTooManyRequests {
		return nil, api.MakeErrTransientNetwork("GET", fmt.Errorf("http client error: status code %d", res.StatusCode))
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("http client error: status code %d", res.StatusCode)
	}

	bytes, e := ioutil.ReadAll(res.Body)
	if e != nil {
		return nil, api.MakeErrTransientNetwork("GET", fmt.Errorf("http client error: could not read body %s", e))
	}

	return bytes, nil
}
