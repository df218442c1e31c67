package plugins

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lightyeario/tradingbots/api"
	"github.com/lightyeario/tradingbots/support/json"
	"github.com/lightyeario/tradingbots/support/networking"
)

/*
{
	"disclaimer": "Usage subject to terms: https://openexchangerates.org/terms",
	"license": "https://openexchangerates.org/license",
	"timestamp": 1688666400,
	"base": "USD",
	"rates": {"CLP": 802.5, "EUR": 0.9171}
}
*/

const oxrBaseURL = "https://openexchangerates.org/api"

// ErrOxrAPI is returned when openexchangerates answers with an error document
type ErrOxrAPI struct {
	Status      int64
	Message     string
	Description string
}

var _ error = ErrOxrAPI{}

func (e ErrOxrAPI) Error() string {
	return fmt.Sprintf("ErrOxrAPI[status=%d, message=%s, description='%s']", e.Status, e.Message, e.Description)
}

// fiatFeedOxr converts between fiat currencies using the latest USD based rates from openexchangerates.org
type fiatFeedOxr struct {
	baseURL string
	appID   string
	client  *networking.HTTPClient
	parser  *json.GJsonParserWrapper
}

// ensure that it implements RateConverter
var _ api.RateConverter = &fiatFeedOxr{}

// MakeFiatFeedOxr is a factory method
func MakeFiatFeedOxr(appID string, timeout time.Duration) (api.RateConverter, error) {
	return makeFiatFeedOxr(oxrBaseURL, appID, timeout)
}

func makeFiatFeedOxr(baseURL string, appID string, timeout time.Duration) (*fiatFeedOxr, error) {
	if appID == "" {
		return nil, fmt.Errorf("an openexchangerates app id is needed, set OXR_APP_ID")
	}
	return &fiatFeedOxr{
		baseURL: baseURL,
		appID:   appID,
		client:  networking.MakeHTTPClient(timeout),
		parser:  json.NewJsonParserWrapper(),
	}, nil
}

// Rate impl, rates are quoted against USD so the rate is rates[to] / rates[from]
func (f *fiatFeedOxr) Rate(from string, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	body, e := f.client.Get(fmt.Sprintf("%s/latest.json?app_id=%s", f.baseURL, f.appID))
	if e != nil {
		return decimal.Zero, fmt.Errorf("unable to get rates from openexchangerates: %w", e)
	}

	if f.parser.GetBool(body, "error") {
		status, _ := f.parser.GetDecimal(body, "status")
		message, _ := f.parser.GetRawJsonValue(body, "message")
		description, _ := f.parser.GetRawJsonValue(body, "description")
		return decimal.Zero, ErrOxrAPI{
			Status:      status.IntPart(),
			Message:     message,
			Description: description,
		}
	}

	fromRate, e := f.parser.GetDecimal(body, "rates."+from)
	if e != nil {
		return decimal.Zero, api.MakeErrParsef("openexchangerates", "no rate for %s: %s", from, e)
	}
	toRate, e := f.parser.GetDecimal(body, "rates."+to)
	if e != nil {
		return decimal.Zero, api.MakeErrParsef("openexchangerates", "no rate for %s: %s", to, e)
	}
	if fromRate.IsZero() {
		return decimal.Zero, api.MakeErrParsef("openexchangerates", "rate for %s is zero", from)
	}
	return toRate.Div(fromRate), nil
}
