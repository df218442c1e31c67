package monitoring

import (
	"fmt"

	"github.com/lightyeario/tradingbots/api"
)

type noopAlert struct{}

var _ api.Alert = &noopAlert{}

// Trigger is simply a noop for the default Alert, meaning that the client
// hasn't specified a monitoring service that's supported.
func (p *noopAlert) Trigger(description string, details interface{}) error {
	return nil
}

// MakeAlert creates an Alert based on the type of the service (eg Pager Duty) and its corresponding API key.
func MakeAlert(alertType string, apiKey string) (api.Alert, error) {
	switch alertType {
	case "PagerDuty":
		if apiKey == "" {
			return nil, fmt.Errorf("ALERT_API_KEY is required when ALERT_TYPE is PagerDuty")
		}
		return makePagerDuty(apiKey), nil
	case "":
		return &noopAlert{}, nil
	default:
		return nil, fmt.Errorf("unsupported alert type '%s'", alertType)
	}
}
