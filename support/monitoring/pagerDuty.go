package monitoring

import (
	"fmt"
	"log"

	"github.com/PagerDuty/go-pagerduty"

	"github.com/lightyeario/tradingbots/api"
)

type pagerDuty struct {
	serviceKey  string
	createEvent func(pagerduty.Event) (*pagerduty.EventResponse, error)
}

// ensure pagerDuty implements the api.Alert interface
var _ api.Alert = &pagerDuty{}

func makePagerDuty(serviceKey string) *pagerDuty {
	return &pagerDuty{
		serviceKey:  serviceKey,
		createEvent: pagerduty.CreateEvent,
	}
}

// Trigger creates a PagerDuty trigger. The description is required and cannot be empty. Supplementary
// details can be optionally provided as key-value pairs as part of the details parameter.
func (p *pagerDuty) Trigger(description string, details interface{}) error {
	if description == "" {
		return fmt.Errorf("cannot trigger a PagerDuty alert without a description")
	}
	event := pagerduty.Event{
		ServiceKey:  p.serviceKey,
		Type:        "trigger",
		Description: description,
		Details:     details,
	}
	response, e := p.createEvent(event)
	if e != nil {
		return fmt.Errorf("encountered an error while sending a PagerDuty alert: %s", e)
	}
	log.Printf("Triggered PagerDuty alert. Incident key for reference: %s\n", response.IncidentKey)
	return nil
}
