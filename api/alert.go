package api

// Alert notifies an operator, e.g. when a bot stops because its strategy failed
type Alert interface {
	// Trigger raises an alert, details are attached as structured data when the service supports it
	Trigger(description string, details interface{}) error
}
