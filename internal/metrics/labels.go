package metrics

const (
	// LabelMethod is the Prometheus label name for HTTP method.
	LabelMethod = "method"

	// LabelStatusCode is the Prometheus label name for HTTP status codes.
	LabelStatusCode = "code"

	// LabelRoute is the Prometheus label name for the matched route pattern.
	LabelRoute = "route"

	// LabelPlan is the Prometheus label name for a couple's plan.
	LabelPlan = "plan"
)
