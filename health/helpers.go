package health

import "time"

func newStatus(component, state, message string) Status {
	return Status{
		Component: component,
		Healthy:   state == "healthy",
		Status:    state,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// NewHealthy creates a healthy status
func NewHealthy(component, message string) Status {
	return newStatus(component, "healthy", message)
}

// NewDegraded creates a degraded status: impaired but still serving
func NewDegraded(component, message string) Status {
	return newStatus(component, "degraded", message)
}

// NewUnhealthy creates an unhealthy status
func NewUnhealthy(component, message string) Status {
	return newStatus(component, "unhealthy", message)
}

// Aggregate rolls sub-statuses up into one status for component. Any
// unhealthy sub-status makes the aggregate unhealthy; failing that, any
// degraded sub-status makes it degraded. The sub-statuses are carried in the
// result so the report shows which component pulled the aggregate down.
func Aggregate(component string, subs []Status) Status {
	if len(subs) == 0 {
		return NewHealthy(component, "no sub-components")
	}

	state := "healthy"
	for _, sub := range subs {
		switch {
		case sub.IsUnhealthy():
			state = "unhealthy"
		case sub.IsDegraded() && state == "healthy":
			state = "degraded"
		}
	}

	var agg Status
	switch state {
	case "unhealthy":
		agg = NewUnhealthy(component, "one or more sub-components unhealthy")
	case "degraded":
		agg = NewDegraded(component, "one or more sub-components degraded")
	default:
		agg = NewHealthy(component, "all sub-components healthy")
	}
	agg.SubStatuses = append([]Status(nil), subs...)
	return agg
}
