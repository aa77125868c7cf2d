package health

// Status is the payload reported by the liveness endpoints.
type Status struct {
	Status  string
	Message string
}

// Healthy is the status reported by the primary liveness check.
func Healthy() Status {
	return Status{Status: "healthy", Message: "Application is running"}
}

// Test is the status reported by the secondary check.
func Test() Status {
	return Status{Status: "200", Message: "test"}
}
