package authsdk

// HealthResponse is returned by the liveness and readiness probes.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports per-dependency status on the readiness probe.
type HealthChecks struct {
	Credentials string `json:"credentials"`
	Registry    string `json:"registry"`
}
