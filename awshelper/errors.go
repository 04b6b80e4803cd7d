package awshelper

// MissingRegionError is returned when no AWS region could be resolved from the config or the environment.
type MissingRegionError struct{}

func (err MissingRegionError) Error() string {
	return "no AWS region configured: set it in the backend config, AWS_REGION, or the shared AWS config"
}
