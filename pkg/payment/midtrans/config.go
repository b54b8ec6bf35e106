package midtrans

// Config represents the configuration for the Midtrans API client
type Config struct {
	// ServerKey authenticates API calls and keys webhook signatures
	ServerKey string

	// BaseURL is the Core API base URL (transaction status / cancel)
	BaseURL string

	// SnapURL is the Snap API base URL (transaction create)
	SnapURL string

	// FinishURL is the redirect target after the customer completes payment
	FinishURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.ServerKey == "" {
		return ErrInvalidRequest
	}
	if c.BaseURL == "" {
		return ErrInvalidRequest
	}
	if c.SnapURL == "" {
		return ErrInvalidRequest
	}
	return nil
}
