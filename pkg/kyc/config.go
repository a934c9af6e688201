package kyc

// Config represents the configuration for a verification provider
type Config struct {
	// Provider selects the backend ("manual" is the only built-in)
	Provider string

	// APIKey authenticates against an external KYC vendor (unused by manual)
	APIKey string

	// BaseURL is the vendor API base URL (unused by manual)
	BaseURL string
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Provider == "" {
		return ErrInvalidRequest
	}
	if c.Provider != ProviderManual && (c.APIKey == "" || c.BaseURL == "") {
		return ErrInvalidRequest
	}
	return nil
}
