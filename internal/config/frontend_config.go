package config

import "fmt"

type FrontendConfig struct {
	// SuccessURL is where the browser lands after a successful callback.
	SuccessURL string `yaml:"successURL" json:"successURL"`
	// FailureURL receives an error query parameter describing what failed.
	FailureURL string `yaml:"failureURL" json:"failureURL"`
	CORS       bool   `yaml:"cors" json:"cors"`
}

func (f *FrontendConfig) validateAndInitialize() error {
	if f.SuccessURL == "" {
		return fmt.Errorf("successURL must be set")
	}
	if f.FailureURL == "" {
		return fmt.Errorf("failureURL must be set")
	}
	return nil
}
