package config

import (
	"fmt"
	"regexp"
	"strings"
)

type ProviderConfig struct {
	Name                string   `yaml:"name" json:"name"`
	ClientID            string   `yaml:"clientID" json:"clientID"`
	ClientSecret        string   `yaml:"clientSecret" json:"clientSecret"`
	AllowedEmailDomains []string `yaml:"allowedEmailDomains" json:"allowedEmailDomains"`

	// Scopes are appended to the provider's base scope set. They must stay
	// stable for the lifetime of a granted consent: changing them silently
	// makes the provider return a grant narrower than callers expect.
	Scopes []string `yaml:"scopes" json:"scopes"`

	regexAllowedEmailDomains []*regexp.Regexp
}

func (p *ProviderConfig) validateAndInitialize() error {
	if p.AllowedEmailDomains == nil {
		p.AllowedEmailDomains = []string{}
	}
	if p.Scopes == nil {
		p.Scopes = []string{}
	}

	if p.Name == "" {
		return fmt.Errorf("name must be set")
	}
	if p.ClientID == "" {
		return fmt.Errorf("clientID must be set")
	}
	if p.ClientSecret == "" {
		return fmt.Errorf("clientSecret must be set")
	}

	for _, s := range p.AllowedEmailDomains {
		r, err := regexp.Compile(s)
		if err != nil {
			return fmt.Errorf("failed to compile allowed email domain regex '%s': %w", s, err)
		}
		p.regexAllowedEmailDomains = append(p.regexAllowedEmailDomains, r)
	}

	return nil
}

func GetEmailDomain(email string) string {
	s := strings.Split(email, "@")
	if len(s) == 2 {
		return s[1]
	}
	return ""
}

func (p *ProviderConfig) ValidateEmailDomain(email string) bool {
	domain := GetEmailDomain(email)
	if domain == "" {
		return false
	}
	if len(p.regexAllowedEmailDomains) == 0 {
		return true
	}
	for _, r := range p.regexAllowedEmailDomains {
		if r.MatchString(domain) {
			return true
		}
	}
	return false
}
