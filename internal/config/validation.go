package config

import (
	"fmt"
	"net/url"

	ferrors "git.home.luguber.info/inful/releasepub/internal/foundation/errors"
)

// SupportedHostVersions lists the host framework major versions with an adapter.
var SupportedHostVersions = []int{2, 3}

// Validate checks a defaulted configuration. The API key is not checked
// here: disabled or non-publishing setups legitimately omit it.
func Validate(cfg *Config) error {
	if cfg.Upload.IdleTimeout < 0 {
		return ferrors.ValidationError("upload.idle_timeout cannot be negative").
			WithContext("idle_timeout", cfg.Upload.IdleTimeout.String()).
			Build()
	}
	if err := validateHTTPURL("upload.endpoint", cfg.Upload.Endpoint); err != nil {
		return err
	}
	if err := validateHTTPURL("base_url", cfg.BaseURL); err != nil {
		return err
	}
	if !supportedHost(cfg.Host.FrameworkVersion) {
		return ferrors.ValidationError(fmt.Sprintf("unsupported host.framework_version %d", cfg.Host.FrameworkVersion)).
			WithContext("supported", SupportedHostVersions).
			Build()
	}
	return nil
}

func validateHTTPURL(field, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryValidation, field+" is not a valid URL").
			Fatal().
			WithContext("value", raw).
			Build()
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ferrors.ValidationError(field+" must be an absolute http(s) URL").
			WithContext("value", raw).
			Build()
	}
	return nil
}

func supportedHost(v int) bool {
	for _, s := range SupportedHostVersions {
		if s == v {
			return true
		}
	}
	return false
}
