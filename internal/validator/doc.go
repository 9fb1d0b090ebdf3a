// Package validator provides struct validation for the web service.
//
// This package wraps go-playground/validator to provide:
//   - Field names taken from mapstructure tags, so errors name config keys
//   - Human-readable error messages
//
// # Usage
//
//	if err := validator.Validate(cfg); err != nil {
//	    // err is a validator.ValidationErrors
//	}
//
// The validator instance is package-level and thread-safe.
package validator
