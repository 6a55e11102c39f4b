package validator

import (
	"github.com/go-playground/validator/v10"
)

// Validator is the shared struct validator used for configuration and
// API payloads.
var Validator = validator.New()
