package model

import "github.com/go-playground/validator/v10"

// validate is shared by every model type; validator caches struct metadata
// per instance.
var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs the `validate` struct tags of v.
func ValidateStruct(v any) error {
	return validate.Struct(v)
}
