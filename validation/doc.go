// Package validation checks configuration structs and command arguments.
//
// Struct validation uses go-playground/validator tags and reports fields by
// their mapstructure (or json) path:
//
//	type HTTP struct {
//	    Transport string `mapstructure:"transport" validate:"oneof=nethttp resty"`
//	}
//	err := validation.Validate(cfg) // http.transport: must be one of: nethttp resty
//
// Programmatic validation collects errors across several checks:
//
//	v := validation.New()
//	v.Required("barcode", barcode).Min("id", id, 1)
//	err := v.Err()
package validation
