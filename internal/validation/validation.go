// Package validation binds request payloads and checks them with
// go-playground/validator, turning failures into field-level 400 errors.
package validation
