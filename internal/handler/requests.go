package handler

import (
	"strings"

	"github.com/deppfellow/go-catalog/internal/validation"
)

// NoParams is the request of endpoints that take no input.
type NoParams struct{}

func (*NoParams) Validate() error { return nil }

type CategoryParams struct {
	Category string `param:"category" json:"-" validate:"required,notblank,max=250"`
}

func (r *CategoryParams) Validate() error { return validation.Struct(r) }

type ItemParams struct {
	Category string `param:"category" json:"-" validate:"required,notblank,max=250"`
	Item     string `param:"item" json:"-" validate:"required,notblank,max=250"`
}

func (r *ItemParams) Validate() error { return validation.Struct(r) }

type NewCategoryRequest struct {
	Name string `json:"name" validate:"required,notblank,max=250"`
}

func (r *NewCategoryRequest) Validate() error { return validation.Struct(r) }

type NewItemRequest struct {
	Category    string `param:"category" json:"-" validate:"required,notblank,max=250"`
	Name        string `json:"name" validate:"required,notblank,max=250"`
	Description string `json:"description" validate:"max=2000"`
}

func (r *NewItemRequest) Validate() error { return validation.Struct(r) }

// EditItemRequest addresses the item by its current path and carries the new
// values. An empty body category keeps the item where it is.
type EditItemRequest struct {
	OldCategory string `param:"category" json:"-" validate:"required,notblank,max=250"`
	OldName     string `param:"item" json:"-" validate:"required,notblank,max=250"`
	Name        string `json:"name" validate:"required,notblank,max=250"`
	Description string `json:"description" validate:"max=2000"`
	Category    string `json:"category" validate:"omitempty,notblank,max=250"`
}

func (r *EditItemRequest) Validate() error {
	if strings.TrimSpace(r.Category) == "" {
		r.Category = r.OldCategory
	}
	return validation.Struct(r)
}

type LoginRequest struct {
	Next string `query:"next" validate:"max=2048"`
}

// Validate drops redirect targets that leave the site.
func (r *LoginRequest) Validate() error {
	if !strings.HasPrefix(r.Next, "/") || strings.HasPrefix(r.Next, "//") || strings.HasPrefix(r.Next, "/\\") {
		r.Next = ""
	}
	return validation.Struct(r)
}

type GoogleConnectRequest struct {
	State string `json:"state" validate:"required"`
	Code  string `json:"code" validate:"required"`
}

func (r *GoogleConnectRequest) Validate() error { return validation.Struct(r) }
