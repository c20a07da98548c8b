package dto

// Master catalog DTOs: species, capture zones, processes, products.

type CreateSpeciesRequest struct {
	Name    string  `json:"name"     validate:"required,min=1"`
	FAOCode *string `json:"fao_code"`
}

type SpeciesResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	FAOCode *string `json:"fao_code"`
	Active  bool    `json:"active"`
}

type CreateCaptureZoneRequest struct {
	Code string `json:"code" validate:"required,min=1"`
	Name string `json:"name" validate:"required,min=1"`
}

type CaptureZoneResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type CreateProcessRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

type ProcessResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

type CreateProductRequest struct {
	Code string `json:"code" validate:"required,min=1"`
	Name string `json:"name" validate:"required,min=1"`
}

type ProductResponse struct {
	ID     string `json:"id"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}
