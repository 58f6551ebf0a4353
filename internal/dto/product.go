package dto

import "strings"

// ProductRequest is the body of create and update
type ProductRequest struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Image string  `json:"image"`
}

// Normalize trims text fields
func (r *ProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Image = strings.TrimSpace(r.Image)
}

// Validate requires every field
func (r *ProductRequest) Validate() (bool, string) {
	if r.Name == "" || r.Image == "" || r.Price == 0 {
		return false, "All fields are required"
	}
	if r.Price < 0 {
		return false, "Price must be greater than zero"
	}
	return true, ""
}

// DeletedResponse carries the id of a removed resource
type DeletedResponse struct {
	ID int64 `json:"id"`
}
