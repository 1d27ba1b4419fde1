package maps

import "laundry_backend/internal/geocode"

// ReverseRequest holds the query parameters of a map settle.
type ReverseRequest struct {
	Lat     *float64 `form:"lat" binding:"required"`
	Lng     *float64 `form:"lng" binding:"required"`
	Session string   `form:"session" binding:"max=64"`
}

// AutocompleteRequest holds the query parameters of a search keystroke batch.
type AutocompleteRequest struct {
	Query   string `form:"q" binding:"max=200"`
	Session string `form:"session" binding:"required,max=64"`
}

// AutocompleteResponse carries the token so the client can drop responses
// older than the one it already shows.
type AutocompleteResponse struct {
	Token       uint64               `json:"token"`
	Query       string               `json:"query"`
	Predictions []geocode.Prediction `json:"predictions"`
}
