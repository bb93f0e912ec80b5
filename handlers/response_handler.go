package handlers

import (
	"encoding/json"
	"net/http"

	"catalog-api/utils"
)

// ResponseHandler handles all successful responses
type ResponseHandler struct{}

// Response represents the standard API response structure
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PaginatedResponse represents a product listing response with its
// pagination information
type PaginatedResponse struct {
	Status        int         `json:"status"`
	Message       string      `json:"message,omitempty"`
	Products      interface{} `json:"products"`
	CurrentPage   int         `json:"currentPage"`
	TotalPages    int         `json:"totalPages"`
	TotalProducts int         `json:"totalProducts"`
}

// NewResponseHandler creates a new response handler
func NewResponseHandler() *ResponseHandler {
	return &ResponseHandler{}
}

// JSON sends a JSON response
func (h *ResponseHandler) JSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		utils.NewErrorHandler().HandleInternalError(w, "Error processing response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Success sends a success response with status 200
func (h *ResponseHandler) Success(w http.ResponseWriter, message string, data interface{}) {
	h.JSON(w, http.StatusOK, Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    data,
	})
}

// Created sends a success response with status 201
func (h *ResponseHandler) Created(w http.ResponseWriter, message string, data interface{}) {
	h.JSON(w, http.StatusCreated, Response{
		Status:  http.StatusCreated,
		Message: message,
		Data:    data,
	})
}

// Paginated sends a product listing page with its totals
func (h *ResponseHandler) Paginated(w http.ResponseWriter, message string, products interface{}, page, limit, total int) {
	totalPages := (total + limit - 1) / limit // Ceiling division

	h.JSON(w, http.StatusOK, PaginatedResponse{
		Status:        http.StatusOK,
		Message:       message,
		Products:      products,
		CurrentPage:   page,
		TotalPages:    totalPages,
		TotalProducts: total,
	})
}
