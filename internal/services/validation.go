package services

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// StatusResponse is the uniform envelope every endpoint answers with:
// {success:true} on success, {success:false, message} on failure.
type StatusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ValidationHelper provides shared validation functionality
type ValidationHelper struct {
	validator *validator.Validate
}

// NewValidationHelper creates a new validation helper
func NewValidationHelper() *ValidationHelper {
	return &ValidationHelper{
		validator: validator.New(),
	}
}

// ValidateStruct validates a struct and returns validation errors
func (vh *ValidationHelper) ValidateStruct(s any) error {
	return vh.validator.Struct(s)
}

// SendErrorResponse sends the failure envelope. Validation detail is logged,
// never leaked to the client.
func SendErrorResponse(w http.ResponseWriter, message string, statusCode int, validationErr error) {
	if validationErr != nil {
		if errs, ok := validationErr.(validator.ValidationErrors); ok {
			for _, err := range errs {
				log.Printf("[VALIDATION] Field %s failed on '%s' tag", err.Field(), err.Tag())
			}
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(StatusResponse{Success: false, Message: message})
}

// SendSuccessResponse sends the success envelope.
func SendSuccessResponse(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(StatusResponse{Success: true})
}
