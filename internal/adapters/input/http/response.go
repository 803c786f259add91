package http

import (
	"net/http"
)

var (
	// Success response
	Success = Status{Code: http.StatusOK, Message: []string{"Success"}}
	// BadRequest response
	BadRequest = Status{Code: http.StatusBadRequest, Message: []string{"Sorry, Not responding because of incorrect syntax"}}
	// Unauthorized response
	Unauthorized = Status{Code: http.StatusUnauthorized, Message: []string{"Sorry, We are not able to process your request. Please try again"}}
	// NotFound response
	NotFound = Status{Code: http.StatusNotFound, Message: []string{"Sorry, Data not found"}}
	// InternalServerError response
	InternalServerError = Status{Code: http.StatusInternalServerError, Message: []string{"Internal Server Error"}}
)

// ResponseBody struct - Generic HTTP response wrapper
type ResponseBody struct {
	Status Status      `json:"status,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// Status struct
type Status struct {
	Code    int      `json:"code,omitempty"`
	Message []string `json:"message,omitempty"`
}

type (
	// AsideResponse struct - HTTP response DTO for a single aside
	AsideResponse struct {
		Team    string  `json:"team"`
		Channel string  `json:"channel"`
		Open    bool    `json:"open"`
		Purpose string  `json:"purpose"`
		Summary *string `json:"summary,omitempty"`
		Owner   string  `json:"owner,omitempty"`
	}

	// MentionResponse struct - HTTP response DTO for resolved mentions
	MentionResponse struct {
		TeamMembers []string `json:"team_members"`
	}
)

// withMessages copies status with its message replaced
func withMessages(status Status, messages ...string) ResponseBody {
	status.Message = messages
	return ResponseBody{Status: status}
}
