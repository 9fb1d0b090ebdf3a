package dto

import (
	"fmt"
	"time"
)

// GreetingMessage is the fixed body of the greeting route
const GreetingMessage = "Hello, FastAPI with OpenTelemetry!"

// MessageResponse is a single-message JSON body
type MessageResponse struct {
	Message string `json:"message"`
}

// Greeting returns the greeting route response
func Greeting() MessageResponse {
	return MessageResponse{Message: GreetingMessage}
}

// Processed returns the delay-mode response, reporting d in seconds with
// millisecond precision.
func Processed(d time.Duration) MessageResponse {
	return MessageResponse{Message: fmt.Sprintf("Processed for %.3f seconds", d.Seconds())}
}
