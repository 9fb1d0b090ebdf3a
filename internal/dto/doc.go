// Package dto contains the JSON response bodies of the web service.
//
// DTOs keep the wire contract separate from the service layer:
//   - MessageResponse is the {"message": ...} body of the greeting and
//     delay responses
//   - ErrorResponse is the {"error": {...}} envelope rendered by the
//     error handler
package dto
