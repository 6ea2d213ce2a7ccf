// Package httputil provides the JSON plumbing shared by bubblepack's HTTP
// handlers.
//
// # Overview
//
//   - [DecodeJSON]: strict request body decoding with a size limit
//   - [WriteJSON]: response encoding
//   - [WriteError]: coded error responses, with the HTTP status chosen by
//     [StatusFor] from the error's [errors.Code]
//
// # Error responses
//
// Every failed request gets the same body shape:
//
//	{"error": {"code": "INVALID_COLUMNS", "message": "column count must be >= 1, got 0"}}
//
// Validation codes map to 400, unknown sessions to 404, a converge in
// progress to 409 and the session limit to 503. Anything without a code is
// reported as a 500 with a generic message.
package httputil
