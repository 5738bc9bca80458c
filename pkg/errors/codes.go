// Package errors provides error codes for feishukit
package errors

// ErrorCode represents a feishukit error code
type ErrorCode string

// Configuration Error Codes
const (
	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig ErrorCode = "INVALID_CONFIG"

	// ErrMissingCredentials indicates the app id or secret is missing
	ErrMissingCredentials ErrorCode = "MISSING_CREDENTIALS"
)

// Request Error Codes
const (
	// ErrInvalidArgument indicates a caller-supplied argument failed a presence check
	ErrInvalidArgument ErrorCode = "INVALID_ARGUMENT"

	// ErrEncodeFailed indicates a request body could not be serialized
	ErrEncodeFailed ErrorCode = "ENCODE_FAILED"
)

// Exchange Error Codes
const (
	// ErrTransport indicates the HTTP collaborator failed before an envelope was read
	ErrTransport ErrorCode = "TRANSPORT_FAILED"

	// ErrMalformedEnvelope indicates the response lacks a structure the caller depends on
	ErrMalformedEnvelope ErrorCode = "MALFORMED_ENVELOPE"

	// ErrUnresolvedUsers indicates an email resolution step returned no mapping
	ErrUnresolvedUsers ErrorCode = "UNRESOLVED_USERS"
)

// System Error Codes
const (
	// ErrInternal indicates an internal error
	ErrInternal ErrorCode = "INTERNAL"
)

// ErrorCodeInfo provides information about an error code
type ErrorCodeInfo struct {
	Code        ErrorCode `json:"code"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
}

var errorCodeInfoMap = map[ErrorCode]ErrorCodeInfo{
	ErrInvalidConfig: {
		Code: ErrInvalidConfig, Category: "configuration", Description: "Invalid configuration provided",
	},
	ErrMissingCredentials: {
		Code: ErrMissingCredentials, Category: "configuration", Description: "App credentials are missing",
	},
	ErrInvalidArgument: {
		Code: ErrInvalidArgument, Category: "request", Description: "Required argument is missing",
	},
	ErrEncodeFailed: {
		Code: ErrEncodeFailed, Category: "request", Description: "Request body could not be encoded",
	},
	ErrTransport: {
		Code: ErrTransport, Category: "transport", Description: "HTTP exchange failed",
	},
	ErrMalformedEnvelope: {
		Code: ErrMalformedEnvelope, Category: "response", Description: "Response envelope lacks expected structure",
	},
	ErrUnresolvedUsers: {
		Code: ErrUnresolvedUsers, Category: "response", Description: "Email to open id resolution failed",
	},
	ErrInternal: {
		Code: ErrInternal, Category: "system", Description: "Internal error",
	},
}

// GetErrorCodeInfo returns information about an error code
func GetErrorCodeInfo(code ErrorCode) ErrorCodeInfo {
	info, exists := errorCodeInfoMap[code]
	if !exists {
		return ErrorCodeInfo{Code: code, Category: "unknown", Description: "Unknown error code"}
	}
	return info
}

// GetCategory returns the category of an error code
func GetCategory(code ErrorCode) string {
	return GetErrorCodeInfo(code).Category
}
