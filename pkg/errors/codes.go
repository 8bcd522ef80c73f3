package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeConflict           ErrorCode = "COMMON_006"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeDatabaseError      ErrorCode = "COMMON_012"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeMessagingError     ErrorCode = "COMMON_014"
)

// Short aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeConflict     = ErrCodeConflict
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("UNKNOWN")

	CodeMoleculeInvalidSMILES = ErrCodeMoleculeInvalidSMILES
	CodeMoleculeEmptySMILES   = ErrCodeMoleculeEmptySMILES
	CodeMoleculeNotFound      = ErrCodeMoleculeNotFound

	CodeFingerprintLengthMismatch = ErrCodeFingerprintLengthMismatch
)

// Molecule Module Error Codes
const (
	ErrCodeMoleculeInvalidSMILES       ErrorCode = "MOL_001"
	ErrCodeMoleculeNotFound            ErrorCode = "MOL_004"
	ErrCodeMoleculeAlreadyExists       ErrorCode = "MOL_005"
	ErrCodeMoleculeParsingFailed       ErrorCode = "MOL_006"
	ErrCodeFingerprintGenerationFailed ErrorCode = "MOL_007"
	ErrCodeSimilaritySearchFailed      ErrorCode = "MOL_009"
	ErrCodeSimilarityThresholdInvalid  ErrorCode = "MOL_010"
	ErrCodeMoleculeEmptySMILES         ErrorCode = "MOL_016"
	ErrCodeMoleculeUnknownElement      ErrorCode = "MOL_017"
	ErrCodeFingerprintLengthMismatch   ErrorCode = "MOL_018"
)

// Reaction Module Error Codes
const (
	ErrCodeReactionMalformed       ErrorCode = "RXN_001"
	ErrCodeReactionComponentFailed ErrorCode = "RXN_002"
)

// ErrorCodeHTTPStatus maps ErrorCode to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeConflict:           http.StatusConflict,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeDatabaseError:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeMessagingError:     http.StatusBadGateway,

	ErrCodeMoleculeInvalidSMILES:       http.StatusBadRequest,
	ErrCodeMoleculeNotFound:            http.StatusNotFound,
	ErrCodeMoleculeAlreadyExists:       http.StatusConflict,
	ErrCodeMoleculeParsingFailed:       http.StatusUnprocessableEntity,
	ErrCodeFingerprintGenerationFailed: http.StatusBadRequest,
	ErrCodeSimilaritySearchFailed:      http.StatusInternalServerError,
	ErrCodeSimilarityThresholdInvalid:  http.StatusBadRequest,
	ErrCodeMoleculeEmptySMILES:         http.StatusBadRequest,
	ErrCodeMoleculeUnknownElement:      http.StatusUnprocessableEntity,
	ErrCodeFingerprintLengthMismatch:   http.StatusBadRequest,

	ErrCodeReactionMalformed:       http.StatusBadRequest,
	ErrCodeReactionComponentFailed: http.StatusUnprocessableEntity,
}

// ErrorCodeMessage maps ErrorCode to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeConflict:           "resource conflict",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization error",
	ErrCodeDatabaseError:      "database error",
	ErrCodeCacheError:         "cache error",
	ErrCodeMessagingError:     "messaging error",

	ErrCodeMoleculeInvalidSMILES:       "invalid SMILES",
	ErrCodeMoleculeNotFound:            "molecule not found",
	ErrCodeMoleculeAlreadyExists:       "molecule already exists",
	ErrCodeMoleculeParsingFailed:       "failed to parse molecule",
	ErrCodeFingerprintGenerationFailed: "failed to generate fingerprint",
	ErrCodeSimilaritySearchFailed:      "similarity search failed",
	ErrCodeSimilarityThresholdInvalid:  "invalid similarity threshold",
	ErrCodeMoleculeEmptySMILES:         "empty SMILES",
	ErrCodeMoleculeUnknownElement:      "unknown element",
	ErrCodeFingerprintLengthMismatch:   "fingerprint length mismatch",

	ErrCodeReactionMalformed:       "malformed reaction",
	ErrCodeReactionComponentFailed: "failed to parse reaction component",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
