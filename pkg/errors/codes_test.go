package errors

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "MOL_016", ErrCodeMoleculeEmptySMILES.String())
}

func TestHTTPStatusForCode(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodeInternal, 500},
		{ErrCodeBadRequest, 400},
		{ErrCodeNotFound, 404},
		{ErrCodeValidation, 422},
		{ErrCodeMoleculeEmptySMILES, 400},
		{ErrCodeMoleculeInvalidSMILES, 400},
		{ErrCodeMoleculeUnknownElement, 422},
		{ErrCodeFingerprintLengthMismatch, 400},
		{ErrCodeReactionMalformed, 400},
		{ErrorCode("UNKNOWN"), 500},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatusForCode(tt.code))
		})
	}
}

func TestDefaultMessageForCode(t *testing.T) {
	assert.Equal(t, "empty SMILES", DefaultMessageForCode(ErrCodeMoleculeEmptySMILES))
	assert.Equal(t, "unknown error", DefaultMessageForCode(ErrorCode("UNKNOWN")))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(ErrCodeMoleculeEmptySMILES))
	assert.True(t, IsClientError(ErrCodeMoleculeInvalidSMILES))
	assert.False(t, IsClientError(ErrCodeDatabaseError))
}

func TestIsServerError(t *testing.T) {
	assert.True(t, IsServerError(ErrCodeCacheError))
	assert.False(t, IsServerError(ErrCodeFingerprintGenerationFailed))
}

func TestModuleForCode(t *testing.T) {
	assert.Equal(t, "COMMON", ModuleForCode(ErrCodeInternal))
	assert.Equal(t, "MOL", ModuleForCode(ErrCodeMoleculeNotFound))
	assert.Equal(t, "RXN", ModuleForCode(ErrCodeReactionMalformed))
	assert.Equal(t, "UNKNOWN", ModuleForCode(ErrorCode("")))
}

func TestErrorCodeMappings_Completeness(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z]+_\d{3}$`)
	for code := range ErrorCodeHTTPStatus {
		assert.Regexp(t, re, string(code))
		_, hasMessage := ErrorCodeMessage[code]
		assert.True(t, hasMessage, "missing message for %s", code)
	}
	assert.Equal(t, len(ErrorCodeHTTPStatus), len(ErrorCodeMessage))
}

//Personal.AI order the ending
