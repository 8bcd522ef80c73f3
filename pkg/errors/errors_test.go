package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/molgraph/pkg/errors"
)

func TestNew_FieldsAreSetCorrectly(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		code    errors.ErrorCode
		message string
	}{
		{"empty smiles", errors.CodeMoleculeEmptySMILES, "SMILES must not be empty"},
		{"invalid smiles", errors.CodeMoleculeInvalidSMILES, "unbalanced parentheses"},
		{"internal", errors.CodeInternal, "unexpected failure"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			ae := errors.New(tc.code, tc.message)
			require.NotNil(t, ae)
			assert.Equal(t, tc.code, ae.Code)
			assert.Equal(t, tc.message, ae.Message)
			assert.Empty(t, ae.Detail)
			assert.Nil(t, ae.Cause)
			assert.Contains(t, ae.Stack, "errors_test.go")
		})
	}
}

func TestNewf(t *testing.T) {
	ae := errors.Newf(errors.CodeInvalidParam, "radius %d out of range", -1)
	assert.Equal(t, "radius -1 out of range", ae.Message)
}

func TestWrap(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.CodeInternal, "ignored"))
	})

	t.Run("cause chain is preserved", func(t *testing.T) {
		root := stderrors.New("connection refused")
		ae := errors.Wrap(root, errors.ErrCodeDatabaseError, "save failed")
		assert.True(t, stderrors.Is(ae, root))
		assert.Equal(t, root, ae.Unwrap())
	})

	t.Run("unknown code keeps the original", func(t *testing.T) {
		inner := errors.New(errors.CodeMoleculeNotFound, "entry missing")
		outer := errors.Wrap(inner, errors.CodeUnknown, "lookup")
		assert.Equal(t, errors.CodeMoleculeNotFound, outer.Code)
	})

	t.Run("explicit code overrides", func(t *testing.T) {
		inner := errors.New(errors.CodeMoleculeNotFound, "entry missing")
		outer := errors.Wrap(inner, errors.CodeInternal, "lookup")
		assert.Equal(t, errors.CodeInternal, outer.Code)
		assert.True(t, errors.IsCode(outer, errors.CodeMoleculeNotFound))
	})
}

func TestError_Format(t *testing.T) {
	ae := errors.New(errors.CodeMoleculeInvalidSMILES, "invalid SMILES")
	assert.Equal(t, "[MOL_001] invalid SMILES", ae.Error())

	withDetail := ae.WithDetail("unbalanced parentheses")
	assert.Equal(t, "[MOL_001] invalid SMILES: unbalanced parentheses", withDetail.Error())
	assert.Empty(t, ae.Detail, "WithDetail must not mutate the receiver")
}

func TestWithCause(t *testing.T) {
	cause := stderrors.New("boom")
	ae := errors.Internal("failed").WithCause(cause)
	assert.Equal(t, cause, ae.Cause)

	var nilErr *errors.AppError
	assert.Nil(t, nilErr.WithCause(cause))
	assert.Nil(t, nilErr.WithDetail("x"))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, errors.CodeOK, errors.GetCode(nil))
	assert.Equal(t, errors.CodeUnknown, errors.GetCode(stderrors.New("plain")))

	wrapped := fmt.Errorf("ctx: %w", errors.New(errors.CodeMoleculeEmptySMILES, "empty"))
	assert.Equal(t, errors.CodeMoleculeEmptySMILES, errors.GetCode(wrapped))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, errors.IsNotFound(errors.NotFound("x")))
	assert.True(t, errors.IsNotFound(errors.New(errors.CodeMoleculeNotFound, "x")))
	assert.True(t, errors.IsNotFound(fmt.Errorf("wrap: %w", errors.NotFound("x"))))
	assert.False(t, errors.IsNotFound(errors.InvalidParam("x")))
	assert.False(t, errors.IsNotFound(nil))
}

func TestConvenienceFactories(t *testing.T) {
	assert.Equal(t, errors.CodeNotFound, errors.NotFound("a").Code)
	assert.Equal(t, errors.CodeInvalidParam, errors.InvalidParam("b").Code)
	assert.Equal(t, errors.CodeInternal, errors.Internal("c").Code)
	assert.Equal(t, errors.CodeConflict, errors.Conflict("d").Code)
}

func TestStdlibInterop(t *testing.T) {
	ae := errors.New(errors.CodeFingerprintLengthMismatch, "128 != 256")
	wrapped := fmt.Errorf("compare: %w", ae)

	var target *errors.AppError
	require.True(t, errors.As(wrapped, &target))
	assert.Equal(t, errors.CodeFingerprintLengthMismatch, target.Code)
	assert.True(t, errors.Is(wrapped, ae))
}

//Personal.AI order the ending
