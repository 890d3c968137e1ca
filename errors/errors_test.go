package errors

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassByCode_CoversAllCodes(t *testing.T) {
	codes := []ErrorCode{
		CodeFileNotFound, CodeDirectoryNotFound, CodeDirectoryNotEmpty,
		CodeInvalidPath, CodePermissionDenied, CodeUnsupportedOperation,
		CodeAdapter, CodePathTraversal, CodeAbsolutePath, CodeNotDirectory,
		CodeUnknown,
	}
	assert.Len(t, classByCode, len(codes))
	for _, code := range codes {
		_, ok := classByCode[code]
		assert.True(t, ok, "code %s has no class", code)
	}
}

func TestClassGrouping(t *testing.T) {
	tests := []struct {
		code  ErrorCode
		class ErrorClass
	}{
		{CodeFileNotFound, ClassNotFound},
		{CodeDirectoryNotFound, ClassNotFound},
		{CodeDirectoryNotEmpty, ClassInvalid},
		{CodeInvalidPath, ClassInvalid},
		{CodePathTraversal, ClassInvalid},
		{CodeAbsolutePath, ClassInvalid},
		{CodeNotDirectory, ClassInvalid},
		{CodePermissionDenied, ClassForbidden},
		{CodeUnsupportedOperation, ClassAdapter},
		{CodeAdapter, ClassAdapter},
		{CodeUnknown, ClassUnknown},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.class, New(tt.code, "x").Class())
		})
	}
}

func TestFileNotFound_Fields(t *testing.T) {
	err := FileNotFound("a/b.txt")
	assert.Equal(t, CodeFileNotFound, err.Code())
	assert.Equal(t, ClassNotFound, err.Class())
	assert.Equal(t, "a/b.txt", err.Context()["path"])
	assert.Contains(t, err.Error(), "a/b.txt")
}

func TestUnsupportedOperation_Fields(t *testing.T) {
	err := UnsupportedOperation("append", "minio")
	assert.Equal(t, CodeUnsupportedOperation, err.Code())
	assert.Equal(t, "append", err.Context()["operation"])
	assert.Equal(t, "minio", err.Context()["backend"])
}

func TestAdapterError_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("connection reset")
	err := AdapterError("minio", cause)
	assert.Equal(t, CodeAdapter, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "minio", err.Context()["backend"])
}

func TestConvert_Nil(t *testing.T) {
	assert.Nil(t, Convert(nil))
}

func TestConvert_Idempotent(t *testing.T) {
	typed := PathTraversal("../x")
	converted := Convert(typed)
	assert.Equal(t, typed, converted)

	// Idempotent through a wrapping layer as well.
	wrapped := fmt.Errorf("while copying: %w", typed)
	assert.Equal(t, CodePathTraversal, Convert(wrapped).Code())
}

func TestConvert_MapsNotExist(t *testing.T) {
	raw := &fs.PathError{Op: "open", Path: "x.txt", Err: fs.ErrNotExist}
	converted := Convert(raw)
	assert.Equal(t, CodeFileNotFound, converted.Code())
	assert.Equal(t, "x.txt", converted.Context()["path"])
	assert.ErrorIs(t, converted, fs.ErrNotExist)
}

func TestConvert_MapsPermission(t *testing.T) {
	raw := &fs.PathError{Op: "write", Path: "x.txt", Err: fs.ErrPermission}
	converted := Convert(raw)
	assert.Equal(t, CodePermissionDenied, converted.Code())
	assert.Equal(t, "write", converted.Context()["operation"])
}

func TestConvert_UnknownPreservesOriginal(t *testing.T) {
	raw := fmt.Errorf("something backend-specific")
	converted := Convert(raw)
	assert.Equal(t, CodeUnknown, converted.Code())
	assert.Equal(t, ClassUnknown, converted.Class())
	assert.ErrorIs(t, converted, raw)
}

func TestWithContext_MergesFields(t *testing.T) {
	err := AdapterError("local", fmt.Errorf("disk full"))
	err = WithContext(err, "side", "destination")
	ctx := err.Context()
	assert.Equal(t, "local", ctx["backend"])
	assert.Equal(t, "destination", ctx["side"])
	assert.Equal(t, CodeAdapter, err.Code())
}

func TestWithContext_UpgradesPlainError(t *testing.T) {
	err := WithContext(fmt.Errorf("boom"), "k", "v")
	assert.Equal(t, CodeUnknown, err.Code())
	assert.Equal(t, "v", err.Context()["k"])
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeAdapter, "x"))
}

func TestGetCode_Chain(t *testing.T) {
	err := fmt.Errorf("outer: %w", FileNotFound("f"))
	assert.Equal(t, CodeFileNotFound, GetCode(err))
	assert.Equal(t, ClassNotFound, GetClass(err))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsUnsupported(err))
}

func TestToJSON_RoundTrip(t *testing.T) {
	err := UnsupportedOperation("truncate", "github")
	data, marshalErr := json.Marshal(err)
	require.NoError(t, marshalErr)

	var decoded ErrorResponse
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, string(CodeUnsupportedOperation), decoded.Code)
	assert.Equal(t, string(ClassAdapter), decoded.Class)
	assert.Equal(t, "truncate", decoded.Context["operation"])
}
