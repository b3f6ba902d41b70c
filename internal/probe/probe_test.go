package probe

import (
	"testing"
	"time"

	"github.com/go-rod/rod/lib/proto"
	"github.com/jmgilman/canvas/internal/artifact"
	"github.com/stretchr/testify/assert"
	"github.com/ysmood/gson"
)

func TestFormatArg(t *testing.T) {
	tests := []struct {
		name string
		obj  *proto.RuntimeRemoteObject
		want string
	}{
		{
			name: "string",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeString, Value: gson.New("hello")},
			want: "hello",
		},
		{
			name: "number",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeNumber, Value: gson.New(42), Description: "42"},
			want: "42",
		},
		{
			name: "unserializable",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeNumber, UnserializableValue: "NaN"},
			want: "NaN",
		},
		{
			name: "undefined",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeUndefined},
			want: "undefined",
		},
		{
			name: "null",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeObject, Subtype: proto.RuntimeRemoteObjectSubtypeNull},
			want: "null",
		},
		{
			name: "object",
			obj:  &proto.RuntimeRemoteObject{Type: proto.RuntimeRemoteObjectTypeObject, ClassName: "Array", Description: "Array(3)"},
			want: "Array(3)",
		},
		{
			name: "nil",
			obj:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatArg(tt.obj))
		})
	}
}

func TestConsoleLog(t *testing.T) {
	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	args := []*proto.RuntimeRemoteObject{
		{Type: proto.RuntimeRemoteObjectTypeString, Value: gson.New("count:")},
		{Type: proto.RuntimeRemoteObjectTypeNumber, Value: gson.New(3)},
	}

	tests := []struct {
		kind string
		want artifact.LogType
	}{
		{"log", artifact.LogTypeLog},
		{"debug", artifact.LogTypeLog},
		{"error", artifact.LogTypeError},
		{"assert", artifact.LogTypeError},
		{"warning", artifact.LogTypeWarn},
		{"info", artifact.LogTypeInfo},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			got := consoleLog(tt.kind, args, at)
			assert.Equal(t, artifact.ConsoleLog{Type: tt.want, Message: "count: 3", Timestamp: at}, got)
		})
	}
}

func TestExceptionLog(t *testing.T) {
	at := time.Now()

	t.Run("uses exception description", func(t *testing.T) {
		got := exceptionLog(&proto.RuntimeExceptionDetails{
			Text:      "Uncaught",
			Exception: &proto.RuntimeRemoteObject{Description: "ReferenceError: foo is not defined"},
		}, at)
		assert.Equal(t, artifact.LogTypeError, got.Type)
		assert.Equal(t, "ReferenceError: foo is not defined", got.Message)
	})

	t.Run("falls back to text", func(t *testing.T) {
		got := exceptionLog(&proto.RuntimeExceptionDetails{Text: "Uncaught SyntaxError"}, at)
		assert.Equal(t, "Uncaught SyntaxError", got.Message)
	})

	t.Run("no details", func(t *testing.T) {
		assert.Equal(t, "Uncaught exception", exceptionLog(nil, at).Message)
	})
}
