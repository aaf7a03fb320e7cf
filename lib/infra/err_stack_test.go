package infra

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

//go:noinline
func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	pc := caller()
	testcases := []struct {
		Frame
		format string
		check  func(res string) bool
	}{
		{pc, "%s", func(res string) bool { return res == "err_stack_test.go" }},
		{pc, "%n", func(res string) bool { return res == "TestFrameFormat" }},
		{pc, "%v", func(res string) bool { return strings.HasPrefix(res, "err_stack_test.go:") }},
		{pc, "%+s", func(res string) bool {
			return strings.HasPrefix(res, "github.com/benz9527/xset/lib/infra.TestFrameFormat\n\t") &&
				strings.HasSuffix(res, "err_stack_test.go")
		}},
		{Frame(0), "%s", func(res string) bool { return res == "unknownFile" }},
		{Frame(0), "%n", func(res string) bool { return res == "unknownFunc" }},
		{Frame(0), "%d", func(res string) bool { return res == "0" }},
	}

	for _, tc := range testcases {
		res := fmt.Sprintf(tc.format, tc.Frame)
		require.Truef(t, tc.check(res), "format %s got %q", tc.format, res)
	}
}

func TestFrameMarshal(t *testing.T) {
	text, err := Frame(0).MarshalText()
	require.NoError(t, err)
	require.True(t, bytes.Equal([]byte("unknownFrame"), text))

	_bytes, err := json.Marshal(Frame(0))
	require.NoError(t, err)
	require.Equal(t, "{\"frame\":\"unknownFrame\"}", string(_bytes))

	_bytes, err = json.Marshal(caller())
	require.NoError(t, err)
	res := map[string]string{}
	require.NoError(t, json.Unmarshal(_bytes, &res))
	require.Equal(t, "github.com/benz9527/xset/lib/infra.TestFrameMarshal", res["func"])
	require.Contains(t, res["fileAndLine"], "err_stack_test.go:")
}

func TestErrorStack(t *testing.T) {
	errA, errB := errors.New("a"), errors.New("b")

	require.Nil(t, WrapErrorStack(nil))
	require.Nil(t, AppendErrorStack(nil))
	require.Nil(t, AppendErrorStack(nil, nil, nil))

	es := WrapErrorStack(errA)
	require.NotNil(t, es)
	require.NotEmpty(t, es.Frames())
	require.Contains(t, fmt.Sprintf("%+s", es.Frames()[0]), "lib/infra")
	require.Same(t, es, WrapErrorStack(es))

	es = AppendErrorStack(es, nil, errB)
	require.ErrorIs(t, es, errA)
	require.ErrorIs(t, es, errB)
	require.Len(t, es.Unwrap(), 2)
	require.Equal(t, "a; b", es.Error())

	es2 := AppendErrorStack(nil, errB)
	require.ErrorIs(t, es2, errB)
	require.NotErrorIs(t, es2, errA)

	es3 := NewErrorStack("boom")
	require.Equal(t, "boom", es3.Error())
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	es := AppendErrorStack(nil, errors.New("x"), errors.New("y"))
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, es.MarshalLogObject(enc))
	require.Equal(t, []interface{}{"x", "y"}, enc.Fields["errors"])
	frames, ok := enc.Fields["errorStack"].([]interface{})
	require.True(t, ok)
	require.Equal(t, len(es.Frames()), len(frames))
}
