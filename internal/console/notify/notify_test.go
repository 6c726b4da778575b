package notify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hankerbiao/Registration-System/internal/console/client"
)

func apiError(status int, detail string) error {
	return &client.APIError{StatusCode: status, Body: client.ErrorBody{Detail: json.RawMessage(detail)}}
}

func TestMessagePrecedence(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"first list entry", apiError(422, `[{"msg":"邮箱是必填项","loc":["body","email"],"type":"missing"},{"msg":"second"}]`), "邮箱是必填项"},
		{"string detail", apiError(400, `"Incorrect email or password"`), "Incorrect email or password"},
		{"empty list", apiError(422, `[]`), FallbackMessage},
		{"no detail", apiError(500, ``), FallbackMessage},
		{"object detail", apiError(400, `{"reason":"x"}`), `{"reason":"x"}`},
		{"wrapped", fmt.Errorf("create athlete: %w", apiError(409, `"Athlete with this ID number already exists"`)), "Athlete with this ID number already exists"},
		{"network", errors.New("connection refused"), FallbackMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Message(tt.err))
		})
	}
}

func TestErrorHandlerNotifiesInjectedNotifier(t *testing.T) {
	rec := &Recorder{}
	h := NewErrorHandler(rec)

	h.Handle(apiError(400, `"Inactive user"`))
	h.Handle(nil)

	assert.Equal(t, []Toast{Failure("Inactive user")}, rec.Toasts())
	assert.Equal(t, LevelError, rec.Drain()[0].Level)
	assert.Empty(t, rec.Toasts())
}

func TestWriterNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := WriterNotifier{W: &buf}

	n.Notify(Success(AthleteCreated))
	n.Notify(Failure(FallbackMessage))

	assert.Equal(t, "✓ 成功！ 运动员创建成功。\n✗ 错误 出现了错误。\n", buf.String())
}
