package docker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMessage_ErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  buildMessage
		want string
	}{
		{name: "stream only", msg: buildMessage{Stream: "Step 1/3"}, want: ""},
		{name: "error field", msg: buildMessage{Error: " failed to solve \n"}, want: "failed to solve"},
		{
			name: "error detail",
			msg: func() buildMessage {
				m := buildMessage{}
				m.ErrorDetail.Message = "no such file"
				return m
			}(),
			want: "no such file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.msg.errorMessage())
		})
	}
}

func TestNew_DoesNotRequireDaemon(t *testing.T) {
	c, err := New("tcp://127.0.0.1:1")
	assert.NoError(t, err)
	assert.NoError(t, c.Close())
}
