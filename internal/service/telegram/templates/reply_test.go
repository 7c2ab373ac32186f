package templates

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/m04kA/SMC-WebhookRelay/internal/domain"
)

func TestFormatReply(t *testing.T) {
	tests := []struct {
		name  string
		reply domain.WebhookReply
		want  string
	}{
		{name: "nil", reply: nil, want: ""},
		{name: "empty", reply: domain.WebhookReply{}, want: ""},
		{
			name:  "single",
			reply: domain.WebhookReply{{Key: "question", Value: "42"}},
			want:  "1. 42\n",
		},
		{
			name: "keeps order",
			reply: domain.WebhookReply{
				{Key: "a", Value: "x"},
				{Key: "b", Value: "y"},
			},
			want: "1. x\n2. y\n",
		},
		{
			name: "non-string values are already rendered",
			reply: domain.WebhookReply{
				{Key: "n", Value: "3.14"},
				{Key: "o", Value: `{"k":1}`},
				{Key: "e", Value: ""},
			},
			want: "1. 3.14\n2. {\"k\":1}\n3. \n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatReply(tt.reply))
		})
	}
}

func FuzzFormatReply_LineCount(f *testing.F) {
	f.Add("x", "y")
	f.Add("", "")
	f.Fuzz(func(t *testing.T, a, b string) {
		out := FormatReply(domain.WebhookReply{{Key: "a", Value: a}, {Key: "b", Value: b}})
		assert.Equal(t, "1. "+a+"\n2. "+b+"\n", out)
	})
}
