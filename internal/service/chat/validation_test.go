package chat

import (
	"strings"
	"testing"

	chatSvc "arbor/internal/domain/services/chat"
)

func TestValidateSubmitRequest(t *testing.T) {
	tests := []struct {
		name    string
		req     chatSvc.SubmitRequest
		wantErr bool
	}{
		{
			name: "valid create",
			req:  chatSvc.SubmitRequest{Content: "Hello"},
		},
		{
			name: "valid edit",
			req: chatSvc.SubmitRequest{
				Content:          "Hello again",
				EditingMessageID: "6a0f0d3e-2f63-4f41-9f7b-1c9a45d0a111",
			},
		},
		{
			name:    "empty content",
			req:     chatSvc.SubmitRequest{Content: ""},
			wantErr: true,
		},
		{
			name: "content at limit",
			req:  chatSvc.SubmitRequest{Content: strings.Repeat("x", 32000)},
		},
		{
			name:    "content over limit",
			req:     chatSvc.SubmitRequest{Content: strings.Repeat("x", 32001)},
			wantErr: true,
		},
		{
			name: "malformed edit id",
			req: chatSvc.SubmitRequest{
				Content:          "Hello",
				EditingMessageID: "not-a-uuid",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateSubmitRequest(&tt.req)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateSubmitRequest() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
