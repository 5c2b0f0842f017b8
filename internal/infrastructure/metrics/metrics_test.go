package metrics

import "testing"

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "static path is untouched",
			path: "/v1/characters",
			want: "/v1/characters",
		},
		{
			name: "conversation ID is collapsed",
			path: "/v1/conversations/conv_a1b2c3d4e5f6a7b8",
			want: "/v1/conversations/:id",
		},
		{
			name: "nested resource IDs are collapsed",
			path: "/v1/conversations/conv_a1b2c3d4e5f6a7b8/messages",
			want: "/v1/conversations/:id/messages",
		},
		{
			name: "character ID is collapsed",
			path: "/v1/characters/char_0z9y8x7w6v5u4t3s",
			want: "/v1/characters/:id",
		},
		{
			name: "non-ID segment with underscore survives",
			path: "/v1/ai/config",
			want: "/v1/ai/config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeEndpoint(tt.path); got != tt.want {
				t.Errorf("NormalizeEndpoint(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}
