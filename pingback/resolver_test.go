package pingback_test

import (
	"testing"

	"github.com/marcelsud/pingback/pingback"
	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	plain := pingback.HostContext{Host: "example.com"}
	secure := pingback.HostContext{Host: "example.com", Secure: true}

	tests := []struct {
		name string
		ref  string
		host pingback.HostContext
		want string
	}{
		{"local reference", "../blog/post", plain, "http://example.com/blog/post"},
		{"local reference over tls", "../blog/post", secure, "https://example.com/blog/post"},
		{"every dot pair is removed", "../a/../b", plain, "http://example.com/a//b"},
		{"absolute url untouched", "http://other.org/x", plain, "http://other.org/x"},
		{"single dot untouched", "./post", plain, "./post"},
		{"inner dots untouched", "/a/../b", plain, "/a/../b"},
		{"fragment untouched", "#top", plain, "#top"},
		{"empty untouched", "", plain, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pingback.Resolve(tt.ref, tt.host))
		})
	}
}

func TestHostContext_Origin(t *testing.T) {
	assert.Equal(t, "http://example.com:8080", pingback.HostContext{Host: "example.com:8080"}.Origin())
	assert.Equal(t, "https://example.com", pingback.HostContext{Host: "example.com", Secure: true}.Origin())
}
