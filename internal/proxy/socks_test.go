package proxy

import (
	"net/http"
	"testing"
	"time"
)

func TestNewHTTPClientDirect(t *testing.T) {
	c, err := NewHTTPClient("", 0)
	if err != nil {
		t.Fatal(err)
	}
	if c.Transport != nil {
		t.Error("direct client should use the default transport")
	}
	if c.Timeout != 0 {
		t.Errorf("Timeout = %v, want none", c.Timeout)
	}
}

func TestNewHTTPClientSocks(t *testing.T) {
	c, err := NewHTTPClient("127.0.0.1:8888", 2*time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.Transport.(*http.Transport); !ok {
		t.Errorf("Transport = %T, want *http.Transport", c.Transport)
	}
	if c.Timeout != 2*time.Minute {
		t.Errorf("Timeout = %v, want 2m", c.Timeout)
	}
}
