package cmd

import (
	"os"
	"testing"
)

func TestValidateAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		// Valid addresses
		{name: "port only", addr: ":8000", wantErr: false},
		{name: "localhost", addr: "localhost:8000", wantErr: false},
		{name: "loopback", addr: "127.0.0.1:8000", wantErr: false},
		{name: "all interfaces", addr: "0.0.0.0:80", wantErr: false},
		{name: "ipv6 loopback", addr: "[::1]:8000", wantErr: false},
		{name: "port zero", addr: ":0", wantErr: false},
		{name: "port max", addr: ":65535", wantErr: false},
		{name: "hostname", addr: "myhost:9090", wantErr: false},

		// Invalid: bad format
		{name: "no port", addr: "localhost", wantErr: true},
		{name: "port alone", addr: "8000", wantErr: true},
		{name: "empty string", addr: "", wantErr: true},

		// Invalid: bad port
		{name: "port non-numeric", addr: ":abc", wantErr: true},
		{name: "port negative", addr: ":-1", wantErr: true},
		{name: "port too high", addr: ":65536", wantErr: true},
		{name: "port empty after colon", addr: "localhost:", wantErr: true},

		// Invalid: bad host
		{name: "host with space", addr: "my host:8000", wantErr: true},
		{name: "host with tab", addr: "my\thost:8000", wantErr: true},
		{name: "host with newline", addr: "my\nhost:8000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateAddr(tt.addr)
			if tt.wantErr && err == nil {
				t.Errorf("validateAddr(%q) = nil, want error", tt.addr)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("validateAddr(%q) = %v, want nil", tt.addr, err)
			}
		})
	}
}

// swapArgs replaces os.Args for the test and restores it on cleanup.
// Tests that call it must not run in parallel.
func swapArgs(t *testing.T, args ...string) {
	t.Helper()
	old := os.Args
	os.Args = args
	t.Cleanup(func() { os.Args = old })
}

func TestParseServeAddr(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		def     string
		want    string
		wantErr bool
	}{
		{name: "default from config", args: nil, def: ":8000", want: ":8000"},
		{name: "positional override", args: []string{":9000"}, def: ":8000", want: ":9000"},
		{name: "flag override", args: []string{"--addr", "127.0.0.1:9000"}, def: ":8000", want: "127.0.0.1:9000"},
		{name: "single dash flag", args: []string{"-addr", ":9000"}, def: ":8000", want: ":9000"},
		{name: "positional missing colon", args: []string{"9000"}, def: ":8000", wantErr: true},
		{name: "invalid default", args: nil, def: "not-an-addr", wantErr: true},
		{name: "unknown flag", args: []string{"--bogus"}, def: ":8000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			swapArgs(t, append([]string{"coda-assistant", "serve"}, tt.args...)...)

			got, err := parseServeAddr(tt.def)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseServeAddr(%q) = %q, want error", tt.def, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseServeAddr(%q) error: %v", tt.def, err)
			}
			if got != tt.want {
				t.Errorf("parseServeAddr(%q) = %q, want %q", tt.def, got, tt.want)
			}
		})
	}
}

func FuzzValidateAddr(f *testing.F) {
	f.Add(":8000")
	f.Add("localhost:8000")
	f.Add("127.0.0.1:80")
	f.Add("")
	f.Add("abc")
	f.Add(":0")
	f.Add(":99999")
	f.Add("[::1]:8000")
	f.Add("host with space:80")

	f.Fuzz(func(t *testing.T, addr string) {
		_ = validateAddr(addr) // must not panic
	})
}
