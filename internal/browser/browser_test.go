package browser

import "testing"

func TestValidate(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/post/1", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validate(tt.url)
		if (err != nil) != tt.wantErr {
			t.Errorf("validate(%q) err = %v, wantErr %v", tt.url, err, tt.wantErr)
		}
	}
}

func TestCommandPerOS(t *testing.T) {
	tests := []struct {
		goos string
		name string
	}{
		{"darwin", "open"},
		{"windows", "rundll32"},
		{"linux", "xdg-open"},
		{"freebsd", "xdg-open"},
	}

	for _, tt := range tests {
		name, args := command(tt.goos, "https://example.com")
		if name != tt.name {
			t.Errorf("command(%q) name = %q, want %q", tt.goos, name, tt.name)
		}
		if args[len(args)-1] != "https://example.com" {
			t.Errorf("command(%q) args = %v, URL must be last", tt.goos, args)
		}
	}
}
