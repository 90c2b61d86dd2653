package models

import "testing"

func TestKeys(t *testing.T) {
	if got := ShortIDKey("abc123"); got != "id:abc123" {
		t.Errorf("ShortIDKey() = %q, want %q", got, "id:abc123")
	}
	if got := OriginalURLKey("https://example.com"); got != "url:https://example.com" {
		t.Errorf("OriginalURLKey() = %q, want %q", got, "url:https://example.com")
	}
}

func TestParseStorageType(t *testing.T) {
	tests := []struct {
		in      string
		want    StorageType
		wantErr bool
	}{
		{in: "memory", want: Memory},
		{in: "redis", want: Redis},
		{in: "postgres", want: Postgres},
		{in: "both", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStorageType(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseStorageType(%q) expected error but got nil", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStorageType(%q) returned unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseStorageType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
