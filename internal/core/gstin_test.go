package core_test

import (
	"testing"

	"gst-engine/internal/core"
)

func TestValidGSTIN(t *testing.T) {
	tests := []struct {
		name  string
		gstin string
		want  bool
	}{
		{"Valid Maharashtra GSTIN", "27AAPFU0939F1ZV", true},
		{"Valid with lowercase PAN letters", "29aapfu0939f1zv", true},
		{"Valid with digit entity code", "07ABCDE1234F2Z5", true},
		{"Too short", "27AAPFU0939F1Z", false},
		{"Too long", "27AAPFU0939F1ZVX", false},
		{"Empty", "", false},
		{"Letter in state code", "2AAAPFU0939F1ZV", false},
		{"Digit in PAN letter block", "27AAP4U0939F1ZV", false},
		{"Letter in PAN digit block", "27AAPFUO939F1ZV", false},
		{"Digit at PAN tail letter", "27AAPFU09391AZV", false},
		{"Symbol in entity code", "27AAPFU0939F-ZV", false},
		{"Symbol in checksum position", "27AAPFU0939F1Z!", false},
		{"Anything in position 14 accepted", "27AAPFU0939F1!V", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := core.ValidGSTIN(tc.gstin); got != tc.want {
				t.Errorf("ValidGSTIN(%q) = %v, want %v", tc.gstin, got, tc.want)
			}
		})
	}
}

func TestGSTINStateCode(t *testing.T) {
	if got := core.GSTINStateCode("27AAPFU0939F1ZV"); got != "27" {
		t.Errorf("state code = %q, want 27", got)
	}
	if got := core.GSTINStateCode("2"); got != "" {
		t.Errorf("state code of short string = %q, want empty", got)
	}
}
