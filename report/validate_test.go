package report

import "testing"

func TestValidTarget(t *testing.T) {
	cases := []struct {
		target string
		ok     bool
	}{
		{"@valid_user", true},
		{"@abcde", true},
		{"@" + "a2345678901234567890123456789012", true}, // 32 chars
		{"https://t.me/username", true},
		{"http://t.me/username", true},
		{"https://t.me/username/", true},
		{"https://t.me/+AbC123xyz", true},

		{"@abc", false},  // too short
		{"@" + "a23456789012345678901234567890123", false}, // 33 chars
		{"@bad-name", false},
		{"username", false},
		{"", false},
		{"https://t.me/", false},
		{"https://telegram.me/username", false},
		{"https://t.me/username extra", false},
		{"see https://t.me/username", false},
		{"@user name", false},
	}
	for _, tc := range cases {
		if got := ValidTarget(tc.target); got != tc.ok {
			t.Errorf("ValidTarget(%q) = %v, want %v", tc.target, got, tc.ok)
		}
	}
}
