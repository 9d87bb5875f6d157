package phone

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"+998901234567", "+998901234567"},
		{"901234567", "+998901234567"},
		{" +998 90 123-45-67 ", "+998901234567"},
		{"90 123 45 67", "+998901234567"},
		{"", "+998"},
		{"abc", "+998"},
		{"+9989012345679999", "+998901234567"},
		{"950094443", "+998950094443"},
	}

	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
