package login

import "testing"

func TestValidatePasswordPolicy(t *testing.T) {
	cases := []struct {
		name string
		pwd  string
		want string
	}{
		{name: "valid mixed", pwd: "Chem-Lab-2024!"},
		{name: "short", pwd: "A1!bc", want: "password needs at least 12 characters"},
		{name: "letters only", pwd: "abcdefghijklmn", want: "password needs an upper-case letter, a digit, a symbol"},
		{name: "no symbol", pwd: "Abcdefghij12", want: "password needs a symbol"},
		{name: "multibyte counts runes", pwd: "Äbc-1ü", want: "password needs at least 12 characters"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePasswordPolicy(tc.pwd)
			if tc.want == "" {
				if err != nil {
					t.Fatalf("expected valid password, got error: %v", err)
				}
				return
			}
			if err == nil || err.Error() != tc.want {
				t.Fatalf("got %v, want %q", err, tc.want)
			}
		})
	}
}
