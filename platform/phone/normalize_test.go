package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		in, region, want string
	}{
		{"(11) 98765-4321", "", "+5511987654321"},
		{"+55 11 98765-4321", "US", "+5511987654321"},
		{"(650) 253-0000", "us", "+16502530000"},
		{"  ", "", ""},
		{"12", "", "12"},
		{"not a phone", "", "not a phone"},
	}
	for _, tc := range cases {
		if got := NormalizeE164In(tc.in, tc.region); got != tc.want {
			t.Fatalf("NormalizeE164In(%q, %q) = %q, want %q", tc.in, tc.region, got, tc.want)
		}
	}
	if got := NormalizeE164("(11) 98765-4321"); got != "+5511987654321" {
		t.Fatalf("NormalizeE164 = %q", got)
	}
}

func TestIsValid(t *testing.T) {
	if !IsValid("(11) 98765-4321", "") {
		t.Fatal("expected valid Brazilian mobile")
	}
	if IsValid("123", "BR") {
		t.Fatal("expected invalid short number")
	}
}
