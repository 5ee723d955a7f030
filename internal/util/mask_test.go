package util

import "testing"

func TestMaskAccount(t *testing.T) {
	cases := map[string]string{
		"CORP\\JDoe":      "CORP\\j…e",
		"jdoe@corp.local": "j…@c….local",
		"administrator":   "a…r",
		"bob":             "***",
		"":                "",
		"  ÁLVARO ":       "á…o",
		"CORP\\":          "CORP\\",
	}
	for in, want := range cases {
		if got := MaskAccount(in); got != want {
			t.Errorf("MaskAccount(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMaskEmail(t *testing.T) {
	if got := MaskEmail("Someone@Example.com"); got != "s…@e….com" {
		t.Fatalf("got %q", got)
	}
}
