package id

import "testing"

func TestCode_Format(t *testing.T) {
	cases := map[uint64]string{
		1:    "T001",
		42:   "T042",
		999:  "T999",
		1234: "T1234",
	}
	for n, want := range cases {
		if got := Code("T", n); got != want {
			t.Fatalf("Code(T, %d) = %q, want %q", n, got, want)
		}
	}
}

func TestParseCode(t *testing.T) {
	ok := map[string]uint64{
		"T001":   1,
		"t042":   42,
		"17":     17,
		" T1234": 1234,
	}
	for raw, want := range ok {
		got, err := ParseCode("T", raw)
		if err != nil {
			t.Fatalf("ParseCode(%q) err: %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseCode(%q) = %d, want %d", raw, got, want)
		}
	}
	for _, raw := range []string{"", "T", "TX1", "0", "T000", "-3", "abc"} {
		if _, err := ParseCode("T", raw); err == nil {
			t.Fatalf("ParseCode(%q) want error", raw)
		}
	}
}
