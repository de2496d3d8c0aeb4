package extract

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain latin line", "Greek Salad 32.50", "Greek Salad 32.50"},
		{"keeps shekel sign", "סלט יווני 32.50₪", "סלט יווני 32.50₪"},
		{"keeps currency word", `המבורגר 52 ש"ח`, `המבורגר 52 ש"ח`},
		{"strips symbols", "***Pizza!! 45??", "Pizza 45"},
		{"strips emoji and box noise", "🍕 Pizza │ 45", "Pizza  45"},
		{"trims whitespace", "  חומוס 18  ", "חומוס 18"},
		{"empty", "", ""},
		{"only noise", "!!!###***", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := Normalize(got); again != got {
				t.Errorf("Normalize not idempotent: %q -> %q", got, again)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"שניצל עם ציפס 58.90 ₪",
		"random $%^ noise 12,50",
		"  \t mixed עברית and English 7  ",
	}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize(Normalize(%q)) = %q, want %q", in, twice, once)
		}
	}
}
