package utils

import (
	"errors"
	"testing"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Hello, World!", "hello-world"},
		{"  My   First Post  ", "my-first-post"},
		{"Crème Brûlée — рецепт!", "creme-brulee-рецепт"},
		{"already-a-slug", "already-a-slug"},
		{"Go 1.23: что нового?", "go-123-что-нового"},
		{"---Dashes---Everywhere---", "dashes-everywhere"},
	}

	for _, c := range cases {
		got, err := Slugify(c.in)
		if err != nil {
			t.Fatalf("Slugify(%q): неожиданная ошибка: %v", c.in, err)
		}
		if got != c.want {
			t.Errorf("Slugify(%q) = %q, ожидалось %q", c.in, got, c.want)
		}
	}
}

func TestSlugify_Idempotent(t *testing.T) {
	inputs := []string{"Hello, World!", "Crème Brûlée", "a  b  c", "UPPER case"}
	for _, in := range inputs {
		once, err := Slugify(in)
		if err != nil {
			t.Fatalf("Slugify(%q): %v", in, err)
		}
		twice, err := Slugify(once)
		if err != nil {
			t.Fatalf("Slugify(%q): %v", once, err)
		}
		if once != twice {
			t.Errorf("слагификация не идемпотентна: %q -> %q -> %q", in, once, twice)
		}
	}
}

func TestSlugify_InvalidInput(t *testing.T) {
	for _, in := range []string{"", "   ", "!!!", "???", "---"} {
		if _, err := Slugify(in); !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Slugify(%q): ожидалась ErrInvalidInput, получено %v", in, err)
		}
	}
}

func TestValidSlugFormat(t *testing.T) {
	valid := []string{"a", "hello-world", "go-123", "x-1-y-2", "под-слаг"}
	for _, s := range valid {
		if !ValidSlugFormat(s) {
			t.Errorf("ValidSlugFormat(%q) = false, ожидалось true", s)
		}
	}

	invalid := []string{"", "-lead", "trail-", "double--hyphen", "UPPER", "with space", "dots.are.bad"}
	for _, s := range invalid {
		if ValidSlugFormat(s) {
			t.Errorf("ValidSlugFormat(%q) = true, ожидалось false", s)
		}
	}
}
