package utils

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// ErrInvalidInput — пустой или нестроковый источник для слага.
var ErrInvalidInput = errors.New("invalid input for slug generation: it must be a non-empty string")

var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify нормализует произвольный заголовок в URL-безопасный слаг:
// NFD-декомпозиция, удаление диакритики, нижний регистр, пробелы в дефисы,
// удаление всего кроме букв/цифр/дефисов (Unicode-aware), схлопывание
// повторных дефисов. Идемпотентна: Slugify(Slugify(x)) == Slugify(x).
func Slugify(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", ErrInvalidInput
	}

	s, _, err := transform.String(deaccent, raw)
	if err != nil {
		// NFD не падает на валидном UTF-8; битый ввод считаем невалидным
		return "", ErrInvalidInput
	}

	s = strings.ToLower(strings.TrimSpace(s))

	var b strings.Builder
	b.Grow(len(s))
	prevHyphen := false
	for _, r := range s {
		switch {
		case unicode.IsSpace(r) || r == '-':
			if !prevHyphen {
				b.WriteRune('-')
				prevHyphen = true
			}
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			b.WriteRune(r)
			prevHyphen = false
		default:
			// всё остальное (пунктуация, символы) отбрасываем
		}
	}

	out := strings.Trim(b.String(), "-")
	if out == "" {
		return "", ErrInvalidInput
	}
	return out, nil
}

// ValidSlugFormat проверяет, что строка уже является нормализованным слагом:
// строчные буквы и цифры (Unicode-aware, как в Slugify), разделённые
// одиночными дефисами, длина 1..100.
func ValidSlugFormat(slug string) bool {
	if len(slug) < 1 || len(slug) > 100 {
		return false
	}
	prevHyphen := true // запрет ведущего дефиса
	for _, r := range slug {
		switch {
		case unicode.IsUpper(r):
			return false
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			prevHyphen = false
		case r == '-':
			if prevHyphen {
				return false
			}
			prevHyphen = true
		default:
			return false
		}
	}
	return !prevHyphen // запрет замыкающего дефиса
}
