package services

import (
	"context"
	"fmt"

	"blogtalks/internal/utils"
)

// slugProbe — проверка занятости слага в таблице сущности;
// excludeID > 0 исключает собственную строку при обновлении.
type slugProbe func(ctx context.Context, slug string, excludeID int) (bool, error)

// allocateSlug нормализует исходный текст и подбирает свободный слаг:
// base, base-1, base-2, … Цикл конечен: коллизий конечное число, N растёт.
// Гарантия уникальности действует на момент проверки; финальный арбитр —
// уникальный индекс в БД (см. retrySlugAllocation).
func allocateSlug(ctx context.Context, raw string, excludeID int, exists slugProbe) (string, error) {
	base, err := utils.Slugify(raw)
	if err != nil {
		return "", err
	}

	candidate := base
	for n := 1; ; n++ {
		taken, err := exists(ctx, candidate, excludeID)
		if err != nil {
			return "", fmt.Errorf("ошибка проверки уникальности слага: %w", err)
		}
		if !taken {
			return candidate, nil
		}
		candidate = fmt.Sprintf("%s-%d", base, n)
	}
}

// slugRetries — сколько раз повторяем пробу после 23505 от БД, прежде чем
// отдать конфликт наружу. Гонка check-then-act между конкурентными
// вставками разруливается именно здесь.
const slugRetries = 3
