// Package ordernumber выдаёт человекочитаемые номера заказов вида ORD-2025-000042.
package ordernumber

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/vladislavdragonenkov/fulfillment/internal/domain"
)

const prefix = "ORD"

var numberPattern = regexp.MustCompile(`^ORD-(\d{4})-(\d{6,})$`)

// Generator превращает значения атомарного счётчика в номера заказов.
// Уникальность номера в пределах года обеспечивает счётчик.
type Generator struct {
	counter domain.OrderNumberCounter
}

// NewGenerator создаёт генератор поверх счётчика.
func NewGenerator(counter domain.OrderNumberCounter) *Generator {
	return &Generator{counter: counter}
}

// Next возвращает следующий номер для года.
func (g *Generator) Next(ctx context.Context, year int) (string, error) {
	seq, err := g.counter.Next(ctx, year)
	if err != nil {
		return "", err
	}
	if seq <= 0 {
		return "", fmt.Errorf("order counter returned non-positive value %d for %d", seq, year)
	}
	return Format(year, seq), nil
}

// Format собирает номер из года и порядкового значения. Больше 999999 номер просто становится длиннее.
func Format(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%06d", prefix, year, seq)
}

// Parse разбирает номер заказа на год и порядковое значение.
func Parse(number string) (year int, seq int64, ok bool) {
	m := numberPattern.FindStringSubmatch(number)
	if m == nil {
		return 0, 0, false
	}
	y, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, 0, false
	}
	s, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil || s <= 0 {
		return 0, 0, false
	}
	return y, s, true
}
