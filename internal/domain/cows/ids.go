package cows

import (
	"fmt"
	"strconv"
	"strings"
)

const idPrefix = "COW"

// FormatID arma COW001, COW002, ... (mínimo 3 dígitos; COW1000 sigue válido).
func FormatID(n int64) string {
	return fmt.Sprintf("%s%03d", idPrefix, n)
}

// ParseID devuelve la parte numérica de un id COWnnn.
func ParseID(id string) (int64, bool) {
	if !strings.HasPrefix(id, idPrefix) {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimPrefix(id, idPrefix), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
