package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseMonto(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado int
	}{
		{"2.500.000", 2500000},
		{"1,234", 1234},
		{"$ 1.234", 1234},
		{"$1.234.567", 1234567},
		{"  850000  ", 850000},
		{"0", 0},
		{"", 0},
		{"-", 0},
		{"N/A", 0},
		{"12 345", 12345},
	}

	for _, c := range casos {
		assert.Equal(t, c.esperado, ParseMonto(c.entrada), "entrada %q", c.entrada)
	}
}

func TestParseCantidad(t *testing.T) {
	assert.Equal(t, 14, ParseCantidad("14"))
	assert.Equal(t, 1200, ParseCantidad("1.200"))
	assert.Equal(t, 0, ParseCantidad("sin datos"))
}

func TestExtraerPeriodo(t *testing.T) {
	assert.Equal(t, "202501", ExtraerPeriodo("ENERO 2025"))
	assert.Equal(t, "202512", ExtraerPeriodo("diciembre 2025"))
	assert.Equal(t, "202409", ExtraerPeriodo("Septiembre 2024"))

	// entradas que no calzan con el formato vuelven tal cual
	assert.Equal(t, "TOTAL", ExtraerPeriodo("TOTAL"))
	assert.Equal(t, "", ExtraerPeriodo(""))
}
