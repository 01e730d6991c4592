package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizarRut(t *testing.T) {
	casos := []struct {
		entrada  string
		esperado string
	}{
		{"12.345.678-5", "12345678-5"},
		{"12345678-5", "12345678-5"},
		{"123456785", "12345678-5"},
		{" 12.345.678-k ", "12345678-K"},
		{"6-K", "6-K"},
		{"", ""},
	}

	for _, c := range casos {
		assert.Equal(t, c.esperado, NormalizarRut(c.entrada), "entrada %q", c.entrada)
	}
}

func TestValidarRut(t *testing.T) {
	// dígitos verificadores calculados con módulo 11
	assert.True(t, ValidarRut("12.345.678-5"))
	assert.True(t, ValidarRut("6-K"))
	assert.True(t, ValidarRut("14-0"))

	assert.False(t, ValidarRut("12.345.678-9"))
	assert.False(t, ValidarRut("12345678"))
	assert.False(t, ValidarRut("sin-rut"))
	assert.False(t, ValidarRut(""))
}
