package utils

import (
	"strconv"
	"strings"
)

// ParseMonto convierte un monto renderizado por el portal a entero.
// Ejemplo: "2.500.000" -> 2500000, "$ 1.234" -> 1234.
// Devuelve 0 para entradas vacías o no numéricas; nunca falla.
func ParseMonto(montoStr string) int {
	cleaned := strings.ReplaceAll(montoStr, ".", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.Join(strings.Fields(cleaned), "")

	monto, err := strconv.Atoi(cleaned)
	if err != nil {
		return 0
	}
	return monto
}

// ParseCantidad convierte un contador a entero
// Ejemplo: "1.234" -> 1234
func ParseCantidad(cantidadStr string) int {
	return ParseMonto(cantidadStr)
}

// ExtraerPeriodo extrae el periodo en formato YYYYMM
// Ejemplo: "ENERO 2025" -> "202501"
func ExtraerPeriodo(periodoStr string) string {
	meses := map[string]string{
		"ENERO": "01", "FEBRERO": "02", "MARZO": "03", "ABRIL": "04",
		"MAYO": "05", "JUNIO": "06", "JULIO": "07", "AGOSTO": "08",
		"SEPTIEMBRE": "09", "OCTUBRE": "10", "NOVIEMBRE": "11", "DICIEMBRE": "12",
	}

	parts := strings.Fields(strings.ToUpper(periodoStr))
	if len(parts) == 2 {
		mes, ok := meses[parts[0]]
		if ok {
			return parts[1] + mes
		}
	}

	return periodoStr
}
