package utils

import "strings"

// NormalizarRut deja el RUT en el formato que aceptan los campos del
// portal: sin puntos, con guion antes del dígito verificador.
// Ejemplo: "12.345.678-5" -> "12345678-5", "123456785" -> "12345678-5"
func NormalizarRut(rut string) string {
	cleaned := strings.ToUpper(strings.TrimSpace(rut))
	cleaned = strings.ReplaceAll(cleaned, ".", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	if cleaned == "" {
		return ""
	}

	if strings.Contains(cleaned, "-") {
		return cleaned
	}
	if len(cleaned) < 2 {
		return cleaned
	}
	return cleaned[:len(cleaned)-1] + "-" + cleaned[len(cleaned)-1:]
}

// ValidarRut verifica el dígito verificador con módulo 11
func ValidarRut(rut string) bool {
	normalizado := NormalizarRut(rut)
	parts := strings.Split(normalizado, "-")
	if len(parts) != 2 || parts[0] == "" || len(parts[1]) != 1 {
		return false
	}

	cuerpo, dv := parts[0], parts[1]
	suma := 0
	factor := 2
	for i := len(cuerpo) - 1; i >= 0; i-- {
		c := cuerpo[i]
		if c < '0' || c > '9' {
			return false
		}
		suma += int(c-'0') * factor
		factor++
		if factor > 7 {
			factor = 2
		}
	}

	resto := 11 - suma%11
	esperado := ""
	switch resto {
	case 11:
		esperado = "0"
	case 10:
		esperado = "K"
	default:
		esperado = string(rune('0' + resto))
	}

	return dv == esperado
}
