package dian

import (
	"fmt"
	"unicode"
)

// pesos del módulo 11 de la DIAN (Orden Administrativa 4 de 1989), del dígito menos
// significativo al más significativo.
var nitWeights = [15]int{3, 7, 13, 17, 19, 23, 29, 37, 41, 43, 47, 53, 59, 67, 71}

// VerificationDigit calcula el dígito de verificación de un NIT sin DV.
// Acepta puntos, espacios y guiones, que se ignoran.
func VerificationDigit(nit string) (int, error) {
	digits := extractDigits(nit)
	if len(digits) == 0 {
		return 0, fmt.Errorf("dian: NIT vacío")
	}
	if len(digits) > len(nitWeights) {
		return 0, fmt.Errorf("dian: NIT demasiado largo (%d dígitos)", len(digits))
	}
	var sum int
	for i := range digits {
		d := digits[len(digits)-1-i]
		sum += int(d-'0') * nitWeights[i]
	}
	remainder := sum % 11
	if remainder > 1 {
		return 11 - remainder, nil
	}
	return remainder, nil
}

// ValidateNIT comprueba un NIT que trae el dígito de verificación como último dígito ("900123456-7").
func ValidateNIT(nitWithDV string) error {
	digits := extractDigits(nitWithDV)
	if len(digits) < 2 {
		return fmt.Errorf("dian: NIT debe incluir el dígito de verificación")
	}
	expected, err := VerificationDigit(string(digits[:len(digits)-1]))
	if err != nil {
		return err
	}
	if got := int(digits[len(digits)-1] - '0'); got != expected {
		return fmt.Errorf("dian: dígito de verificación del NIT inválido: esperado %d, recibido %d", expected, got)
	}
	return nil
}

func extractDigits(s string) []byte {
	var out []byte
	for _, r := range s {
		if unicode.IsDigit(r) {
			out = append(out, byte(r))
		}
	}
	return out
}
