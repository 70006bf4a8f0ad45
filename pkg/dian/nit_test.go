package dian_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/pkg/dian"
)

func TestVerificationDigit(t *testing.T) {
	cases := map[string]int{
		"900373115":   3,
		"800.197.268": 4,
		"860034313":   7,
		"8001972684":  9,
	}
	for nit, want := range cases {
		got, err := dian.VerificationDigit(nit)
		require.NoError(t, err, nit)
		assert.Equal(t, want, got, nit)
	}
}

func TestVerificationDigit_Vacio(t *testing.T) {
	_, err := dian.VerificationDigit("--")
	assert.Error(t, err)
}

func TestValidateNIT(t *testing.T) {
	assert.NoError(t, dian.ValidateNIT("900373115-3"))
	assert.Error(t, dian.ValidateNIT("900373115-1"))
	assert.Error(t, dian.ValidateNIT("9"))
}

func TestPaymentLabel(t *testing.T) {
	assert.Equal(t, "Efectivo", dian.PaymentLabel("cash"))
	assert.Equal(t, "Transferencias", dian.PaymentLabel("nequi"))
	assert.Equal(t, "Transferencias", dian.PaymentLabel("bankTransfer"))
	assert.Equal(t, "Tarjeta Credito Ventas 271", dian.PaymentLabel("creditCard"))
	assert.Equal(t, "otro", dian.PaymentLabel("otro"))
}

func TestDocumentLabel(t *testing.T) {
	assert.Equal(t, "PASAPORTE", dian.DocumentLabel("PA"))
	assert.Equal(t, "Cédula de extranjería", dian.DocumentLabel("CE"))
	assert.Equal(t, "CC", dian.DocumentLabel("CC"))
}
