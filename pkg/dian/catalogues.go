// Package dian contiene los catálogos y cálculos colombianos que usa la exportación
// contable: etiquetas de medios de pago, tipos de documento y dígito de verificación del NIT.
package dian

// =============================================================================
// Medios de pago: etiqueta del plan de cuentas del software contable
// =============================================================================

const (
	PaymentLabelCash       = "Efectivo"
	PaymentLabelDebitCard  = "Tarjeta Debito Ventas"
	PaymentLabelCreditCard = "Tarjeta Credito Ventas 271"
	PaymentLabelTransfers  = "Transferencias"
)

var paymentLabels = map[string]string{
	"cash":         PaymentLabelCash,
	"debitCard":    PaymentLabelDebitCard,
	"creditCard":   PaymentLabelCreditCard,
	"nequi":        PaymentLabelTransfers,
	"bankTransfer": PaymentLabelTransfers,
}

// PaymentLabel devuelve la etiqueta contable del medio de pago, o el nombre tal cual si no está en el catálogo.
func PaymentLabel(method string) string {
	if label, ok := paymentLabels[method]; ok {
		return label
	}
	return method
}

// =============================================================================
// Tipos de identificación (formato de terceros)
// =============================================================================

var documentLabels = map[string]string{
	"CC":  "CC",
	"PA":  "PASAPORTE",
	"NIT": "NIT",
	"CE":  "Cédula de extranjería",
	"TI":  "Tarjeta de identidad",
	"DIE": "Documento de identificación extranjero",
}

// DocumentLabel etiqueta del tipo de documento del cliente.
func DocumentLabel(documentType string) string {
	if label, ok := documentLabels[documentType]; ok {
		return label
	}
	return documentType
}
