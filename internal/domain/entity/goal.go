package entity

import (
	"github.com/shopspring/decimal"
)

// Tipos de meta de ventas.
const (
	GoalDiary   = "diary"
	GoalWeekly  = "weekly"
	GoalMonthly = "monthly"
	GoalAnnual  = "annual"
)

// GoalLabels nombre en español de cada tipo de meta.
var GoalLabels = map[string]string{
	GoalDiary:   "diaria",
	GoalWeekly:  "semanal",
	GoalMonthly: "mensual",
	GoalAnnual:  "anual",
}

// Goal meta de ventas de la empresa; una por tipo.
type Goal struct {
	ID        string
	CompanyID string
	GoalType  string
	GoalValue decimal.Decimal
}
