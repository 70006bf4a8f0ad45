package entity

import "time"

// DianResolution representa la resolución de numeración autorizada por la DIAN.
// CurrentNumber es el último número asignado; al crearla vale FromNumber.
// Solo puede haber una resolución activa por empresa.
type DianResolution struct {
	ID             string
	CompanyID      string
	CreatedByID    string
	DocumentNumber string
	FromDate       time.Time
	ToDate         time.Time
	FromNumber     int64
	ToNumber       int64
	CurrentNumber  int64
	Active         bool
	CreatedAt      time.Time
}

// ExpiredAt indica si la resolución ya venció en la fecha dada (se compara solo la fecha).
func (r *DianResolution) ExpiredAt(now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	to := time.Date(r.ToDate.Year(), r.ToDate.Month(), r.ToDate.Day(), 0, 0, 0, 0, time.UTC)
	return to.Before(today)
}

// NextNumber devuelve el siguiente consecutivo o false si el rango se agotó.
func (r *DianResolution) NextNumber() (int64, bool) {
	next := r.CurrentNumber + 1
	if next > r.ToNumber {
		return 0, false
	}
	return next, true
}
