package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-backoffice/internal/domain"
)

func TestSplitKeyword_FraseEntreComillas(t *testing.T) {
	terms := splitKeyword(`camisa  "azul   oscuro" talla`)
	assert.Equal(t, []string{"camisa", "azul oscuro", "talla"}, terms)
}

func TestSplitKeyword_Vacio(t *testing.T) {
	assert.Empty(t, splitKeyword("   "))
}

func TestListQuery_TodosLosTerminosDebenCoincidir(t *testing.T) {
	q := newListQuery("p.company_id", "c1").keyword("a b", "p.code", "p.name")
	assert.Equal(t,
		" WHERE p.company_id = $1 AND (COALESCE(p.code::text, '') ILIKE $2 OR COALESCE(p.name::text, '') ILIKE $2)"+
			" AND (COALESCE(p.code::text, '') ILIKE $3 OR COALESCE(p.name::text, '') ILIKE $3)",
		q.clause())
	assert.Equal(t, []any{"c1", "%a%", "%b%"}, q.args)
}

func TestListQuery_FiltrosPermitidos(t *testing.T) {
	q := newListQuery("company_id", "c1")
	err := q.filters(map[string]string{"active": "True", "group_id": "g1", "otro": "x"}, map[string]filterColumn{
		"active":   {column: "p.active", boolean: true},
		"group_id": {column: "p.group_id"},
	})
	require.NoError(t, err)
	assert.Equal(t, " WHERE company_id = $1 AND p.active = $2 AND p.group_id::text = $3", q.clause())
	assert.Equal(t, []any{"c1", true, "g1"}, q.args)
}

func TestListQuery_FiltroBooleanoInvalido(t *testing.T) {
	q := newListQuery("company_id", "c1")
	err := q.filters(map[string]string{"active": "quizas"}, map[string]filterColumn{"active": {column: "active", boolean: true}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
