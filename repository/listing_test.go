package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePage(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		page, limit := normalizePage(0, 0, 10)
		assert.Equal(t, 1, page)
		assert.Equal(t, 10, limit)
	})

	t.Run("negative values", func(t *testing.T) {
		page, limit := normalizePage(-3, -1, 20)
		assert.Equal(t, 1, page)
		assert.Equal(t, 20, limit)
	})

	t.Run("passthrough", func(t *testing.T) {
		page, limit := normalizePage(4, 25, 10)
		assert.Equal(t, 4, page)
		assert.Equal(t, 25, limit)
	})
}

func TestCondBuilder(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		b := &condBuilder{}
		assert.Equal(t, "", b.where())
		assert.Empty(t, b.args)
	})

	t.Run("search shares one parameter", func(t *testing.T) {
		b := &condBuilder{}
		b.search("acme", "nom", "email")
		assert.Equal(t, " WHERE (nom ILIKE $1 OR email ILIKE $1)", b.where())
		assert.Equal(t, []interface{}{"%acme%"}, b.args)
	})

	t.Run("empty search is a no-op", func(t *testing.T) {
		b := &condBuilder{}
		b.search("", "nom")
		assert.Equal(t, "", b.where())
		assert.Empty(t, b.args)
	})

	t.Run("search and filters are AND-joined in order", func(t *testing.T) {
		b := &condBuilder{}
		b.search("dupont", "t.nom", "t.prenom")
		b.eq("t.specialite_id", 3)
		assert.Equal(t, " WHERE (t.nom ILIKE $1 OR t.prenom ILIKE $1) AND t.specialite_id = $2", b.where())
		assert.Equal(t, []interface{}{"%dupont%", 3}, b.args)
	})

	t.Run("page appends limit then offset", func(t *testing.T) {
		b := &condBuilder{}
		b.eq("statut", "actif")
		tail := b.page(3, 10)
		assert.Equal(t, " LIMIT $2 OFFSET $3", tail)
		assert.Equal(t, []interface{}{"actif", 10, 20}, b.args)
	})

	t.Run("count args can be captured before paging", func(t *testing.T) {
		b := &condBuilder{}
		b.eq("client_id", 7)
		countArgs := append([]interface{}(nil), b.args...)
		b.page(1, 10)
		assert.Equal(t, []interface{}{7}, countArgs)
		assert.Len(t, b.args, 3)
	})
}

func TestUpdateBuilder(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		u := &updateBuilder{}
		assert.True(t, u.empty())
	})

	t.Run("clause numbers parameters in order", func(t *testing.T) {
		u := &updateBuilder{}
		u.set("nom", "Durand")
		u.set("email", "d@example.com")
		clause, next := u.clause()
		assert.False(t, u.empty())
		assert.Equal(t, "SET nom = $1, email = $2", clause)
		assert.Equal(t, 3, next)
		assert.Equal(t, []interface{}{"Durand", "d@example.com"}, u.args)
	})

	t.Run("nil values pass through for NULL writes", func(t *testing.T) {
		u := &updateBuilder{}
		u.set("duree", (*float64)(nil))
		clause, next := u.clause()
		assert.Equal(t, "SET duree = $1", clause)
		assert.Equal(t, 2, next)
	})
}
