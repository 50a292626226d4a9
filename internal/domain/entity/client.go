package entity

import (
	"time"

	"github.com/luestilo/gestao-api/pkg/optional"
)

// Client representa un cliente de la tienda.
// CPF se guarda con formato XXX.XXX.XXX-XX; la unicidad se controla sobre sus dígitos.
type Client struct {
	ID         string
	Name       string
	Email      string
	CPF        string
	Phone      string
	Address    *string
	City       *string
	State      *string
	PostalCode *string
	IsActive   bool
	CreatedBy  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClientPatch campos modificables de un cliente. El CPF no se puede cambiar.
type ClientPatch struct {
	Name       optional.Field[string]
	Email      optional.Field[string]
	Phone      optional.Field[string]
	Address    optional.Field[string]
	City       optional.Field[string]
	State      optional.Field[string]
	PostalCode optional.Field[string]
	IsActive   optional.Field[bool]
}

// Apply devuelve una copia del cliente con los campos presentes sobrescritos.
func (c Client) Apply(p ClientPatch, now time.Time) Client {
	optional.Apply(&c.Name, p.Name)
	optional.Apply(&c.Email, p.Email)
	optional.Apply(&c.Phone, p.Phone)
	optional.ApplyNullable(&c.Address, p.Address)
	optional.ApplyNullable(&c.City, p.City)
	optional.ApplyNullable(&c.State, p.State)
	optional.ApplyNullable(&c.PostalCode, p.PostalCode)
	optional.Apply(&c.IsActive, p.IsActive)
	c.UpdatedAt = now
	return c
}

// ClientFilter filtros del listado de clientes (coincidencia parcial, sin distinguir mayúsculas).
type ClientFilter struct {
	Name   string
	Email  string
	Offset int
	Limit  int
}
