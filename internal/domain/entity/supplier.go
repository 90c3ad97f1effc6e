package entity

import "time"

// Supplier proveedor de mercancía para las entradas.
type Supplier struct {
	ID            string
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	Status        string // active, inactive
	CreatedAt     time.Time
}
