package domain

import "time"

// Customer is the actor on whose behalf transactions are authorized.
// Accounts holds back-references (account numbers); account lifetime is
// owned by the account registry, not the customer.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	BirthDate time.Time `json:"birth_date"`
	Address   string    `json:"address"`
	Accounts  []int     `json:"accounts"`
	CreatedAt time.Time `json:"created_at"`
}

func NewCustomer(id, name string, birthDate time.Time, address string) *Customer {
	return &Customer{
		ID:        id,
		Name:      name,
		BirthDate: birthDate,
		Address:   address,
		CreatedAt: time.Now(),
	}
}

func (c *Customer) AddAccount(number int) {
	c.Accounts = append(c.Accounts, number)
}
