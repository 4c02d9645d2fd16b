package domain

import (
	"errors"
	"time"
)

// Agrovet is a vendor of agricultural inputs listed on the marketplace.
type Agrovet struct {
	ID        uint64
	Name      string
	Location  string
	Contact   string
	Email     string
	Products  []string
	CreatedAt time.Time
}

var (
	ErrEmptyName    = errors.New("agrovet name is required")
	ErrEmptyContact = errors.New("agrovet contact is required")
	ErrEmptyEmail   = errors.New("agrovet email is required")
)

// NewAgrovet validates the required fields and builds a new Agrovet.
func NewAgrovet(id uint64, name, location, contact, email string, products []string, createdAt time.Time) (*Agrovet, error) {
	a := &Agrovet{
		ID:        id,
		Name:      name,
		Location:  location,
		Contact:   contact,
		Email:     email,
		Products:  append([]string(nil), products...),
		CreatedAt: createdAt,
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	return a, nil
}

// Validate enforces the creation invariants.
func (a *Agrovet) Validate() error {
	if a.Name == "" {
		return ErrEmptyName
	}
	if a.Contact == "" {
		return ErrEmptyContact
	}
	if a.Email == "" {
		return ErrEmptyEmail
	}
	return nil
}

// Rename replaces the name. An empty name is ignored and reported as false.
func (a *Agrovet) Rename(name string) bool {
	if name == "" {
		return false
	}
	a.Name = name
	return true
}

func (a *Agrovet) Relocate(location string) { a.Location = location }

func (a *Agrovet) UpdateContact(contact string) { a.Contact = contact }

func (a *Agrovet) UpdateEmail(email string) { a.Email = email }
