package service

import (
	"context"
	"testing"

	"comptoir/internal/database"
	"comptoir/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterCustomerNormalization(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	c := &models.Customer{
		LastName:  "  dupont ",
		FirstName: "jean-pierre",
		Email:     "  Jean-Pierre.DUPONT@Email.COM ",
		City:      "le  havre",
	}
	require.NoError(t, customers.RegisterCustomer(context.Background(), c))

	assert.Equal(t, "Dupont", c.LastName)
	assert.Equal(t, "Jean-Pierre", c.FirstName)
	assert.Equal(t, "jean-pierre.dupont@email.com", c.Email)
	assert.Equal(t, "Le Havre", c.City)
	assert.NotZero(t, c.ID)
}

func TestRegisterCustomerValidation(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	tests := []struct {
		name     string
		customer models.Customer
		wantErr  error
	}{
		{
			name:     "missing last name",
			customer: models.Customer{FirstName: "Marie", Email: "marie@email.com"},
			wantErr:  database.ErrMissingField,
		},
		{
			name:     "missing first name",
			customer: models.Customer{LastName: "Dupont", Email: "marie@email.com"},
			wantErr:  database.ErrMissingField,
		},
		{
			name:     "blank last name",
			customer: models.Customer{LastName: "   ", FirstName: "Marie", Email: "marie@email.com"},
			wantErr:  database.ErrMissingField,
		},
		{
			name:     "no at sign",
			customer: models.Customer{LastName: "Dupont", FirstName: "Marie", Email: "marie.email.com"},
			wantErr:  database.ErrInvalidEmail,
		},
		{
			name:     "two at signs",
			customer: models.Customer{LastName: "Dupont", FirstName: "Marie", Email: "marie@@email.com"},
			wantErr:  database.ErrInvalidEmail,
		},
		{
			name:     "domain without dot",
			customer: models.Customer{LastName: "Dupont", FirstName: "Marie", Email: "marie@email"},
			wantErr:  database.ErrInvalidEmail,
		},
		{
			name:     "empty local part",
			customer: models.Customer{LastName: "Dupont", FirstName: "Marie", Email: "@email.com"},
			wantErr:  database.ErrInvalidEmail,
		},
		{
			name:     "trailing dot domain",
			customer: models.Customer{LastName: "Dupont", FirstName: "Marie", Email: "marie@email."},
			wantErr:  database.ErrInvalidEmail,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.customer
			err := customers.RegisterCustomer(context.Background(), &c)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")

	dup := &models.Customer{
		LastName:  "Martin",
		FirstName: "Pierre",
		// same address in a different case still collides
		Email: "Marie.Dupont@Email.com",
	}
	err := customers.RegisterCustomer(context.Background(), dup)
	assert.ErrorIs(t, err, database.ErrDuplicateEmail)
}

func TestUpdateCustomerNormalizesPatch(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")

	city := "lyon"
	email := " Marie.D@Email.com "
	rows, err := customers.UpdateCustomer(context.Background(), c.ID, models.CustomerPatch{
		City:  &city,
		Email: &email,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	got, err := customers.GetCustomer(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Lyon", got.City)
	assert.Equal(t, "marie.d@email.com", got.Email)
}

func TestUpdateCustomerDuplicateEmail(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	marie := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	pierre := registerCustomer(t, customers, "Martin", "Pierre", "pierre.martin@email.com")

	taken := "marie.dupont@email.com"
	_, err := customers.UpdateCustomer(context.Background(), pierre.ID, models.CustomerPatch{Email: &taken})
	assert.ErrorIs(t, err, database.ErrDuplicateEmail)

	// re-submitting your own address is not a collision
	own := "marie.dupont@email.com"
	rows, err := customers.UpdateCustomer(context.Background(), marie.ID, models.CustomerPatch{Email: &own})
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)
}

func TestUpdateCustomerEmptyPatch(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")

	rows, err := customers.UpdateCustomer(context.Background(), c.ID, models.CustomerPatch{})
	require.NoError(t, err)
	assert.Equal(t, int64(0), rows)
}

func TestUpdateCustomerNotFound(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	name := "Durand"
	_, err := customers.UpdateCustomer(context.Background(), 999, models.CustomerPatch{LastName: &name})
	assert.ErrorIs(t, err, database.ErrCustomerNotFound)
}

func TestDeleteCustomer(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")

	require.NoError(t, customers.DeleteCustomer(context.Background(), c.ID))

	err := customers.DeleteCustomer(context.Background(), c.ID)
	assert.ErrorIs(t, err, database.ErrCustomerNotFound)
}

func TestDeleteCustomerWithHistory(t *testing.T) {
	_, customers, resources, sales, _ := newServices(t)

	ctx := context.Background()
	c := registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")
	r := addResource(t, resources, "Souris sans fil", models.KindProduct, "29.99", 50)

	_, err := sales.RecordSale(ctx, c.ID, r.ID, 1)
	require.NoError(t, err)

	err = customers.DeleteCustomer(ctx, c.ID)
	assert.ErrorIs(t, err, database.ErrHasTransactions)

	// the customer survives and stays readable
	_, err = customers.GetCustomer(ctx, c.ID)
	assert.NoError(t, err)
}

func TestFindCustomerByEmail(t *testing.T) {
	_, customers, _, _, _ := newServices(t)

	registerCustomer(t, customers, "Dupont", "Marie", "marie.dupont@email.com")

	got, err := customers.FindCustomerByEmail(context.Background(), " Marie.Dupont@EMAIL.com ")
	require.NoError(t, err)
	assert.Equal(t, "Dupont", got.LastName)
}

func TestTitleCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"dupont", "Dupont"},
		{"jean-pierre dupont", "Jean-Pierre Dupont"},
		{"  le  havre  ", "Le Havre"},
		{"MARTIN", "Martin"},
		{"", ""},
		{"   ", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, titleCase(tt.in), "titleCase(%q)", tt.in)
	}
}
