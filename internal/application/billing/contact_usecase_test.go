package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appbilling "github.com/tu-usuario/invoice-pro/internal/application/billing"
	"github.com/tu-usuario/invoice-pro/internal/application/dto"
	"github.com/tu-usuario/invoice-pro/internal/domain"
	"github.com/tu-usuario/invoice-pro/internal/domain/entity"
)

func newContactUseCase() (*appbilling.ContactUseCase, *fakeContactRepo) {
	repo := &fakeContactRepo{byID: map[string]*entity.Contact{}}
	return appbilling.NewContactUseCase(repo), repo
}

func TestCreateContact_Completo(t *testing.T) {
	uc, _ := newContactUseCase()

	resp, err := uc.CreateContact(context.Background(), testUserID, dto.ContactRequest{
		Name: "  Acme Corp  ", Email: "ventas@acme.com",
		StreetAddress: "Calle 10 #5-51", City: "Bogotá",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "Acme Corp", resp.Name, "el nombre se guarda sin espacios alrededor")
	assert.Equal(t, "Bogotá", resp.City)
}

func TestCreateContact_SinNombre(t *testing.T) {
	uc, _ := newContactUseCase()
	_, err := uc.CreateContact(context.Background(), testUserID, dto.ContactRequest{Name: "   "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetContact_AjenoProhibido(t *testing.T) {
	uc, _ := newContactUseCase()
	created, err := uc.CreateContact(context.Background(), testUserID, dto.ContactRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = uc.GetContact(context.Background(), otherUserID, created.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestUpdateContact_Reemplaza(t *testing.T) {
	uc, _ := newContactUseCase()
	created, err := uc.CreateContact(context.Background(), testUserID, dto.ContactRequest{
		Name: "Acme", Email: "ventas@acme.com",
	})
	require.NoError(t, err)

	resp, err := uc.UpdateContact(context.Background(), testUserID, created.ID, dto.ContactRequest{Name: "Acme SAS"})
	require.NoError(t, err)
	assert.Equal(t, "Acme SAS", resp.Name)
	assert.Empty(t, resp.Email, "los campos no enviados se vacían (reemplazo completo)")
}

func TestDeleteContact_Propio(t *testing.T) {
	uc, _ := newContactUseCase()
	created, err := uc.CreateContact(context.Background(), testUserID, dto.ContactRequest{Name: "Temporal"})
	require.NoError(t, err)

	require.NoError(t, uc.DeleteContact(context.Background(), testUserID, created.ID))
	_, err = uc.GetContact(context.Background(), testUserID, created.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
