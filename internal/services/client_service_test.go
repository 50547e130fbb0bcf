package services

import (
	"sort"
	"testing"
	"time"

	"zoe_store_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClientServiceForTest() (ClientService, *fakeClientRepo, *fakePurchaseRepo) {
	clientRepo := newFakeClientRepo()
	purchaseRepo := newFakePurchaseRepo()
	return NewClientService(clientRepo, purchaseRepo, nil), clientRepo, purchaseRepo
}

func TestCreateClientRequiresName(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	_, err := svc.CreateClient(CreateClientRequest{Name: "   ", Email: strPtr("ana@x.com")})
	require.ErrorIs(t, err, ErrClientValidation)
}

func TestCreateClientStartsWithZeroCounter(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana", Email: strPtr("ana@x.com")})
	require.NoError(t, err)
	assert.Equal(t, 0, client.PurchaseCount)
	assert.NotZero(t, client.ID)
}

func TestCreateClientDuplicateEmail(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	_, err := svc.CreateClient(CreateClientRequest{Name: "Ana", Email: strPtr("ana@x.com")})
	require.NoError(t, err)

	_, err = svc.CreateClient(CreateClientRequest{Name: "Bia", Email: strPtr("ana@x.com")})
	require.ErrorIs(t, err, ErrEmailExists)
}

func TestCreateClientEmailOptional(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	first, err := svc.CreateClient(CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)
	second, err := svc.CreateClient(CreateClientRequest{Name: "Bia"})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestCreateClientRejectsMalformedEmail(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	_, err := svc.CreateClient(CreateClientRequest{Name: "Ana", Email: strPtr("not-an-email")})
	require.ErrorIs(t, err, ErrClientValidation)
}

func TestUpdateClientNotFound(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	_, err := svc.UpdateClient(42, UpdateClientRequest{Name: strPtr("Ana")})
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestUpdateClientAppliesOnlySuppliedFields(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana", Email: strPtr("ana@x.com"), Phone: strPtr("555-0100")})
	require.NoError(t, err)

	updated, err := svc.UpdateClient(client.ID, UpdateClientRequest{Phone: strPtr("555-0199")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "ana@x.com", *updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "555-0199", *updated.Phone)
}

func TestDeleteClientNotFound(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	err := svc.DeleteClient(42)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestDeleteClientLeavesPurchasesOrphaned(t *testing.T) {
	svc, _, purchaseRepo := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	_, err = purchaseRepo.CreatePurchase(nil, &models.Purchase{
		ClientID:     client.ID,
		TotalAmount:  100,
		PurchaseDate: time.Now(),
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(client.ID))

	remaining, err := purchaseRepo.GetPurchasesByClientID(client.ID)
	require.NoError(t, err)
	assert.Len(t, remaining, 1, "purchases must survive their client's deletion")
}

func TestGetClientWithPurchasesEmptyListIsValid(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	got, purchases, err := svc.GetClientWithPurchases(client.ID)
	require.NoError(t, err)
	assert.Equal(t, client.ID, got.ID)
	assert.NotNil(t, purchases)
	assert.Empty(t, purchases)
}

func TestGetClientWithPurchasesReturnsAllReferencing(t *testing.T) {
	svc, _, purchaseRepo := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	base := time.Now()
	for i := 0; i < 3; i++ {
		_, err = purchaseRepo.CreatePurchase(nil, &models.Purchase{
			ClientID:     client.ID,
			TotalAmount:  50,
			PurchaseDate: base.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}
	_, err = purchaseRepo.CreatePurchase(nil, &models.Purchase{
		ClientID:     client.ID + 1,
		TotalAmount:  50,
		PurchaseDate: base,
	})
	require.NoError(t, err)

	_, purchases, err := svc.GetClientWithPurchases(client.ID)
	require.NoError(t, err)
	assert.Len(t, purchases, 3)
}

func TestReconcilePurchaseCountRepairsDrift(t *testing.T) {
	svc, clientRepo, purchaseRepo := newClientServiceForTest()

	client, err := svc.CreateClient(CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = purchaseRepo.CreatePurchase(nil, &models.Purchase{
			ClientID:     client.ID,
			TotalAmount:  25,
			PurchaseDate: time.Now(),
		})
		require.NoError(t, err)
	}

	// Simulate drift between the counter and the purchase rows.
	require.NoError(t, clientRepo.SetPurchaseCount(nil, client.ID, 7))

	repaired, err := svc.ReconcilePurchaseCount(client.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repaired.PurchaseCount)
}

func TestReconcilePurchaseCountUnknownClient(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	_, err := svc.ReconcilePurchaseCount(42)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestGetClientsIsIdempotent(t *testing.T) {
	svc, _, _ := newClientServiceForTest()

	for _, name := range []string{"Ana", "Bia", "Carla"} {
		_, err := svc.CreateClient(CreateClientRequest{Name: name})
		require.NoError(t, err)
	}

	first, err := svc.GetClients()
	require.NoError(t, err)
	second, err := svc.GetClients()
	require.NoError(t, err)

	ids := func(clients []models.Client) []int64 {
		out := make([]int64, 0, len(clients))
		for _, c := range clients {
			out = append(out, c.ID)
		}
		sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
		return out
	}
	assert.Equal(t, ids(first), ids(second))
	assert.Len(t, first, 3)
}
