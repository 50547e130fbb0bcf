package services

import (
	"sort"
	"strings"

	"zoe_store_backend/internal/models"
	"zoe_store_backend/internal/repositories"
)

// In-memory repository fakes mirroring the store-side semantics the
// services rely on (not-found sentinels, unique email, floor-at-zero
// counter updates, descending purchase_date ordering).

type fakeClientRepo struct {
	nextID int64
	byID   map[int64]*models.Client

	adjustErr   error
	adjustCalls int
}

var _ repositories.ClientRepository = (*fakeClientRepo)(nil)

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{byID: map[int64]*models.Client{}}
}

func (f *fakeClientRepo) CreateClient(_ repositories.SQLExecutor, client *models.Client) (int64, error) {
	if client.Email != nil && *client.Email != "" {
		for _, existing := range f.byID {
			if existing.Email != nil && strings.EqualFold(*existing.Email, *client.Email) {
				return 0, repositories.ErrDuplicateKey
			}
		}
	}
	f.nextID++
	client.ID = f.nextID
	cpy := *client
	f.byID[client.ID] = &cpy
	return client.ID, nil
}

func (f *fakeClientRepo) GetClientByID(id int64) (*models.Client, error) {
	client, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cpy := *client
	return &cpy, nil
}

func (f *fakeClientRepo) GetClientByEmail(email string) (*models.Client, error) {
	for _, client := range f.byID {
		if client.Email != nil && strings.EqualFold(*client.Email, email) {
			cpy := *client
			return &cpy, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeClientRepo) GetClients() ([]models.Client, error) {
	clients := []models.Client{}
	for _, client := range f.byID {
		clients = append(clients, *client)
	}
	return clients, nil
}

func (f *fakeClientRepo) UpdateClient(_ repositories.SQLExecutor, client *models.Client) error {
	stored, ok := f.byID[client.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	cpy := *client
	cpy.PurchaseCount = stored.PurchaseCount
	f.byID[client.ID] = &cpy
	return nil
}

func (f *fakeClientRepo) DeleteClient(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeClientRepo) AdjustPurchaseCount(_ repositories.SQLExecutor, id int64, delta int) error {
	f.adjustCalls++
	if f.adjustErr != nil {
		return f.adjustErr
	}
	client, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	client.PurchaseCount += delta
	if client.PurchaseCount < 0 {
		client.PurchaseCount = 0
	}
	return nil
}

func (f *fakeClientRepo) SetPurchaseCount(_ repositories.SQLExecutor, id int64, count int) error {
	client, ok := f.byID[id]
	if !ok {
		return repositories.ErrNotFound
	}
	client.PurchaseCount = count
	return nil
}

type fakePurchaseRepo struct {
	nextID int64
	byID   map[int64]*models.Purchase
}

var _ repositories.PurchaseRepository = (*fakePurchaseRepo)(nil)

func newFakePurchaseRepo() *fakePurchaseRepo {
	return &fakePurchaseRepo{byID: map[int64]*models.Purchase{}}
}

func (f *fakePurchaseRepo) CreatePurchase(_ repositories.SQLExecutor, purchase *models.Purchase) (int64, error) {
	f.nextID++
	purchase.ID = f.nextID
	cpy := *purchase
	f.byID[purchase.ID] = &cpy
	return purchase.ID, nil
}

func (f *fakePurchaseRepo) GetPurchaseByID(id int64) (*models.Purchase, error) {
	purchase, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cpy := *purchase
	return &cpy, nil
}

func (f *fakePurchaseRepo) collect(filter func(*models.Purchase) bool) []models.Purchase {
	purchases := []models.Purchase{}
	for _, purchase := range f.byID {
		if filter(purchase) {
			purchases = append(purchases, *purchase)
		}
	}
	sort.Slice(purchases, func(i, j int) bool {
		return purchases[i].PurchaseDate.After(purchases[j].PurchaseDate)
	})
	return purchases
}

func (f *fakePurchaseRepo) GetPurchases() ([]models.Purchase, error) {
	return f.collect(func(*models.Purchase) bool { return true }), nil
}

func (f *fakePurchaseRepo) GetPurchasesByClientID(clientID int64) ([]models.Purchase, error) {
	return f.collect(func(p *models.Purchase) bool { return p.ClientID == clientID }), nil
}

func (f *fakePurchaseRepo) CountPurchasesByClientID(clientID int64) (int, error) {
	count := 0
	for _, purchase := range f.byID {
		if purchase.ClientID == clientID {
			count++
		}
	}
	return count, nil
}

func (f *fakePurchaseRepo) UpdatePurchase(_ repositories.SQLExecutor, purchase *models.Purchase) error {
	if _, ok := f.byID[purchase.ID]; !ok {
		return repositories.ErrNotFound
	}
	cpy := *purchase
	f.byID[purchase.ID] = &cpy
	return nil
}

func (f *fakePurchaseRepo) DeletePurchase(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeUserRepo struct {
	nextID int64
	byID   map[int64]*models.User
	hashes map[int64]string
}

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]*models.User{}, hashes: map[int64]string{}}
}

func (f *fakeUserRepo) CreateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword string) (int64, error) {
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, user.Email) {
			return 0, repositories.ErrDuplicateKey
		}
	}
	f.nextID++
	user.ID = f.nextID
	cpy := *user
	f.byID[user.ID] = &cpy
	f.hashes[user.ID] = hashedPassword
	return user.ID, nil
}

func (f *fakeUserRepo) FindUserByID(id int64) (*models.User, error) {
	user, ok := f.byID[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cpy := *user
	return &cpy, nil
}

func (f *fakeUserRepo) FindUserByEmail(email string) (*models.User, string, error) {
	for _, user := range f.byID {
		if strings.EqualFold(user.Email, email) {
			cpy := *user
			return &cpy, f.hashes[user.ID], nil
		}
	}
	return nil, "", repositories.ErrNotFound
}

func (f *fakeUserRepo) GetUsers() ([]models.User, error) {
	users := []models.User{}
	for _, user := range f.byID {
		users = append(users, *user)
	}
	return users, nil
}

func (f *fakeUserRepo) UpdateUser(_ repositories.SQLExecutor, user *models.User, hashedPassword *string) error {
	if _, ok := f.byID[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	cpy := *user
	f.byID[user.ID] = &cpy
	if hashedPassword != nil {
		f.hashes[user.ID] = *hashedPassword
	}
	return nil
}

func (f *fakeUserRepo) DeleteUser(_ repositories.SQLExecutor, id int64) error {
	if _, ok := f.byID[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.hashes, id)
	return nil
}

type fakeNotifier struct {
	err    error
	called chan string
}

var _ WelcomeNotifier = (*fakeNotifier)(nil)

func (f *fakeNotifier) SendWelcomeEmail(email, _ string) error {
	if f.called != nil {
		f.called <- email
	}
	return f.err
}

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }
