package test

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/caremesh/healthcare/test"
	"github.com/caremesh/healthcare/users"
)

func RandomUser() users.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(test.Faker.Internet().Password()), bcrypt.MinCost)
	return users.User{
		Id:           test.Faker.UUID().V4(),
		Email:        strings.ToLower(test.Faker.Internet().Email()),
		Username:     strings.ToLower(test.Faker.Internet().User()),
		Name:         test.Faker.Person().Name(),
		PasswordHash: string(hash),
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
}

func RandomRegistration() users.Registration {
	return users.Registration{
		Name:     test.Faker.Person().Name(),
		Email:    test.Faker.Internet().Email(),
		Username: test.Faker.Internet().User(),
		Password: test.Faker.Internet().Password() + "1aA!5678",
	}
}

// FakeRepository is an in-memory users.Repository used by service tests.
type FakeRepository struct {
	mu    sync.Mutex
	users map[string]users.User
}

var _ users.Repository = &FakeRepository{}

func NewFakeRepository() *FakeRepository {
	return &FakeRepository{users: map[string]users.User{}}
}

func (f *FakeRepository) Create(ctx context.Context, user users.User) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, existing := range f.users {
		if existing.Email == user.Email {
			return nil, users.ErrDuplicateEmail
		}
		if existing.Username == user.Username {
			return nil, users.ErrDuplicateUsername
		}
	}

	if user.Id == "" {
		user.Id = test.Faker.UUID().V4()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.Id] = user
	return &user, nil
}

func (f *FakeRepository) Get(ctx context.Context, id string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok {
		return &user, nil
	}
	return nil, users.ErrNotFound
}

func (f *FakeRepository) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, user := range f.users {
		if user.Email == email {
			return &user, nil
		}
	}
	return nil, users.ErrNotFound
}

func (f *FakeRepository) UpdateName(ctx context.Context, id string, name string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	existing, ok := f.users[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	existing.Name = name
	existing.UpdatedAt = time.Now()
	f.users[id] = existing
	return &existing, nil
}

// Disable marks a stored user inactive, bypassing the service.
func (f *FakeRepository) Disable(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if user, ok := f.users[id]; ok {
		user.IsActive = false
		f.users[id] = user
	}
}
