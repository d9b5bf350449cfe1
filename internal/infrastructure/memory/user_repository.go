package memory

import (
	"context"

	"github.com/jhoicas/stockflow-api/internal/domain"
	"github.com/jhoicas/stockflow-api/internal/domain/entity"
	"github.com/jhoicas/stockflow-api/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo implementación en memoria de UserRepository.
type UserRepo struct {
	s session
}

// NewUserRepository construye el repositorio.
func NewUserRepository(store *Store) *UserRepo {
	return &UserRepo{s: session{store: store}}
}

func (r *UserRepo) Create(_ context.Context, user *entity.User) error {
	defer r.s.lock()()
	if r.findByEmail(user.Email) != nil {
		return domain.ErrEmailAlreadyExists
	}
	r.s.store.users[user.ID] = copyUser(user)
	return nil
}

func (r *UserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	defer r.s.lock()()
	return copyUser(r.s.store.users[id]), nil
}

func (r *UserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.s.lock()()
	return copyUser(r.findByEmail(email)), nil
}

func (r *UserRepo) Update(_ context.Context, user *entity.User) error {
	defer r.s.lock()()
	current, ok := r.s.store.users[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if other := r.findByEmail(user.Email); other != nil && other.ID != user.ID {
		return domain.ErrEmailAlreadyExists
	}
	next := copyUser(user)
	next.PasswordHash = current.PasswordHash
	next.CreatedAt = current.CreatedAt
	r.s.store.users[user.ID] = next
	return nil
}

func (r *UserRepo) findByEmail(email string) *entity.User {
	for _, u := range r.s.store.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}
