package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Salon-api/internal/domain"
	"github.com/jhoicas/Salon-api/internal/domain/entity"
)

type userRepo struct {
	store *Store
}

func (r *userRepo) Create(_ context.Context, user *entity.User) error {
	if user == nil || user.ID == "" || user.Email == "" {
		return domain.ErrInvalidInput
	}
	return r.store.view(nil, func(st *state) error {
		for _, u := range st.users {
			if u.Email == user.Email {
				return domain.ErrEmailAlreadyExists
			}
		}
		if _, ok := st.users[user.ID]; ok {
			return domain.ErrConflict
		}
		cp := *user
		st.users[user.ID] = &cp
		return nil
	})
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(nil, func(st *state) error {
		if u, ok := st.users[id]; ok {
			cp := *u
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	var out *entity.User
	err := r.store.view(nil, func(st *state) error {
		for _, u := range st.users {
			if u.Email == email {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

// List devuelve el personal, más reciente primero.
func (r *userRepo) List(_ context.Context) ([]*entity.User, error) {
	var out []*entity.User
	err := r.store.view(nil, func(st *state) error {
		for _, u := range st.users {
			cp := *u
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Email < out[j].Email
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, err
}
