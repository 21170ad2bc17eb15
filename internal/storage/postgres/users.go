package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/frahmantamala/job-board/internal/core/datamodel/user"
	"github.com/frahmantamala/job-board/internal/storage"
)

func (s *Store) GetUser(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	found, err := first(s.db.WithContext(ctx), &u, "id = ?", id)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*user.User, error) {
	var u user.User
	found, err := first(s.db.WithContext(ctx).Order("id ASC"), &u, "LOWER(username) = LOWER(?)", username)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	var u user.User
	found, err := first(s.db.WithContext(ctx).Order("id ASC"), &u, "LOWER(email) = LOWER(?)", email)
	if err != nil || !found {
		return nil, err
	}
	return &u, nil
}

func (s *Store) GetUsers(ctx context.Context, filter storage.UserFilter) ([]*user.User, error) {
	q := s.db.WithContext(ctx).Model(&user.User{})
	if filter.Role != nil {
		q = q.Where("role = ?", string(*filter.Role))
	}
	if filter.IsActive != nil {
		q = q.Where("is_active = ?", *filter.IsActive)
	}

	users := make([]*user.User, 0)
	if err := q.Order("id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u user.User) (*user.User, error) {
	storage.PrepareNewUser(&u)
	u.ID = 0
	u.CreatedAt = s.now()

	if err := s.db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, translate(err)
	}
	return &u, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, upd storage.UserUpdate, actingUserID *int64) (*user.User, error) {
	var result *user.User

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing user.User
		found, err := first(tx, &existing, "id = ?", id)
		if err != nil || !found {
			return err
		}

		if actingUserID != nil {
			actor := &user.User{ID: *actingUserID}
			if *actingUserID == id {
				actor = &existing
			} else {
				var loaded user.User
				ok, err := first(tx, &loaded, "id = ?", *actingUserID)
				if err != nil {
					return err
				}
				if ok {
					actor = &loaded
				}
			}
			if err := storage.CheckUserPrivilege(&existing, actor, upd); err != nil {
				return err
			}
		}

		merged := existing
		upd.Apply(&merged)
		if cols := upd.Columns(&merged); len(cols) > 0 {
			if err := tx.Model(&user.User{}).Where("id = ?", id).Updates(cols).Error; err != nil {
				return translate(err)
			}
		}
		result = &merged
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
