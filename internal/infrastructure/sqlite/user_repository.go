package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

const userColumns = `id, name, username, role, password_hash, created_at, updated_at`

// UserRepo implementación del puerto UserRepository sobre SQLite (usable con gateway o tx).
type UserRepo struct {
	q Querier
}

// NewUserRepository construye el adaptador de persistencia para usuarios.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

// Count total de usuarios.
func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var n int
	if _, err := r.q.QueryOne(ctx, `SELECT COUNT(*) FROM users`, nil, &n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

// Create persiste un nuevo usuario y asigna su ID.
func (r *UserRepo) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (name, username, role, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.q.Execute(ctx, query,
		user.Name, user.Username, user.Role, user.PasswordHash,
		user.CreatedAt.Unix(), user.UpdatedAt.Unix(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = res.InsertedID
	return nil
}

// GetByID obtiene un usuario por ID; (nil, nil) si no existe.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// FindByUsername busca por username sin distinguir mayúsculas.
func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = ? COLLATE NOCASE LIMIT 1`, username)
	if err != nil {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	return u, nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, args ...any) (*entity.User, error) {
	var u entity.User
	var created, updated int64
	found, err := r.q.QueryOne(ctx, query, args,
		&u.ID, &u.Name, &u.Username, &u.Role, &u.PasswordHash, &created, &updated,
	)
	if err != nil || !found {
		return nil, err
	}
	u.CreatedAt = time.Unix(created, 0)
	u.UpdatedAt = time.Unix(updated, 0)
	return &u, nil
}

// List devuelve todos los usuarios ordenados por nombre sin distinguir mayúsculas.
func (r *UserRepo) List(ctx context.Context) ([]*entity.User, error) {
	var list []*entity.User
	err := r.q.QueryMany(ctx, `SELECT `+userColumns+` FROM users ORDER BY name COLLATE NOCASE ASC`, nil,
		func(s Scanner) error {
			var u entity.User
			var created, updated int64
			if err := s.Scan(&u.ID, &u.Name, &u.Username, &u.Role, &u.PasswordHash, &created, &updated); err != nil {
				return err
			}
			u.CreatedAt = time.Unix(created, 0)
			u.UpdatedAt = time.Unix(updated, 0)
			list = append(list, &u)
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return list, nil
}

// Update aplica solo los campos presentes en changes y devuelve filas afectadas.
func (r *UserRepo) Update(ctx context.Context, id int64, changes entity.UserChanges, updatedAt time.Time) (int64, error) {
	if changes.Empty() {
		return 0, nil
	}
	var sets []string
	var args []any
	if changes.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *changes.Name)
	}
	if changes.Role != nil {
		sets = append(sets, "role = ?")
		args = append(args, *changes.Role)
	}
	if changes.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *changes.PasswordHash)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, updatedAt.Unix(), id)

	res, err := r.q.Execute(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return 0, fmt.Errorf("update user: %w", err)
	}
	return res.Changed, nil
}

// CountAdmins cuenta ADMIN excluyendo excludeID (0 = ninguno).
func (r *UserRepo) CountAdmins(ctx context.Context, excludeID int64) (int, error) {
	query := `SELECT COUNT(*) FROM users WHERE role = 'ADMIN'`
	var args []any
	if excludeID != 0 {
		query += ` AND id <> ?`
		args = append(args, excludeID)
	}
	var n int
	if _, err := r.q.QueryOne(ctx, query, args, &n); err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return n, nil
}

// Delete elimina un usuario por ID y devuelve filas afectadas.
func (r *UserRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.q.Execute(ctx, `DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return 0, fmt.Errorf("delete user: %w", err)
	}
	return res.Changed, nil
}
