package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/usa-store/internal/application/dto"
	"github.com/jhoicas/usa-store/internal/domain"
	"github.com/jhoicas/usa-store/internal/domain/account"
	"github.com/jhoicas/usa-store/internal/domain/entity"
	"github.com/jhoicas/usa-store/internal/domain/repository"
)

// UserTxRunner ejecuta fn en una transacción con el repositorio de usuarios atado a ella.
// Chequeo de último admin y escritura quedan en la misma unidad.
type UserTxRunner interface {
	RunUsers(ctx context.Context, fn func(userRepo repository.UserRepository) error) error
}

// UserUseCase aplica reglas de negocio para la administración de usuarios.
type UserUseCase struct {
	repo       repository.UserRepository
	txRunner   UserTxRunner
	bcryptCost int
	now        func() time.Time
	log        zerolog.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, txRunner UserTxRunner, bcryptCost int, log zerolog.Logger) *UserUseCase {
	if bcryptCost <= 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserUseCase{
		repo:       repo,
		txRunner:   txRunner,
		bcryptCost: bcryptCost,
		now:        time.Now,
		log:        log.With().Str("component", "users").Logger(),
	}
}

// ListUsers lista usuarios por nombre, sin hash.
func (uc *UserUseCase) ListUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, *entityToUserResponse(u))
	}
	return out, nil
}

// CreateUser valida todos los campos (errores acumulados), verifica unicidad e inserta.
func (uc *UserUseCase) CreateUser(ctx context.Context, in dto.CreateUserRequest) error {
	fields := account.ValidateUser(in.Name, in.Username, in.Role)
	if !account.ValidPassword(in.Password) {
		fields = append(fields, account.FieldPasswordWeak)
	}
	if len(fields) > 0 {
		return domain.NewValidation(fields...)
	}

	hash, err := bcrypt.GenerateFromPassword(account.PasswordKey(in.Password), uc.bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	username := account.NormalizeUsername(in.Username)

	return uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		existing, err := userRepo.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrUsernameTaken
		}
		now := uc.now()
		user := &entity.User{
			Name:         account.NormalizeName(in.Name),
			Username:     username,
			Role:         in.Role,
			PasswordHash: string(hash),
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			return err
		}
		uc.log.Info().Int64("user_id", user.ID).Str("role", user.Role).Msg("usuario creado")
		return nil
	})
}

// UpdateUser aplica un cambio parcial. Un ADMIN no puede degradarse si es el último.
func (uc *UserUseCase) UpdateUser(ctx context.Context, in dto.UpdateUserRequest) (*dto.ChangedResponse, error) {
	if in.ID <= 0 {
		return nil, domain.NewValidation(account.FieldIDRequired)
	}

	var changed int64
	err := uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		target, err := userRepo.GetByID(ctx, in.ID)
		if err != nil {
			return err
		}
		if target == nil {
			return domain.NewNotFound("USER_NOT_FOUND")
		}

		var changes entity.UserChanges
		var fields []string
		if name, ok := in.Name.Get(); ok {
			if account.ValidName(name) {
				n := account.NormalizeName(name)
				changes.Name = &n
			} else {
				fields = append(fields, account.FieldNameInvalid)
			}
		}
		if role, ok := in.Role.Get(); ok {
			if account.ValidRole(role) {
				changes.Role = &role
			} else {
				fields = append(fields, account.FieldRoleInvalid)
			}
		}
		var password string
		if pw, ok := in.Password.Get(); ok && pw != "" {
			if account.ValidPassword(pw) {
				password = pw
			} else {
				fields = append(fields, account.FieldPasswordWeak)
			}
		}
		if len(fields) > 0 {
			return domain.NewValidation(fields...)
		}

		if changes.Role != nil && target.IsAdmin() && *changes.Role != entity.RoleAdmin {
			others, err := userRepo.CountAdmins(ctx, target.ID)
			if err != nil {
				return err
			}
			if others == 0 {
				return domain.NewLastAdmin("CANNOT_DOWNGRADE_LAST_ADMIN")
			}
		}
		if password != "" {
			hash, err := bcrypt.GenerateFromPassword(account.PasswordKey(password), uc.bcryptCost)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			h := string(hash)
			changes.PasswordHash = &h
		}
		if changes.Empty() {
			return nil
		}

		changed, err = userRepo.Update(ctx, target.ID, changes, uc.now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return &dto.ChangedResponse{Changed: changed}, nil
}

// RemoveUser elimina un usuario. Inexistente devuelve changed=0; el último ADMIN no se elimina.
func (uc *UserUseCase) RemoveUser(ctx context.Context, id int64) (*dto.ChangedResponse, error) {
	if id <= 0 {
		return nil, domain.NewValidation(account.FieldIDRequired)
	}

	var changed int64
	err := uc.txRunner.RunUsers(ctx, func(userRepo repository.UserRepository) error {
		target, err := userRepo.GetByID(ctx, id)
		if err != nil || target == nil {
			return err
		}
		if target.IsAdmin() {
			others, err := userRepo.CountAdmins(ctx, id)
			if err != nil {
				return err
			}
			if others == 0 {
				return domain.NewLastAdmin("CANNOT_DELETE_LAST_ADMIN")
			}
		}
		changed, err = userRepo.Delete(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if changed > 0 {
		uc.log.Info().Int64("user_id", id).Msg("usuario eliminado")
	}
	return &dto.ChangedResponse{Changed: changed}, nil
}

func entityToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Username:  u.Username,
		Role:      u.Role,
		CreatedAt: u.CreatedAt.Unix(),
		UpdatedAt: u.UpdatedAt.Unix(),
	}
}
