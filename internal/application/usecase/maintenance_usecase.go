package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/jhoicas/usa-store/internal/application/dto"
)

// BackupStore lo implementa el gateway SQLite.
type BackupStore interface {
	Backup(ctx context.Context, dest string) error
	Restore(ctx context.Context, src string) error
}

// StateResetter limpia el estado en memoria ligado a los datos (sesión e intentos de login).
type StateResetter interface {
	ResetState()
}

// MaintenanceUseCase respaldo y restauración del almacén.
type MaintenanceUseCase struct {
	store    BackupStore
	resetter StateResetter
	log      zerolog.Logger
}

// NewMaintenanceUseCase construye el caso de uso. resetter puede ser nil.
func NewMaintenanceUseCase(store BackupStore, resetter StateResetter, log zerolog.Logger) *MaintenanceUseCase {
	return &MaintenanceUseCase{
		store:    store,
		resetter: resetter,
		log:      log.With().Str("component", "maintenance").Logger(),
	}
}

// Backup copia la base de datos a in.Dest.
func (uc *MaintenanceUseCase) Backup(ctx context.Context, in dto.BackupRequest) (*dto.BackupResponse, error) {
	if err := uc.store.Backup(ctx, in.Dest); err != nil {
		return nil, err
	}
	return &dto.BackupResponse{Path: in.Dest}, nil
}

// Restore reemplaza la base de datos por in.Src y limpia sesión e intentos de login.
func (uc *MaintenanceUseCase) Restore(ctx context.Context, in dto.RestoreRequest) error {
	if err := uc.store.Restore(ctx, in.Src); err != nil {
		return err
	}
	if uc.resetter != nil {
		uc.resetter.ResetState()
	}
	uc.log.Info().Msg("estado de sesión reiniciado tras restaurar")
	return nil
}
