package dto

// BackupRequest destino del respaldo.
type BackupRequest struct {
	Dest string `json:"dest"`
}

// BackupResponse ruta del respaldo creado.
type BackupResponse struct {
	Path string `json:"path"`
}

// RestoreRequest archivo de respaldo a restaurar.
type RestoreRequest struct {
	Src string `json:"src"`
}
