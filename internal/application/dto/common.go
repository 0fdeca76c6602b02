package dto

// DefaultLimit tamaño de página cuando el cliente no indica limit.
const DefaultLimit = 100

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" json:"limit"`
	Offset int `query:"offset" json:"offset"`
}

// DefaultPage aplica valores por defecto si Limit/Offset no son válidos.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse sobre uniforme de error del bridge. Los clientes ramifican por Code.
type ErrorResponse struct {
	OK         bool     `json:"ok"`
	Code       string   `json:"code"`
	Error      string   `json:"error"`
	Fields     []string `json:"fields,omitempty"`
	RetryAfter int      `json:"retryAfter,omitempty"`
}

// OKResponse respuesta sin payload.
type OKResponse struct {
	OK bool `json:"ok"`
}

// DataResponse envuelve el payload de las llamadas que devuelven datos.
type DataResponse[T any] struct {
	OK   bool `json:"ok"`
	Data T    `json:"data"`
}

// NewData construye un DataResponse exitoso.
func NewData[T any](data T) DataResponse[T] {
	return DataResponse[T]{OK: true, Data: data}
}
