// Package apierror define los sobres de error que la API de pagos regresa
// al frontend. Todo 4xx/5xx pasa por aqui: el cliente siempre recibe la
// misma forma y nunca un stack trace ni un error crudo del driver.
package apierror

// APIError es el sobre minimo: un solo mensaje legible para el capturista.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// ValidationError acompana el mensaje con los errores campo por campo, tal
// como los produce el binding de los formularios de captura.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}
