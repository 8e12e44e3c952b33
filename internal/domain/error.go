package domain

// ErrorResponse é o corpo de toda resposta não 2xx.
// @Description Corpo de erro padronizado. detail traz a mensagem legível.
type ErrorResponse struct {
	Detail   string            `json:"detail" example:"Email already registered"`
	Category string            `json:"category,omitempty" example:"DUPLICATE_EMAIL"`
	Errors   map[string]string `json:"errors,omitempty"`
}
