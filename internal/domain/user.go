package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// TokenTypeBearer é o token_type retornado junto com todo access token.
const TokenTypeBearer = "bearer"

var (
	// ErrDuplicateEmail é retornado por um UserStore quando a restrição de
	// unicidade do email rejeita um insert.
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrUserNotFound é retornado por uma busca por id que não encontrou nada.
	ErrUserNotFound = errors.New("user not found")
)

// User é o registro persistido no armazenamento de usuários.
type User struct {
	ID                   string    `json:"id"`
	FullName             string    `json:"full_name"`
	Email                string    `json:"email"`
	PasswordHash         string    `json:"-"`
	Department           string    `json:"department"`
	Role                 string    `json:"role"`
	WorkStyle            string    `json:"work_style"`
	Skills               []string  `json:"skills"`
	Enable2FA            bool      `json:"enable_2fa"`
	AcceptTerms          bool      `json:"accept_terms"`
	ReceiveNotifications bool      `json:"receive_notifications"`
	CreatedAt            time.Time `json:"created_at"`
}

// Response projeta o registro armazenado na sua visão pública. O hash e a
// flag de termos nunca saem do serviço.
func (u User) Response() UserResponse {
	skills := u.Skills
	if skills == nil {
		skills = []string{}
	}
	return UserResponse{
		ID:                   u.ID,
		FullName:             u.FullName,
		Email:                u.Email,
		Department:           u.Department,
		Role:                 u.Role,
		WorkStyle:            u.WorkStyle,
		Skills:               skills,
		Enable2FA:            u.Enable2FA,
		ReceiveNotifications: u.ReceiveNotifications,
	}
}

// NewUser contém os campos gravados no insert. O store atribui o id.
type NewUser struct {
	FullName             string
	Email                string
	PasswordHash         string
	Department           string
	Role                 string
	WorkStyle            string
	Skills               []string
	Enable2FA            bool
	AcceptTerms          bool
	ReceiveNotifications bool
}

// UserRegistration é o payload de entrada do cadastro.
// @Description Payload de cadastro. Aliases em snake_case também são aceitos.
type UserRegistration struct {
	FullName             string   `json:"fullName" validate:"required" example:"Ada Lovelace"`
	Email                string   `json:"email" validate:"required,email" example:"ada@example.com"`
	Password             string   `json:"password" validate:"required,bcryptmax" example:"s3cret"`
	Department           string   `json:"department" validate:"required" example:"Engineering"`
	Role                 string   `json:"role" validate:"required" example:"Developer"`
	WorkStyle            string   `json:"workStyle" validate:"required" example:"remote"`
	Skills               []string `json:"skills"`
	Enable2FA            bool     `json:"enable2FA"`
	AcceptTerms          bool     `json:"acceptTerms"`
	ReceiveNotifications bool     `json:"receiveNotifications"`
}

// UnmarshalJSON aceita tanto os nomes em camelCase quanto seus equivalentes
// em snake_case, e aplica os padrões dos campos opcionais omitidos.
func (r *UserRegistration) UnmarshalJSON(data []byte) error {
	var raw struct {
		FullName                *string  `json:"fullName"`
		FullNameAlt             *string  `json:"full_name"`
		Email                   string   `json:"email"`
		Password                string   `json:"password"`
		Department              string   `json:"department"`
		Role                    string   `json:"role"`
		WorkStyle               *string  `json:"workStyle"`
		WorkStyleAlt            *string  `json:"work_style"`
		Skills                  []string `json:"skills"`
		Enable2FA               *bool    `json:"enable2FA"`
		Enable2FAAlt            *bool    `json:"enable_2fa"`
		AcceptTerms             *bool    `json:"acceptTerms"`
		AcceptTermsAlt          *bool    `json:"accept_terms"`
		ReceiveNotifications    *bool    `json:"receiveNotifications"`
		ReceiveNotificationsAlt *bool    `json:"receive_notifications"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*r = UserRegistration{
		FullName:             firstString(raw.FullName, raw.FullNameAlt),
		Email:                raw.Email,
		Password:             raw.Password,
		Department:           raw.Department,
		Role:                 raw.Role,
		WorkStyle:            firstString(raw.WorkStyle, raw.WorkStyleAlt),
		Skills:               raw.Skills,
		Enable2FA:            firstBool(false, raw.Enable2FA, raw.Enable2FAAlt),
		AcceptTerms:          firstBool(false, raw.AcceptTerms, raw.AcceptTermsAlt),
		ReceiveNotifications: firstBool(true, raw.ReceiveNotifications, raw.ReceiveNotificationsAlt),
	}
	if r.Skills == nil {
		r.Skills = []string{}
	}
	return nil
}

// ToNewUser descarta a senha em texto puro e anexa o hash calculado.
func (r UserRegistration) ToNewUser(passwordHash string) NewUser {
	return NewUser{
		FullName:             r.FullName,
		Email:                r.Email,
		PasswordHash:         passwordHash,
		Department:           r.Department,
		Role:                 r.Role,
		WorkStyle:            r.WorkStyle,
		Skills:               r.Skills,
		Enable2FA:            r.Enable2FA,
		AcceptTerms:          r.AcceptTerms,
		ReceiveNotifications: r.ReceiveNotifications,
	}
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstBool(def bool, values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return def
}

// LoginRequest é o payload de entrada do endpoint de login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email" example:"ada@example.com"`
	Password string `json:"password" validate:"required" example:"s3cret"`
}

// UserResponse é a projeção pública de um usuário armazenado.
type UserResponse struct {
	ID                   string   `json:"id" example:"3f2c8a9e-8f7e-4a51-9d0c-1b9b0e6f4c21"`
	FullName             string   `json:"full_name" example:"Ada Lovelace"`
	Email                string   `json:"email" example:"ada@example.com"`
	Department           string   `json:"department" example:"Engineering"`
	Role                 string   `json:"role" example:"Developer"`
	WorkStyle            string   `json:"work_style" example:"remote"`
	Skills               []string `json:"skills"`
	Enable2FA            bool     `json:"enable_2fa"`
	ReceiveNotifications bool     `json:"receive_notifications"`
}

// TokenResponse é retornado pelo cadastro e pelo login.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type" example:"bearer"`
	User        UserResponse `json:"user"`
}

// UserStore define o contrato que o fluxo espera do armazenamento externo de usuários.
// FindByEmail e Insert retornam conjuntos de linhas como o store hospedado:
// slice vazio significa nenhum resultado ou nenhuma linha retornada.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) ([]User, error)
	FindByID(ctx context.Context, id string) (User, error)
	Insert(ctx context.Context, user NewUser) ([]User, error)
	List(ctx context.Context) ([]User, error)
}
