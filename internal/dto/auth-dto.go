package dto

type LoginDTO struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	CSRFToken string `json:"csrf_token" validate:"required"`
}
