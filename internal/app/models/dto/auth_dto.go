package dto

// ParentRegisterRequest creates a guardian account
type ParentRegisterRequest struct {
	FirstName string  `json:"firstName" binding:"required"`
	LastName  string  `json:"lastName" binding:"required"`
	Email     string  `json:"email" binding:"required,email"`
	Phone     *string `json:"phone"`
	Password  string  `json:"password" binding:"required,min=8"`
}

// ParentLoginRequest authenticates a guardian account
type ParentLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn" example:"3600"`
}
