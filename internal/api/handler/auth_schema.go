package handler

type registerRequest struct {
	FirstName   string `json:"first_name"   validate:"required,min=3,max=20"`
	LastName    string `json:"last_name"    validate:"required,min=3,max=20"`
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=8,max=50"`
	PhoneNumber string `json:"phone_number" validate:"required,min=10,max=15,mobile_number"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type authResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Token     string `json:"token"`
}
