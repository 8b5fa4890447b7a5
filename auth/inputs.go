package auth

// RegisterUserInput is the self-registration payload of a user.
// There is no role field; the role always comes from the variant.
type RegisterUserInput struct {
	Names    string `json:"names" binding:"required,min=2,max=50,personname"`
	Surnames string `json:"surnames" binding:"required,min=2,max=50,personname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
	Phone    string `json:"phone" binding:"omitempty,min=7,max=20"`
}

// RegisterProviderInput is the self-registration payload of a provider.
// A handle is derived from the names when none is given.
type RegisterProviderInput struct {
	Names     string `json:"names" binding:"required,min=2,max=150"`
	Surnames  string `json:"surnames" binding:"omitempty,max=50,personname"`
	Handle    string `json:"handle" binding:"omitempty,handle"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,password"`
	Phone     string `json:"phone" binding:"omitempty,min=7,max=20"`
	Address   string `json:"address" binding:"omitempty,max=150"`
	CountryID string `json:"country_id" binding:"omitempty,max=36"`
	RegionID  string `json:"region_id" binding:"omitempty,max=36"`
	CityID    string `json:"city_id" binding:"omitempty,max=36"`
}

// LoginInput is the password login payload shared by both variants
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}
