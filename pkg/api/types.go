package api

// registerRequest is the body of POST /auth/register.
type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// loginRequest is the body of POST /auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// createCategoryRequest is the body of POST /categories.
type createCategoryRequest struct {
	CategoryName string `json:"category_name"`
}

// createProductRequest is the body of POST /products. ImageURL is
// optional; upload handling lives outside this service.
type createProductRequest struct {
	ProductName string  `json:"product_name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	CategoryID  int64   `json:"category_id"`
	ImageURL    string  `json:"image_url"`
}
