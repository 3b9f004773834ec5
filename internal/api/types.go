// Package api defines the shared HTTP request and response types.
package api

import "time"

// SignupRequest is the request body for POST /signup.
// Gin binding tags enforce the field-level validation boundary.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required,max=255"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the request body for POST /login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ExpenseRequest is the request body for POST /expenses and PUT /expenses/:id.
// Amount and comments bounds mirror the domain constraints.
type ExpenseRequest struct {
	Category string  `json:"category" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0,lte=1000000"`
	Comments string  `json:"comments" binding:"max=500"`
}

// ErrorResponse is the uniform error payload.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UserResponse is the public view of a user. The password hash never leaves the server.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// AuthResponse is returned by successful signup and login.
type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// ExpenseResponse is the public view of an expense.
type ExpenseResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Amount    float64   `json:"amount"`
	Comments  string    `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ExpenseListResponse wraps a list of expenses.
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// CategoryTotalResponse is one per-category aggregate entry.
type CategoryTotalResponse struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

// SummaryResponse is the aggregate view of a user's expenses.
type SummaryResponse struct {
	Total       float64                 `json:"total"`
	Count       int                     `json:"count"`
	Average     float64                 `json:"average"`
	ByCategory  []CategoryTotalResponse `json:"byCategory"`
	TopCategory string                  `json:"topCategory"`
}
