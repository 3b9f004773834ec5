package usecase

import "errors"

var (
	// ErrExpenseNotFound is returned when an expense cannot be found by ID,
	// or when it belongs to a different user.
	ErrExpenseNotFound = errors.New("expense not found")

	// ErrInvalidCategory is returned when the category is not one of the fixed set.
	ErrInvalidCategory = errors.New("invalid category")

	// ErrInvalidAmount is returned when the amount is not positive or exceeds the maximum.
	ErrInvalidAmount = errors.New("amount must be positive and at most 1000000")

	// ErrCommentsTooLong is returned when comments exceed the maximum length.
	ErrCommentsTooLong = errors.New("comments must be at most 500 characters")
)
