package service

import "errors"

var (
	ErrTaskNotFound     = errors.New("task not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrInvalidTitle     = errors.New("title is required")
	ErrInvalidName      = errors.New("name is required")
	ErrInvalidPriority  = errors.New("priority must be between 1 and 3")
)
