package utils

import "fmt"

// ValidationOptions defines the validation rules for a string
type ValidationOptions struct {
	FieldName    string // Name of the field for error messages
	MaxLength    int    // Maximum allowed length
	MinLength    int    // Minimum allowed length (0 means no minimum)
	EmptyAllowed bool   // Whether empty strings are allowed
	AllowedChars string // Characters allowed beyond ASCII letters and digits
}

// ValidateString validates a string against the given options
func ValidateString(value string, opts ValidationOptions) error {
	// Check empty string
	if !opts.EmptyAllowed && len(value) == 0 {
		return fmt.Errorf("%s cannot be empty", opts.FieldName)
	}

	if opts.EmptyAllowed && len(value) == 0 {
		return nil
	}

	// Check minimum length
	if opts.MinLength > 0 && len(value) < opts.MinLength {
		return fmt.Errorf("%s must be at least %d characters, got %d", opts.FieldName, opts.MinLength, len(value))
	}

	// Check maximum length
	if opts.MaxLength > 0 && len(value) > opts.MaxLength {
		return fmt.Errorf("%s cannot exceed %d bytes, got %d bytes", opts.FieldName, opts.MaxLength, len(value))
	}

	hint := fmt.Sprintf("Only alphanumeric ASCII and %q are allowed", opts.AllowedChars)

	// Create allowed characters set
	allowedChars := make(map[rune]bool)
	for _, c := range "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" {
		allowedChars[c] = true
	}
	for _, c := range opts.AllowedChars {
		allowedChars[c] = true
	}

	// Validate each character
	for i, r := range value {
		// Check if character is within ASCII range
		if r >= 128 {
			return fmt.Errorf("%s contains invalid character '%c' at position %d. %s", opts.FieldName, r, i, hint)
		}

		// Check if character is allowed
		if !allowedChars[r] {
			return fmt.Errorf("%s contains invalid character '%c' at position %d. %s", opts.FieldName, r, i, hint)
		}
	}

	return nil
}

// ValidateDatabaseName validates a configured database name. Names become
// registry key prefixes, so the character set is kept narrow.
func ValidateDatabaseName(name string) error {
	opts := ValidationOptions{
		FieldName:    "database name",
		MaxLength:    64,
		MinLength:    1,
		EmptyAllowed: false,
		AllowedChars: "_-",
	}
	return ValidateString(name, opts)
}

// ValidateSingletonName validates a process-wide singleton name.
func ValidateSingletonName(name string) error {
	opts := ValidationOptions{
		FieldName:    "singleton name",
		MaxLength:    64,
		MinLength:    1,
		EmptyAllowed: false,
		AllowedChars: "_-.",
	}
	return ValidateString(name, opts)
}
