package domain

// Profile is the backend's user record.
type Profile struct {
	ID       string
	Email    string
	Name     string
	Phone    string
	Location string
	Bio      string
	ImageURL string
}

// ProfileUpdate is a partial profile. Nil fields are left unchanged.
type ProfileUpdate struct {
	Name     *string
	Phone    *string
	Location *string
	Bio      *string
}

// IsEmpty reports whether the update changes nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == nil && u.Phone == nil && u.Location == nil && u.Bio == nil
}

// SignUpRequest carries the fields collected on sign up.
type SignUpRequest struct {
	Email           string
	Password        string
	ConfirmPassword string

	// Optional profile fields registered with the backend.
	Name     string
	Phone    string
	Location string
	Bio      string
}

// Validate checks the sign up form. It returns nil or a validation error
// listing every invalid field.
func (r SignUpRequest) Validate() error {
	fields := make(map[string]string)
	if r.Email == "" {
		fields["email"] = "Email is required"
	}
	if r.Password == "" {
		fields["password"] = "Password is required"
	}
	if r.ConfirmPassword == "" {
		fields["confirmPassword"] = "confirmPassword is required"
	}
	if r.Password != r.ConfirmPassword {
		fields["confirmPassword"] = "Passwords do not match."
	}
	if len(fields) > 0 {
		return NewValidationError("invalid sign up form", fields)
	}
	return nil
}

// Credentials are the email/password pair for sign in.
type Credentials struct {
	Email    string
	Password string
}
