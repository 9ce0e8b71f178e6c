package handler

import "strings"

type signupForm struct {
	FirstName       string `form:"firstName" validate:"required" msg:"First Name is required"`
	LastName        string `form:"lastName" validate:"required" msg:"Last Name is required"`
	Email           string `form:"email" validate:"required,email" msg:"Email is invalid"`
	Password        string `form:"password" validate:"min=6" msg:"Password must be at least 6 characters long"`
	ConfirmPassword string `form:"confirmPassword" validate:"eqfield=Password" msg:"Passwords do not match"`
}

func (f *signupForm) normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
}

// values never echoes the passwords back.
func (f *signupForm) values() map[string]string {
	return map[string]string{
		"firstName": f.FirstName,
		"lastName":  f.LastName,
		"email":     f.Email,
	}
}

type loginForm struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type passcodeForm struct {
	Passcode string `form:"passcode"`
}

type messageForm struct {
	Title string `form:"title" validate:"required" msg:"Title required"`
	Text  string `form:"text" validate:"required" msg:"Text required"`
}

func (f *messageForm) normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Text = strings.TrimSpace(f.Text)
}

func (f *messageForm) values() map[string]string {
	return map[string]string{"title": f.Title, "text": f.Text}
}
