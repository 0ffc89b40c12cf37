package web

import (
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// registerForm is the input submitted from the index page.
type registerForm struct {
	Name  string `validate:"required"`
	Token string `validate:"required"`
}

// formError reports which fields of a submitted form were rejected.
type formError struct {
	Fields []string
}

func (e *formError) Error() string {
	return "web: invalid form fields: " + strings.Join(e.Fields, ", ")
}

// parseRegisterForm reads and validates the name and token fields.
// Surrounding whitespace and a leading "@" on the name are trimmed before
// validation. Rejected input is reported as *formError.
func parseRegisterForm(r *http.Request) (registerForm, error) {
	if err := r.ParseForm(); err != nil {
		return registerForm{}, &formError{Fields: []string{"form"}}
	}

	f := registerForm{
		Name:  strings.TrimPrefix(strings.TrimSpace(r.PostForm.Get("name")), "@"),
		Token: strings.TrimSpace(r.PostForm.Get("token")),
	}

	err := getValidator().Struct(f)
	if err == nil {
		return f, nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return f, eris.Wrap(err, "web: validate form")
	}
	fe := &formError{Fields: make([]string, 0, len(verrs))}
	for _, v := range verrs {
		fe.Fields = append(fe.Fields, strings.ToLower(v.Field()))
	}
	return f, fe
}
