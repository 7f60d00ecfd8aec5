// Package forms decodes and validates the HTML forms of the task board.
package forms

import (
	"errors"
	"net/http"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"taskboard/internal/models"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rules := map[string]validator.Func{
		"notblank":    validators.NotBlank,
		"bcryptlen":   fitsBcrypt,
		"pathsegment": isPathSegment,
	}
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			panic(err)
		}
	}
	return v
}

// bcrypt refuses passwords longer than this many bytes.
const maxPasswordBytes = 72

func fitsBcrypt(fl validator.FieldLevel) bool {
	return len(fl.Field().String()) <= maxPasswordBytes
}

// Usernames end up as the last segment of the dashboard URL, where "." and
// ".." are resolved away by clients.
func isPathSegment(fl validator.FieldLevel) bool {
	name := fl.Field().String()
	return name != "." && name != ".."
}

// Errors maps a form field name to the message shown next to it.
type Errors map[string]string

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return strings.Join(parts, "; ")
}

// Get returns the message for field, empty when the field is valid.
func (e Errors) Get(field string) string {
	return e[field]
}

func check(form interface{}) Errors {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{"form": err.Error()}
	}

	out := make(Errors, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = message(fe)
		}
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Invalid email address."
	case "datetime":
		return "Not a valid date value."
	case "bcryptlen":
		return "Password must be at most 72 bytes long."
	case "pathsegment":
		return "This username is not allowed."
	default:
		return "Invalid value."
	}
}

func field(r *http.Request, name string) string {
	return strings.TrimSpace(r.PostFormValue(name))
}

type RegistrationForm struct {
	Username string `form:"username" validate:"required,pathsegment"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"notblank,bcryptlen"`
}

// Registration is a validated sign-up request.
type Registration struct {
	Username string
	Email    string
	Password string
}

func NewRegistrationForm(r *http.Request) RegistrationForm {
	return RegistrationForm{
		Username: field(r, "username"),
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

func (f RegistrationForm) Validate() (Registration, error) {
	if errs := check(f); errs != nil {
		return Registration{}, errs
	}
	return Registration{Username: f.Username, Email: f.Email, Password: f.Password}, nil
}

type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"notblank"`
}

type Credentials struct {
	Email    string
	Password string
}

func NewLoginForm(r *http.Request) LoginForm {
	return LoginForm{
		Email:    field(r, "email"),
		Password: r.PostFormValue("password"),
	}
}

func (f LoginForm) Validate() (Credentials, error) {
	if errs := check(f); errs != nil {
		return Credentials{}, errs
	}
	return Credentials{Email: f.Email, Password: f.Password}, nil
}

type TagForm struct {
	TagName string `form:"tag_name" validate:"required"`
}

func NewTagForm(r *http.Request) TagForm {
	return TagForm{TagName: field(r, "tag_name")}
}

// Validate returns the title-cased board name.
func (f TagForm) Validate() (string, error) {
	if errs := check(f); errs != nil {
		return "", errs
	}
	return models.NormalizeTagName(f.TagName), nil
}

// TaskForm is shared by task creation and editing. Choices holds the tag
// names the current user may file the task under.
type TaskForm struct {
	Title       string   `form:"title" validate:"required"`
	Description string   `form:"description"`
	DueDate     string   `form:"due_date" validate:"omitempty,datetime=2006-01-02"`
	Tag         string   `form:"tag" validate:"required"`
	Choices     []string `form:"-" validate:"-"`
}

type TaskInput struct {
	Title       string
	Description string
	DueDate     *time.Time
	TagName     string
}

func NewTaskForm(r *http.Request, choices []string) TaskForm {
	return TaskForm{
		Title:       field(r, "title"),
		Description: field(r, "description"),
		DueDate:     field(r, "due_date"),
		Tag:         field(r, "tag"),
		Choices:     choices,
	}
}

// TaskFormFrom pre-populates the form for editing an existing task.
func TaskFormFrom(task models.Task, tagName string, choices []string) TaskForm {
	return TaskForm{
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueString(),
		Tag:         tagName,
		Choices:     choices,
	}
}

func (f TaskForm) Validate() (TaskInput, error) {
	errs := check(f)
	if f.Tag != "" && !f.hasChoice(f.Tag) {
		if errs == nil {
			errs = Errors{}
		}
		errs["tag"] = "Not a valid choice."
	}
	if errs != nil {
		return TaskInput{}, errs
	}

	in := TaskInput{
		Title:       f.Title,
		Description: f.Description,
		TagName:     models.NormalizeTagName(f.Tag),
	}
	if f.DueDate != "" {
		due, err := time.Parse(models.DateLayout, f.DueDate)
		if err != nil {
			return TaskInput{}, Errors{"due_date": "Not a valid date value."}
		}
		in.DueDate = &due
	}
	return in, nil
}

func (f TaskForm) hasChoice(tag string) bool {
	want := models.NormalizeTagName(tag)
	for _, c := range f.Choices {
		if models.NormalizeTagName(c) == want {
			return true
		}
	}
	return false
}
