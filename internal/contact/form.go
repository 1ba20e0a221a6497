package contact

import (
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Field names one of the three inputs of the contact form.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// ParseField maps a form input name onto a Field.
func ParseField(s string) (Field, bool) {
	switch f := Field(strings.ToLower(strings.TrimSpace(s))); f {
	case FieldName, FieldEmail, FieldMessage:
		return f, true
	}
	return "", false
}

// Submission is the record typed into the contact form.
// The address is not format checked; only blank fields block a send.
type Submission struct {
	Name    string `json:"name" form:"name" validate:"notblank"`
	Email   string `json:"email" form:"email" validate:"notblank"`
	Message string `json:"message" form:"message" validate:"notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Submittable reports whether every field is non-empty after trimming.
func (s Submission) Submittable() bool {
	return validate.Struct(s) == nil
}

// IsEmpty reports whether s is the empty record.
func (s Submission) IsEmpty() bool {
	return s == Submission{}
}

// Form holds the contact record of one visitor session.
// It is safe for concurrent use; every operation returns the record it left behind.
type Form struct {
	mu  sync.Mutex
	rec Submission
}

// NewForm returns a form holding the empty record.
func NewForm() *Form {
	return &Form{}
}

// Update sets one field. Unknown fields leave the record untouched.
func (f *Form) Update(field Field, value string) Submission {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch field {
	case FieldName:
		f.rec.Name = value
	case FieldEmail:
		f.rec.Email = value
	case FieldMessage:
		f.rec.Message = value
	}
	return f.rec
}

// Fill replaces all three fields at once.
func (f *Form) Fill(s Submission) Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec = s
	return f.rec
}

// Reset clears the record.
func (f *Form) Reset() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rec = Submission{}
	return f.rec
}

// Snapshot returns a copy of the current record.
func (f *Form) Snapshot() Submission {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rec
}
