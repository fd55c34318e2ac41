package checkout

import (
	"regexp"
	"strings"
)

// ContactForm holds the contact and shipping fields collected in the
// first checkout step.
type ContactForm struct {
	FullName string `json:"nombre"`
	Email    string `json:"email"`
	Phone    string `json:"telefono"`
	Street   string `json:"calle"`
	City     string `json:"ciudad"`
	State    string `json:"departamento"`
	ZipCode  string `json:"codigoPostal"`
}

var (
	emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^(\+?57)?[0-9]{10}$`)
	zipPattern   = regexp.MustCompile(`^[0-9]{5}(-[0-9]{4})?$`)
)

// Validate applies the field-level rules and returns one message per
// failing field. An empty map means the form passed.
func (f *ContactForm) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(f.FullName)
	if len(name) < 2 || len(name) > 50 {
		errs["nombre"] = "el nombre debe tener entre 2 y 50 caracteres"
	}

	if !emailPattern.MatchString(strings.TrimSpace(f.Email)) {
		errs["email"] = "email invalido"
	}

	phone := strings.ReplaceAll(strings.TrimSpace(f.Phone), " ", "")
	if !phonePattern.MatchString(phone) {
		errs["telefono"] = "el telefono debe tener 10 digitos"
	}

	street := strings.TrimSpace(f.Street)
	if len(street) < 5 || len(street) > 100 {
		errs["calle"] = "la direccion debe tener entre 5 y 100 caracteres"
	}

	city := strings.TrimSpace(f.City)
	if len(city) < 2 || len(city) > 50 {
		errs["ciudad"] = "la ciudad debe tener entre 2 y 50 caracteres"
	}

	// State is optional but bounded when present.
	if state := strings.TrimSpace(f.State); state != "" && (len(state) < 2 || len(state) > 50) {
		errs["departamento"] = "el departamento debe tener entre 2 y 50 caracteres"
	}

	if !zipPattern.MatchString(strings.TrimSpace(f.ZipCode)) {
		errs["codigoPostal"] = "el codigo postal debe tener 5 digitos"
	}

	return errs
}
