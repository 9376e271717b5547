package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field string, v *string, limit int) error {
	if v == nil {
		return nil
	}
	if len(*v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

func Email(v *string) error {
	if v == nil || *v == "" {
		return nil
	}
	if len(*v) > 320 || !emailRx.MatchString(*v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// TopK bounds the requested result count for similarity searches.
func TopK(v int) error {
	if v < 1 {
		return fmt.Errorf("topK must be >= 1")
	}
	if v > 100 {
		return fmt.Errorf("topK exceeds 100")
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateCustomer validates input for creating a new customer.
func CreateCustomer(name string) error {
	if err := NonEmpty("name", name); err != nil {
		return err
	}
	n := name
	return MaxLen("name", &n, 200)
}

// CreateContact validates input for creating a new contact.
func CreateContact(name string, email *string) error {
	if err := NonEmpty("name", name); err != nil {
		return err
	}
	n := name
	if err := MaxLen("name", &n, 200); err != nil {
		return err
	}
	return Email(email)
}

// Search validates a similarity search request.
func Search(query string, topK int) error {
	if err := NonEmpty("query", query); err != nil {
		return err
	}
	return TopK(topK)
}
