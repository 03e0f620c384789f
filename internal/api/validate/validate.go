package validate

import (
	"fmt"
	"regexp"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

func NonEmpty(field, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", field)
	}
	return nil
}

func MaxLen(field, v string, limit int) error {
	if len(v) > limit {
		return fmt.Errorf("%s exceeds %d characters", field, limit)
	}
	return nil
}

// -------- Request specific helpers ----------

// Register validates input for creating a new account.
func Register(name, email, password string) error {
	if err := NonEmpty("name", name); err != nil {
		return err
	}
	if err := MaxLen("name", name, 100); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	if err := NonEmpty("password", password); err != nil {
		return err
	}
	if len(password) > 72 {
		return fmt.Errorf("password exceeds 72 characters")
	}
	return nil
}

// ChatTurn validates input for one chat turn.
func ChatTurn(threadID, message string) error {
	if err := NonEmpty("threadId", threadID); err != nil {
		return err
	}
	if err := MaxLen("threadId", threadID, 128); err != nil {
		return err
	}
	return NonEmpty("message", message)
}
