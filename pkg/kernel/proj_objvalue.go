package kernel

import (
	"net/mail"
	"strings"
)

type Email string

func (e Email) String() string { return string(e) }

// Normalized lowercases and trims the address.
func (e Email) Normalized() Email {
	return Email(strings.ToLower(strings.TrimSpace(string(e))))
}

func (e Email) IsValid() bool {
	if e == "" {
		return false
	}
	_, err := mail.ParseAddress(string(e))
	return err == nil
}

type Phone string

func (p Phone) String() string { return string(p) }

type FirstName string

type LastName string

// SplitFullName splits "Jane Mary Doe" into ("Jane", "Mary Doe").
func SplitFullName(full string) (FirstName, LastName) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return FirstName(parts[0]), ""
	default:
		return FirstName(parts[0]), LastName(strings.Join(parts[1:], " "))
	}
}

// BucketURL is the storage key of an uploaded file.
type BucketURL string

func (b BucketURL) String() string { return string(b) }

// Embedding is a dense text embedding.
type Embedding []float32
