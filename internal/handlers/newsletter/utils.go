package newsletter

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"mime"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

type subscribeRequest struct {
	Email string `json:"email" validate:"required,email,max=254"`
	Name  string `json:"name" validate:"max=100"`
}

// decodeRequest reads a JSON or a form body into the request
func decodeRequest(w http.ResponseWriter, r *http.Request) (*subscribeRequest, error) {

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req subscribeRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, fmt.Errorf("invalid JSON body; %w", err)
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return nil, fmt.Errorf("invalid form body; %w", err)
		}
		req.Email = r.PostForm.Get("email")
		req.Name = r.PostForm.Get("name")
	}

	req.Email = normalizeEmail(req.Email)
	req.Name = strings.TrimSpace(req.Name)

	return &req, nil
}

// validationMessage turns a validation error into a message
// naming the first offending field
func validationMessage(err error) string {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		return "invalid " + errs[0].Field()
	}
	return "invalid request"
}

// sanitizeName strips any markup from the name.
// The strict policy escapes the text, so the output is unescaped back
// to plain text and sanitized again until nothing changes, since
// escaped markup in the input would otherwise come out live.
func (s *Service) sanitizeName(name string) string {
	for range maxSanitizeRounds {
		clean := html.UnescapeString(s.policy.Sanitize(name))
		if clean == name {
			return strings.TrimSpace(clean)
		}
		name = clean
	}

	// Still changing, keep it escaped
	return strings.TrimSpace(s.policy.Sanitize(name))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// emailHash identifies a subscriber without putting the address in keys
func emailHash(email string) string {
	sum := sha256.Sum256([]byte(email))
	return hex.EncodeToString(sum[:])
}

func subscriberKey(email string) string {
	return subscribersPrefix + emailHash(email) + ".json"
}
