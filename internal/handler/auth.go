package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/smarttrip/tripplanner/internal/auth"
	"github.com/smarttrip/tripplanner/internal/domain"
)

type registerRequest struct {
	Email    *openapi_types.Email `json:"email"`
	Password *string              `json:"password"`
	FullName *string              `json:"full_name"`
}

type loginRequest struct {
	Email    *openapi_types.Email `json:"email"`
	Password *string              `json:"password"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// register handles POST /api/auth/register.
func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var body registerRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if problems := body.validate(); len(problems) > 0 {
		writeFail(w, http.StatusBadRequest, "Input validation failed.", problems)
		return
	}

	var fullName string
	if body.FullName != nil {
		fullName = *body.FullName
	}
	u, err := s.users.Register(r.Context(), string(*body.Email), fullName, *body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			writeFail(w, http.StatusConflict, "Email already registered.", nil)
			return
		}
		s.writeError(w, r, err)
		return
	}

	s.log.InfoContext(r.Context(), "user registered", "user_id", u.ID)
	writeOK(w, http.StatusCreated, "User created successfully.", nil)
}

// login handles POST /api/auth/login.
func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var body loginRequest
	if err := decodeJSON(r, &body); err != nil {
		writeDecodeError(w, err)
		return
	}
	if problems := body.validate(); len(problems) > 0 {
		writeFail(w, http.StatusBadRequest, "Input validation failed.", problems)
		return
	}

	token, err := s.users.Login(r.Context(), string(*body.Email), *body.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			s.log.WarnContext(r.Context(), "failed login attempt")
			writeFail(w, http.StatusUnauthorized, "Invalid email or password.", nil)
			return
		}
		s.writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, "Login successful.", tokenResponse{AccessToken: token})
}

func (b registerRequest) validate() fieldErrors {
	problems := fieldErrors{}
	if b.Email == nil || strings.TrimSpace(string(*b.Email)) == "" {
		problems.add("email", "Missing data for required field.")
	}
	if b.Password == nil {
		problems.add("password", "Missing data for required field.")
	} else if len([]rune(*b.Password)) < 6 {
		problems.add("password", "Shorter than minimum length 6.")
	} else if len(*b.Password) > auth.MaxPasswordBytes {
		problems.add("password", fmt.Sprintf("Longer than maximum length %d bytes.", auth.MaxPasswordBytes))
	}
	if b.FullName != nil && len([]rune(*b.FullName)) > 120 {
		problems.add("full_name", "Longer than maximum length 120.")
	}
	return problems
}

func (b loginRequest) validate() fieldErrors {
	problems := fieldErrors{}
	if b.Email == nil || strings.TrimSpace(string(*b.Email)) == "" {
		problems.add("email", "Missing data for required field.")
	}
	if b.Password == nil {
		problems.add("password", "Missing data for required field.")
	}
	return problems
}
