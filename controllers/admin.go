package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"jewelry-commerce/cache"
	"jewelry-commerce/utils"
)

// AdminController handles the shared-password admin session
type AdminController struct {
	PasswordHash []byte
	Prefetcher   *cache.Prefetcher
}

// NewAdminController reads the bcrypt hash of the shared admin password
// from the environment.
func NewAdminController(prefetcher *cache.Prefetcher) *AdminController {
	hash := os.Getenv("ADMIN_PASSWORD_HASH")
	if hash == "" {
		panic("ADMIN_PASSWORD_HASH is not set in environment variables")
	}
	return &AdminController{PasswordHash: []byte(hash), Prefetcher: prefetcher}
}

// Login checks the shared password and, on success, sets an HTTP-only
// session cookie valid for 24 hours.
func (ac *AdminController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Password string `json:"password"`
	}
	err := json.NewDecoder(r.Body).Decode(&creds)
	if err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	err = bcrypt.CompareHashAndPassword(ac.PasswordHash, []byte(creds.Password))
	if err != nil {
		http.Error(w, "Invalid password", http.StatusUnauthorized)
		return
	}

	token, err := utils.GenerateSessionToken()
	if err != nil {
		http.Error(w, "Error generating session", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(utils.SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged in"})
}

// Logout clears the session cookie and empties the catalog cache so the
// next session starts from a clean read. The cache clear only happens for
// a request holding a valid session; anyone can drop their own cookie.
func (ac *AdminController) Logout(w http.ResponseWriter, r *http.Request) {
	if ac.Prefetcher != nil && ac.hasValidSession(r) {
		if err := ac.Prefetcher.Clear(r.Context()); err != nil {
			log.Printf("cache clear on logout failed: %v", err)
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
}

func (ac *AdminController) hasValidSession(r *http.Request) bool {
	cookie, err := r.Cookie(utils.SessionCookieName)
	if err != nil {
		return false
	}
	claims, err := utils.ParseSessionToken(cookie.Value)
	return err == nil && claims.Role == "admin"
}
