package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/kodbank/kodbank/internal/client/api"
	"github.com/kodbank/kodbank/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the account details and attempts to create a new
// account on the server. The password byte slice is wiped before returning.
func (a *App) Register(ctx context.Context) error {
	idText, err := getSimpleText(a.reader, "Enter identity number", os.Stdout)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(idText, 10, 64)
	if err != nil || id <= 0 {
		log.Printf("Identity number must be a positive integer")
		return nil
	}

	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	phoneText, err := getSimpleText(a.reader, "Enter phone (optional, leave empty to skip)", os.Stdout)
	if err != nil {
		return err
	}
	var phone *string
	if phoneText != "" {
		phone = &phoneText
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Register(ctx, id, userName, email, password, phone); err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			log.Printf("Registration failed: user already exists")
		case errors.Is(err, common.ErrorValidation):
			log.Printf("Registration failed: missing required fields")
		case errors.Is(err, api.ErrUnavailable):
			log.Printf("Server unavailable")
		default:
			log.Printf("Registration failed: %s", err.Error())
		}
		return nil
	}

	fmt.Println("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server. On
// success the session cookie lives inside the API client's jar; the CLI only
// remembers the username for its prompt.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if err := a.api.Login(ctx, userName, password); err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized):
			log.Printf("Login unsuccessful: invalid credentials")
		case errors.Is(err, api.ErrUnavailable):
			log.Printf("Server unavailable")
			a.setMode(ModeOffline)
		default:
			log.Printf("Login unsuccessful: %s", err.Error())
		}
		return nil
	}

	log.Printf("Login successful")
	a.userName = userName
	a.setMode(ModeOnline)
	return nil
}

// Logout ends the server-side session and forgets the local username.
func (a *App) Logout(ctx context.Context) error {
	if err := a.api.Logout(ctx); err != nil {
		log.Printf("Logout failed: %s", err.Error())
		return nil
	}
	a.userName = ""
	fmt.Println("Logged out")
	return nil
}
