package cli

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/kodbank/kodbank/internal/client/api"
	"github.com/kodbank/kodbank/internal/common"
)

// Balance fetches and prints the current balance of the logged-in user.
func (a *App) Balance(ctx context.Context) error {
	balance, err := a.api.Balance(ctx)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
			log.Printf("Session expired or invalid, please log in again")
			a.userName = ""
		case errors.Is(err, api.ErrUnavailable):
			log.Printf("Server unavailable")
		default:
			log.Printf("Balance request failed: %s", err.Error())
		}
		return nil
	}

	fmt.Printf("Balance: %d\n", balance)
	return nil
}
