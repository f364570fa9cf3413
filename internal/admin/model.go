package admin

import (
	"context"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-rental-bff/internal/account"
	"github.com/nekogravitycat/car-rental-bff/internal/car"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/apperror"
	"github.com/nekogravitycat/car-rental-bff/internal/pkg/inflight"
)

var (
	ErrDialogNotFound = apperror.New(http.StatusNotFound, "dialog not found or already closed")
	ErrBusy           = apperror.New(http.StatusConflict, "another change to this item is still pending")
	ErrNoChange       = apperror.New(http.StatusConflict, "item is already in the requested state")
)

// Action names the mutation a dialog will run when confirmed.
type Action string

const (
	ActionApproveCar        Action = "approve_car"
	ActionActivateAccount   Action = "activate_account"
	ActionDeactivateAccount Action = "deactivate_account"
)

// Variant tells the frontend how to style the confirm button.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Dialog is a pending confirmation prompt. It lives until it is confirmed,
// canceled or expires.
type Dialog struct {
	ID          string    `json:"id"`
	IsOpen      bool      `json:"is_open"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Action      Action    `json:"action"`
	Variant     Variant   `json:"variant"`
	EntityID    string    `json:"entity_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// busyKey scopes the in-flight flag to the entity kind, so a car and an
// account sharing an ID never block each other.
func (d Dialog) busyKey() string {
	if d.Action == ActionApproveCar {
		return inflight.CarKey(d.EntityID)
	}
	return inflight.AccountKey(d.EntityID)
}


// Commit performs the confirmed mutation and returns the success message.
type Commit func(ctx context.Context) (string, error)

// Outcome is returned to the caller of a successful confirmation.
type Outcome struct {
	Dialog  Dialog `json:"dialog"`
	Message string `json:"message"`
}

// CarRow is a car on the admin screen with its pending-change flag.
type CarRow struct {
	car.Car
	Busy bool
}

// AccountRow is an account on the admin screen with its pending-change flag.
type AccountRow struct {
	account.Account
	Busy bool
}
