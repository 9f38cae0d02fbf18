// Package cloudsync replicates the ledger to a remote blob store on a
// best-effort basis. Local state is always authoritative: a failed push
// never rolls anything back, and a pull is a destructive whole-document
// overwrite performed only after explicit confirmation.
package cloudsync

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmynk/glasspos/internal/models"
)

var (
	ErrNotConfigured        = errors.New("cloudsync: remote sync not configured")
	ErrRemoteRejected       = errors.New("cloudsync: remote rejected the request")
	ErrConfirmationRequired = errors.New("cloudsync: pull overwrites local data and must be confirmed")
	ErrUnsupported          = errors.New("cloudsync: operation not supported by provider")
)

// Remote is a blob store holding one whole ledger snapshot.
type Remote interface {
	Push(ctx context.Context, snap *models.Snapshot) error
	Pull(ctx context.Context) (*models.Snapshot, error)
}

// InventorySource is a remote offering an inventory-only projection for
// selective import.
type InventorySource interface {
	PullInventory(ctx context.Context) ([]models.Product, error)
}

// rejected builds an ErrRemoteRejected with the HTTP status and message.
func rejected(status int, message string) error {
	if message == "" {
		return fmt.Errorf("%w: status %d", ErrRemoteRejected, status)
	}
	return fmt.Errorf("%w: %s (status %d)", ErrRemoteRejected, message, status)
}
