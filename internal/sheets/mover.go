package sheets

import (
	"context"
	"fmt"
	"strings"

	driveapi "google.golang.org/api/drive/v3"

	"github.com/iDrwish/trino-gsheets/internal/google"
	"github.com/iDrwish/trino-gsheets/internal/logger"
	"github.com/iDrwish/trino-gsheets/internal/retry"
)

// Mover relocates a Drive file into a target folder by rewriting its
// parent references.
type Mover struct {
	svc     *driveapi.Service
	limiter *google.RateLimiter
	policy  retry.Policy
	log     *logger.Logger
}

// NewMover creates a Mover around a Drive service.
func NewMover(svc *driveapi.Service, limiter *google.RateLimiter, policy retry.Policy, log *logger.Logger) *Mover {
	return &Mover{svc: svc, limiter: limiter, policy: policy, log: log}
}

// Move places the file into folderID, removing it from its current
// parents. Transient API failures are retried.
func (m *Mover) Move(ctx context.Context, fileID, folderID string) error {
	m.log.Info("Moving sheet to folder ID: %s", folderID)

	err := m.policy.Do(ctx, "move file", google.IsTransient, func(ctx context.Context) error {
		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		file, err := m.svc.Files.Get(fileID).Fields("parents").Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("get parents: %w", err)
		}
		previousParents := strings.Join(file.Parents, ",")

		if err := m.limiter.Wait(ctx); err != nil {
			return err
		}
		_, err = m.svc.Files.Update(fileID, nil).
			AddParents(folderID).
			RemoveParents(previousParents).
			Fields("id, parents").
			Context(ctx).
			Do()
		return err
	})
	if err != nil {
		return fmt.Errorf("move sheet to folder: %w", err)
	}

	m.log.Info("Successfully moved sheet to folder")
	return nil
}
