package workflows

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	pkgworkflows "github.com/mindflow/backend/pkg/workflows"
	taskdomain "github.com/mindflow/backend/services/task/domain"
	domainsvcs "github.com/mindflow/backend/services/task/domain/services"
)

const (
	compactTimeout     = 2 * time.Minute
	compactMaxAttempts = 5
)

// Compactor renumbers every column of one owner's board.
type Compactor interface {
	Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error)
}

// Activities holds the board activities run by the worker.
type Activities struct {
	Board Compactor
}

// CompactBoard is the activity behind CompactBoardWorkflow.
func (a *Activities) CompactBoard(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error) {
	activity.GetLogger(ctx).Info("compacting board", "owner_id", ownerID.String())
	return a.Board.Compact(ctx, ownerID)
}

// CompactBoardWorkflow renumbers an owner's board. One run per owner is
// active at a time; see CompactWorkflowID.
func CompactBoardWorkflow(ctx workflow.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error) {
	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: compactTimeout,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2,
			MaximumInterval:    30 * time.Second,
			MaximumAttempts:    compactMaxAttempts,
		},
	})

	var a *Activities
	var result domainsvcs.CompactionResult
	if err := workflow.ExecuteActivity(ctx, a.CompactBoard, ownerID).Get(ctx, &result); err != nil {
		return domainsvcs.CompactionResult{}, err
	}

	workflow.GetLogger(ctx).Info("board compacted",
		"owner_id", ownerID.String(), "partitions", result.Partitions, "moved", result.Moved)
	return result, nil
}

// CompactWorkflowID names the compaction run of one owner.
func CompactWorkflowID(ownerID uuid.UUID) string {
	return "board-compact-" + ownerID.String()
}

// Register adds the board workflows and activities to a Temporal worker.
func Register(r worker.Registry, acts *Activities) {
	r.RegisterWorkflow(CompactBoardWorkflow)
	r.RegisterActivity(acts)
}

// TemporalCompactor runs compaction as a Temporal workflow and waits for
// its result.
type TemporalCompactor struct {
	client *pkgworkflows.TemporalClient
}

// NewTemporalCompactor returns a Compactor backed by tc.
func NewTemporalCompactor(tc *pkgworkflows.TemporalClient) *TemporalCompactor {
	return &TemporalCompactor{client: tc}
}

// Compact starts (or joins) the owner's compaction run. Failures of the
// workflow engine surface as ErrStorageFailure.
func (c *TemporalCompactor) Compact(ctx context.Context, ownerID uuid.UUID) (domainsvcs.CompactionResult, error) {
	run, err := c.client.Start(ctx, CompactWorkflowID(ownerID), CompactBoardWorkflow, ownerID)
	if err != nil {
		return domainsvcs.CompactionResult{}, fmt.Errorf("%w: %w", taskdomain.ErrStorageFailure, err)
	}

	var result domainsvcs.CompactionResult
	if err := run.Get(ctx, &result); err != nil {
		return domainsvcs.CompactionResult{}, fmt.Errorf("%w: compaction run %s: %w", taskdomain.ErrStorageFailure, run.GetRunID(), err)
	}
	return result, nil
}
