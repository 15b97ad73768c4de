package request

import (
	"context"
	"time"

	requestRepo "kommunity/database/repository/request"
	userRepo "kommunity/database/repository/user"
	"kommunity/models"
	"kommunity/services/booking"

	"go.uber.org/zap"
)

// RequestService drives a repair request through its lifecycle and keeps the
// booked slot consistent with it.
type RequestService interface {
	// Intake
	Submit(ctx context.Context, actor models.Actor, in models.NewRepairRequest) (*models.RepairRequest, error)

	// Dispatch (admin)
	Assign(ctx context.Context, actor models.Actor, id, serviceman string, slot *models.SlotRef) (*models.RepairRequest, error)
	Schedule(ctx context.Context, actor models.Actor, id string, slot models.SlotRef) (*models.RepairRequest, error)
	Reassign(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error)
	ForceComplete(ctx context.Context, actor models.Actor, id, reason string) (*models.RepairRequest, error)

	// Progress
	Start(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error)
	Complete(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error)
	Cancel(ctx context.Context, actor models.Actor, id, reason string) (*models.RepairRequest, error)
	AddNote(ctx context.Context, actor models.Actor, id, note string) (*models.RepairRequest, error)

	// Queries
	Get(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error)
	List(ctx context.Context, actor models.Actor, filter models.RequestFilter) ([]models.RepairRequest, error)
	ServicemanJobs(ctx context.Context, actor models.Actor, serviceman string) ([]models.RepairRequest, error)
}

// Notifier receives lifecycle events after they commit. Delivery is best
// effort; a failure is logged and never rolls the transition back.
type Notifier interface {
	Notify(ctx context.Context, event models.LifecycleEvent) error
}

// DefaultRequestService is the production implementation.
type DefaultRequestService struct {
	Repo     requestRepo.RequestRepository
	Users    userRepo.UserRepository
	Booking  booking.BookingCoordinator
	Notifier Notifier
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewRequestService(
	repo requestRepo.RequestRepository,
	users userRepo.UserRepository,
	coordinator booking.BookingCoordinator,
	notifier Notifier,
	logger *zap.Logger,
) *DefaultRequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultRequestService{
		Repo:     repo,
		Users:    users,
		Booking:  coordinator,
		Notifier: notifier,
		Logger:   logger,
		Now:      time.Now,
	}
}
