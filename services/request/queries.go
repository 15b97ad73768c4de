package request

import (
	"context"
	"sort"
	"strings"

	"kommunity/models"
)

// Get returns a request visible to actor: admins see everything, servicemen
// their jobs, requesters their own filings.
func (s *DefaultRequestService) Get(ctx context.Context, actor models.Actor, id string) (*models.RepairRequest, error) {
	req, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() || actor.Username == req.RequesterID ||
		(actor.Role == models.RoleServiceman && actor.Username == req.AssignedTo) {
		return req, nil
	}
	return nil, models.NewError(models.ErrForbidden, "request not visible to "+actor.Username)
}

// List narrows the filter to what actor may see.
func (s *DefaultRequestService) List(ctx context.Context, actor models.Actor, filter models.RequestFilter) ([]models.RepairRequest, error) {
	switch actor.Role {
	case models.RoleAdmin:
	case models.RoleServiceman:
		filter.AssignedTo = actor.Username
	default:
		filter.RequesterID = actor.Username
	}
	return s.Repo.List(ctx, filter)
}

// ServicemanJobs lists a serviceman's open jobs, most urgent first and
// oldest first within the same urgency.
func (s *DefaultRequestService) ServicemanJobs(ctx context.Context, actor models.Actor, serviceman string) ([]models.RepairRequest, error) {
	serviceman = strings.TrimSpace(serviceman)
	if !actor.IsAdmin() && actor.Username != serviceman {
		return nil, models.NewError(models.ErrForbidden, "servicemen can only view their own jobs")
	}
	if _, err := s.lookupServiceman(ctx, serviceman); err != nil {
		return nil, err
	}

	all, err := s.Repo.List(ctx, models.RequestFilter{AssignedTo: serviceman})
	if err != nil {
		return nil, err
	}
	jobs := make([]models.RepairRequest, 0, len(all))
	for _, r := range all {
		if r.Status == models.StatusAssigned || r.Status == models.StatusInProgress {
			jobs = append(jobs, r)
		}
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		if jobs[i].Urgency.Rank() != jobs[j].Urgency.Rank() {
			return jobs[i].Urgency.Rank() > jobs[j].Urgency.Rank()
		}
		return jobs[i].CreatedAt.Before(jobs[j].CreatedAt)
	})
	return jobs, nil
}
