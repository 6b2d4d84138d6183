package service

import (
	"context"
	"strconv"
	"time"

	"power_node/internal/logger"
	"power_node/internal/node"
	"power_node/internal/repository"
)

const accessLookupTimeout = 2 * time.Second

// AccessService checks a requester's access tags against a node requirement.
// Requesters are user ids rendered as decimal strings.
type AccessService struct {
	users repository.Authorization
	log   *logger.Logger
}

func NewAccessService(users repository.Authorization, log *logger.Logger) *AccessService {
	return &AccessService{users: users, log: log}
}

// IsAllowed grants access when the requirement is empty or the user holds
// any of its tags. Unknown users are denied.
func (s *AccessService) IsAllowed(requester string, req node.AccessRequirement) bool {
	if len(req) == 0 {
		return true
	}
	id, err := strconv.Atoi(requester)
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(context.Background(), accessLookupTimeout)
	defer cancel()

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		s.log.Errorw("access_lookup_failed", "user", id, "err", err)
		return false
	}
	if u == nil {
		return false
	}
	for _, have := range u.Access {
		for _, want := range req {
			if have == want {
				return true
			}
		}
	}
	return false
}
