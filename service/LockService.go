// Copyright 2024-2025 ReviewHub
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/reviewhub/reviewhub-backend/reviewhub-service/repository"
)

// LockService hands out short DB-backed leases used to serialize the
// scheduler tick across horizontally scaled instances. The returned
// version is a fencing token that must be passed back on release.
type LockService interface {
	AcquireLock(ctx context.Context, lockName string, leaseSeconds int) (bool, int64, error)
	ReleaseLock(ctx context.Context, lockName string, version int64) error
}

func NewLockService(lockRepository repository.LockRepository, instanceId string) LockService {
	return &lockServiceImpl{
		lockRepository: lockRepository,
		instanceId:     instanceId,
	}
}

type lockServiceImpl struct {
	lockRepository repository.LockRepository
	instanceId     string
}

func (s *lockServiceImpl) AcquireLock(ctx context.Context, lockName string, leaseSeconds int) (bool, int64, error) {
	if lockName == "" {
		return false, 0, fmt.Errorf("lock name cannot be empty")
	}
	acquired, version, err := s.lockRepository.TryAcquireLock(ctx, lockName, s.instanceId, leaseSeconds)
	if err != nil {
		return false, 0, err
	}
	if acquired {
		log.Debugf("Instance %s acquired lock %s (version %d)", s.instanceId, lockName, version)
	}
	return acquired, version, nil
}

func (s *lockServiceImpl) ReleaseLock(ctx context.Context, lockName string, version int64) error {
	return s.lockRepository.ReleaseLock(ctx, lockName, s.instanceId, version)
}
