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

package context

import (
	"net/http"
)

const userIdHeader = "X-Reviewer-Id"
const userNameHeader = "X-Reviewer-Name"

// SystemUserId marks mutations performed by the scheduler itself, e.g.
// auto-retain of overdue undecided items.
const SystemUserId = "system"

type SecurityContext interface {
	GetUserId() string
	GetUserName() string
}

// Create builds the security context from the identity headers injected by
// the authenticating gateway in front of this service.
func Create(r *http.Request) SecurityContext {
	return &securityContextImpl{
		userId:   r.Header.Get(userIdHeader),
		userName: r.Header.Get(userNameHeader),
	}
}

func CreateSystemContext() SecurityContext {
	return &securityContextImpl{userId: SystemUserId, userName: SystemUserId}
}

type securityContextImpl struct {
	userId   string
	userName string
}

func (ctx securityContextImpl) GetUserId() string {
	return ctx.userId
}

func (ctx securityContextImpl) GetUserName() string {
	return ctx.userName
}
