// Copyright 2025 Alibaba Group Holding Ltd.
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

package model

// ErrorCode classifies a failed request for API clients.
type ErrorCode string

const (
	ErrorCodeInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrorCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrorCodeMissingQuery       ErrorCode = "MISSING_QUERY"
	ErrorCodeFileNotFound       ErrorCode = "FILE_NOT_FOUND"
	ErrorCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrorCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrorCodeAlreadySignedIn    ErrorCode = "ALREADY_SIGNED_IN"
	ErrorCodeRuntimeError       ErrorCode = "RUNTIME_ERROR"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Result is the body of a successful mutation.
type Result struct {
	Message string    `json:"message"`
	File    *FileInfo `json:"file,omitempty"`
	User    string    `json:"user,omitempty"`
}
