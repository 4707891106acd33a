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

package controller

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alibaba/opensandbox/cmsd/pkg/log"
	"github.com/alibaba/opensandbox/cmsd/pkg/metrics"
	"github.com/alibaba/opensandbox/cmsd/pkg/session"
	"github.com/alibaba/opensandbox/cmsd/pkg/web/model"
)

const invalidCredentialsMessage = "Invalid Credentials"

// AccountController handles signup, signin and signout.
type AccountController struct {
	*basicController
	svc *Services
}

func NewAccountController(ctx *gin.Context, svc *Services) *AccountController {
	return &AccountController{basicController: newBasicController(ctx), svc: svc}
}

// Signup creates an account and signs the new user in.
func (c *AccountController) Signup() {
	if user, ok := session.User(c.ctx); ok {
		c.RespondError(
			http.StatusConflict,
			model.ErrorCodeAlreadySignedIn,
			fmt.Sprintf("Signed in as %s.", user),
		)
		return
	}

	var request model.SignupRequest
	if err := c.bind(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return
	}

	username := strings.TrimSpace(request.Username)
	msg, err := c.svc.Credentials.SignupError(username, request.Password1, request.Password2)
	if err != nil {
		c.respondStoreError(err)
		return
	}
	if msg != "" {
		metrics.RecordValidationRejection("signup")
		c.RespondError(http.StatusUnprocessableEntity, model.ErrorCodeInvalidInput, msg)
		return
	}

	if err := c.svc.Credentials.Create(username, request.Password1); err != nil {
		c.respondStoreError(err)
		return
	}
	metrics.RecordSignup()

	if err := c.svc.Sessions.SignIn(c.ctx, username); err != nil {
		c.respondStoreError(err)
		return
	}

	c.RespondResult(http.StatusCreated, model.Result{
		Message: "Your account has been successfully created.",
		User:    username,
	})
}

// Signin checks the credentials and starts a session.
func (c *AccountController) Signin() {
	var request model.SigninRequest
	if err := c.bind(&request); err != nil {
		c.RespondError(
			http.StatusBadRequest,
			model.ErrorCodeInvalidRequest,
			fmt.Sprintf("error parsing request, MAYBE invalid body format. %v", err),
		)
		return
	}

	username := strings.TrimSpace(request.Username)
	valid := c.svc.Credentials.Validate(username, request.Password)
	metrics.RecordAuthAttempt(valid)
	if !valid {
		c.RespondError(http.StatusUnprocessableEntity, model.ErrorCodeInvalidCredentials, invalidCredentialsMessage)
		return
	}

	if err := c.svc.Sessions.SignIn(c.ctx, username); err != nil {
		c.respondStoreError(err)
		return
	}

	c.RespondResult(http.StatusOK, model.Result{
		Message: fmt.Sprintf("Welcome, %s!", username),
		User:    username,
	})
}

// Signout ends the session.
func (c *AccountController) Signout() {
	session.SignOut(c.ctx)
	c.RespondResult(http.StatusOK, model.Result{Message: "You have been signed out."})
}

func (c *AccountController) respondStoreError(err error) {
	log.Error("account store failure: %v", err)
	c.RespondError(
		http.StatusInternalServerError,
		model.ErrorCodeRuntimeError,
		"error accessing the account store.",
	)
}
