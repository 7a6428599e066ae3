package controller

import (
	"errors"

	"github.com/ManvithReddyyy/vinnu-app/internal/service"
	"github.com/ManvithReddyyy/vinnu-app/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary Register a new account
// @Description Creates an unverified account and emails a one-time verification code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterInput true "Registration details"
// @Success 201 {object} util.Response{data=object} "Created"
// @Failure 400 {object} util.Response "Invalid input"
// @Failure 409 {object} util.Response "Username or email already in use"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrUsernameTaken), errors.Is(err, util.ErrEmailRegistered):
			util.Conflict(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidUsername):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{
		"id":    user.ID,
		"email": user.Email,
	})
}

// swagger:model VerifyOTPRequest
type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6"`
}

// VerifyOTP godoc
// @Summary Confirm the emailed verification code
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body VerifyOTPRequest true "Email and code"
// @Success 200 {object} util.Response "Verified"
// @Failure 400 {object} util.Response "Invalid or expired code"
// @Failure 404 {object} util.Response "Unknown email"
// @Router /api/auth/verify-otp [post]
func (c *AuthController) VerifyOTP(ctx *gin.Context) {
	var req VerifyOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.VerifyOTP(req.Email, req.OTP); err != nil {
		switch {
		case errors.Is(err, util.ErrUserNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidOTP):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"verified": true})
}

// swagger:model ResendOTPRequest
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ResendOTP godoc
// @Summary Resend the verification code
// @Description Rotates the code for a still-unverified account
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body ResendOTPRequest true "Account email"
// @Success 200 {object} util.Response "Code sent"
// @Failure 404 {object} util.Response "Unknown email"
// @Router /api/auth/resend-otp [post]
func (c *AuthController) ResendOTP(ctx *gin.Context) {
	var req ResendOTPRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ResendOTP(req.Email); err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"sent": true})
}

// Login godoc
// @Summary Log in
// @Description Accepts a username or email plus password and returns a JWT
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   body body service.LoginInput true "Credentials"
// @Success 200 {object} util.Response{data=object} "Token and user"
// @Failure 401 {object} util.Response "Bad credentials or unverified account"
// @Failure 403 {object} util.Response "Account banned"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, user, err := c.AuthService.Login(&req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrInvalidCredentials):
			util.Error(ctx, 401, "invalid username/email or password")
		case errors.Is(err, util.ErrNotVerified):
			util.Error(ctx, 401, "please verify your email before logging in")
		case errors.Is(err, util.ErrBanned):
			util.Error(ctx, 403, "account banned: "+user.BannedReason)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{
		"token": token,
		"user":  user,
	})
}

// Logout godoc
// @Summary Log out
// @Description Auth is a stateless bearer token; the client discards it. Clears the token cookie if one was set.
// @Tags auth
// @Produce  json
// @Success 200 {object} util.Response "Logged out"
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.SetCookie("token", "", -1, "/", "", false, true)
	util.Success(ctx, gin.H{"loggedOut": true})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags auth
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=model.User} "Success"
// @Failure 401 {object} util.Response "Unauthorized"
// @Router /api/auth/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.GetCurrentUser(claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.Unauthorized(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, user)
}
