package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/bind"
	"github.com/shashiranjanraj/kirana/pkg/middleware"
	"github.com/shashiranjanraj/kirana/pkg/response"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuthController serves registration, login, password recovery, profile
// updates and order history.
type AuthController struct {
	auth   *services.AuthService
	orders *services.OrderService
}

func NewAuthController(auth *services.AuthService, orders *services.OrderService) *AuthController {
	return &AuthController{auth: auth, orders: orders}
}

// buyerFromCtx resolves the authenticated user's ObjectID. The guard has
// already validated the token, so a malformed ID means a token signed for
// a different backend.
func buyerFromCtx(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, ok := middleware.UserIDFromCtx(r.Context())
	if !ok {
		response.Unauthorized(w, "Authorization token is required")
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		response.Unauthorized(w, "Invalid or expired token")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// Register handles POST /register.
func (c *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, existed, err := c.auth.Register(r.Context(), in)
	if err != nil {
		fail(w, r, err, "User not found")
		return
	}
	if existed {
		response.OK(w, "Already Registered Please Login", nil)
		return
	}

	response.Created(w, "User registered successfully", response.M{"user": user.Sanitized()})
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login handles POST /login. An unknown email is a 404; a wrong password
// answers HTTP 200 with success=false, matching the storefront client's
// expectations.
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, token, err := c.auth.Login(r.Context(), in.Email, in.Password)
	switch {
	case errors.Is(err, services.ErrUserNotFound):
		response.NotFound(w, "User not found")
		return
	case errors.Is(err, services.ErrWrongPassword):
		response.Fail(w, http.StatusOK, "Invalid Password")
		return
	case err != nil:
		fail(w, r, err, "User not found")
		return
	}

	response.OK(w, "Login successful", response.M{
		"user":  user.Sanitized(),
		"token": token,
	})
}

type forgotPasswordInput struct {
	Email       string `json:"email" validate:"required,email"`
	Answer      string `json:"answer" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

// ForgotPassword handles POST /forgot-password. A wrong email and a wrong
// security answer are deliberately indistinguishable.
func (c *AuthController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var in forgotPasswordInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	err = c.auth.ForgotPassword(r.Context(), in.Email, in.Answer, in.NewPassword)
	switch {
	case errors.Is(err, services.ErrWrongRecovery):
		response.NotFound(w, "Wrong Email or Security Answer")
		return
	case err != nil:
		fail(w, r, err, "User not found")
		return
	}

	response.OK(w, "Password changed successfully", nil)
}

// Check answers the protected probe routes /user-auth and /admin-auth.
func (c *AuthController) Check(w http.ResponseWriter, _ *http.Request) {
	response.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// UpdateProfile handles PUT /profile. A too-short password rejects the
// whole update explicitly; absent fields keep their stored values.
func (c *AuthController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	buyer, ok := buyerFromCtx(w, r)
	if !ok {
		return
	}

	var in services.ProfileInput
	errs, err := bind.JSON(r, &in)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	user, err := c.auth.UpdateProfile(r.Context(), buyer, in)
	switch {
	case errors.Is(err, services.ErrPasswordTooShort):
		response.Error(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	case errors.Is(err, services.ErrUserNotFound):
		response.NotFound(w, "User not found")
		return
	case err != nil:
		fail(w, r, err, "User not found")
		return
	}

	response.OK(w, "Profile Updated Successfully", response.M{"updatedUser": user.Sanitized()})
}

// Orders handles GET /orders — the authenticated buyer's history.
func (c *AuthController) Orders(w http.ResponseWriter, r *http.Request) {
	buyer, ok := buyerFromCtx(w, r)
	if !ok {
		return
	}

	views, err := c.orders.HistoryFor(r.Context(), buyer)
	if err != nil {
		fail(w, r, err, "Orders not found")
		return
	}
	response.JSON(w, http.StatusOK, views)
}

// AllOrders handles GET /all-orders — every order, newest first.
func (c *AuthController) AllOrders(w http.ResponseWriter, r *http.Request) {
	views, err := c.orders.History(r.Context())
	if err != nil {
		fail(w, r, err, "Orders not found")
		return
	}
	response.JSON(w, http.StatusOK, views)
}

type orderStatusInput struct {
	Status string `json:"status" validate:"required,in=Not Processed,Processing,Shipped,Delivered,Cancelled"`
}

// UpdateOrderStatus handles PUT /order-status/{orderId} (admin).
func (c *AuthController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "orderId"))
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid orderId")
		return
	}

	var in orderStatusInput
	errs, bindErr := bind.JSON(r, &in)
	if bindErr != nil {
		response.Error(w, http.StatusBadRequest, bindErr.Error())
		return
	}
	if len(errs) > 0 {
		response.ValidationError(w, errs)
		return
	}

	if err := c.orders.UpdateStatus(r.Context(), orderID, in.Status); err != nil {
		fail(w, r, err, "Order not found")
		return
	}
	response.OK(w, "Order status updated", response.M{"status": in.Status})
}
