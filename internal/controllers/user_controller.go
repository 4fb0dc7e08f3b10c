package controllers

import (
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	logrus "github.com/sirupsen/logrus"

	"olstar_backend/internal/middleware"
	"olstar_backend/internal/models"
	"olstar_backend/internal/stores"
)

// userResponse is a user as the dashboard sees it; credentials never leave
// the server.
type userResponse struct {
	UID             string           `json:"uid"`
	Email           string           `json:"email"`
	FirstName       string           `json:"firstName"`
	LastName        string           `json:"lastName"`
	Role            string           `json:"role"`
	EmailVerified   bool             `json:"emailVerified"`
	CurrentLocation *models.Location `json:"currentLocation,omitempty"`
}

func prepareUserResponse(uid string, u models.User) userResponse {
	return userResponse{
		UID:             uid,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Role:            u.Role,
		EmailVerified:   u.EmailVerified,
		CurrentLocation: u.CurrentLocation,
	}
}

type UserController struct {
	users *stores.UserStore
}

func NewUserController(users *stores.UserStore) *UserController {
	return &UserController{users: users}
}

// ListUsers returns staff and drivers ordered by uid.
func (u *UserController) ListUsers(c *gin.Context) {
	all, err := u.users.All(c.Request.Context())
	if err != nil {
		respondError(c, err, nil)
		return
	}

	out := make([]userResponse, 0, len(all))
	for uid, user := range all {
		out = append(out, prepareUserResponse(uid, user))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// SetUserRole changes the stored role. Sessions already issued keep the
// role they were created with until they expire.
func (u *UserController) SetUserRole(c *gin.Context) {
	var input struct {
		Role string `json:"role" binding:"required,max=32"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role input: " + err.Error()})
		return
	}
	role := strings.ToLower(strings.TrimSpace(input.Role))
	uid := c.Param("uid")

	if err := u.users.SetRole(c.Request.Context(), uid, role); err != nil {
		respondError(c, err, nil)
		return
	}

	actor, _ := middleware.PrincipalFrom(c.Request.Context())
	logrus.WithFields(logrus.Fields{"uid": uid, "role": role, "by": actor.UID}).Info("role changed")
	c.JSON(http.StatusOK, gin.H{"success": true, "uid": uid, "role": role})
}
