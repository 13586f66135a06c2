package controllers

import (
    "github.com/gin-gonic/gin"

    "github.com/kojoasare/permit_backend_v1/internal/models"
)

var allowedRoles = map[string]struct{}{
    "admin":    {},
    "operator": {},
}

func IsValidRole(role string) bool {
    _, ok := allowedRoles[role]
    return ok
}

func currentUser(c *gin.Context) models.User {
    uVal, _ := c.Get("user")
    user, _ := uVal.(models.User)
    return user
}
