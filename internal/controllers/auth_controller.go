package controllers

import (
    "net/http"
    "time"

    "github.com/gin-gonic/gin"
    "github.com/golang-jwt/jwt/v5"
    "github.com/google/uuid"
    "gorm.io/gorm"

    "github.com/kojoasare/permit_backend_v1/internal/audit"
    "github.com/kojoasare/permit_backend_v1/internal/database"
    "github.com/kojoasare/permit_backend_v1/internal/middleware"
    "github.com/kojoasare/permit_backend_v1/internal/models"
    "github.com/kojoasare/permit_backend_v1/internal/utils"
)

type AuthController struct {
    DB        *gorm.DB
    Audit     *audit.Recorder
    JWTSecret string
    ExpiresIn time.Duration
}

type signupRequest struct {
    Username string `json:"username" binding:"required"`
    Password string `json:"password" binding:"required,min=6"`
    Role     string `json:"role"`
}

type loginRequest struct {
    Username string `json:"username" binding:"required"`
    Password string `json:"password" binding:"required"`
}

func (a *AuthController) Signup(c *gin.Context) {
    var req signupRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    role := req.Role
    if role == "" {
        role = "operator"
    }
    if !IsValidRole(role) {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
        return
    }

    pw, err := utils.HashPassword(req.Password)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
        return
    }

    user := models.User{
        UserID:   uuid.NewString(),
        Username: req.Username,
        Password: pw,
        Role:     role,
    }
    if err := a.DB.Create(&user).Error; err != nil {
        if database.IsUniqueViolation(err, "username") {
            c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
            return
        }
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }

    a.Audit.Log("signup", "New user registered: "+user.Username)
    c.JSON(http.StatusCreated, gin.H{
        "user_id":  user.UserID,
        "username": user.Username,
        "role":     user.Role,
    })
}

func (a *AuthController) Login(c *gin.Context) {
    var req loginRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
        return
    }

    var user models.User
    if err := a.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
        return
    }
    if !utils.CheckPassword(user.Password, req.Password) {
        c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
        return
    }

    token, err := a.issueToken(user)
    if err != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
        return
    }
    c.JSON(http.StatusOK, gin.H{
        "access_token": token,
        "token_type":   "Bearer",
        "expires_in":   int(a.ExpiresIn.Seconds()),
        "user_id":      user.UserID,
        "role":         user.Role,
    })
}

func (a *AuthController) Me(c *gin.Context) {
    user := currentUser(c)
    c.JSON(http.StatusOK, gin.H{
        "user_id":    user.UserID,
        "username":   user.Username,
        "role":       user.Role,
        "created_at": user.CreatedAt,
    })
}

// DeleteAccount removes the authenticated user. Permits they issued keep
// their created_by value as a dangling weak reference.
func (a *AuthController) DeleteAccount(c *gin.Context) {
    user := currentUser(c)

    res := a.DB.Delete(&models.User{}, user.ID)
    if res.Error != nil {
        c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
        return
    }

    a.Audit.Log("delete-account", "User deleted: "+user.Username)
    c.JSON(http.StatusOK, gin.H{"success": true, "rows_affected": res.RowsAffected})
}

func (a *AuthController) issueToken(user models.User) (string, error) {
    now := time.Now().UTC()
    claims := middleware.Claims{
        UserID:   user.UserID,
        Username: user.Username,
        Role:     user.Role,
        RegisteredClaims: jwt.RegisteredClaims{
            Issuer:    "permit_backend_v1",
            IssuedAt:  jwt.NewNumericDate(now),
            ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
            Subject:   user.UserID,
        },
    }
    token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
    return token.SignedString([]byte(a.JWTSecret))
}
