package models

import (
	"context"
	"fmt"
	"time"

	"github.com/bizflowhq/bizflow_backend/config"
	"github.com/bizflowhq/bizflow_backend/utils"
	"gorm.io/gorm"
)

const userCacheTTL = time.Hour

func userCacheKey(id int) string {
	return "User:" + fmt.Sprint(id)
}

type User struct {
	ID           int        `gorm:"primary_key" json:"id"`
	Email        string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	FullName     string     `gorm:"size:255;not null" json:"full_name"`
	Phone        string     `gorm:"size:20" json:"phone"`
	Role         Role       `gorm:"size:20;not null;default:employee" json:"role"`
	Status       UserStatus `gorm:"size:20;not null;default:active" json:"status"`
	// employees are pinned to one store; owners resolve through stores.owner_id
	StoreId   int       `gorm:"index" json:"store_id"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUser struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"full_name" binding:"required"`
	Phone    string `json:"phone"`
	Role     Role   `json:"role"`
	StoreId  int    `json:"store_id"`
}

func (u *User) SetPassword(password string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashed)
	return nil
}

func (u *User) CheckPassword(password string) bool {
	return utils.ComparePassword(u.PasswordHash, password) == nil
}

func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// CanAccessStore is the authorization decision the order workflows consume:
// admins act anywhere, owners on stores they own, employees on their store.
func (u *User) CanAccessStore(ctx context.Context, storeId int) bool {
	switch u.Role {
	case RoleAdmin:
		return true
	case RoleOwner:
		db := config.GetDB()
		var count int64
		if err := db.WithContext(ctx).Model(&Store{}).
			Where("id = ? AND owner_id = ?", storeId, u.ID).Count(&count).Error; err != nil {
			return false
		}
		return count > 0
	case RoleEmployee:
		return u.StoreId == storeId
	}
	return false
}

func CreateUser(ctx context.Context, input *NewUser) (*User, error) {
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, "VN"); err != nil {
			return nil, utils.ValidationError("invalid phone number")
		}
	}

	db := config.GetDB()
	var count int64
	if err := db.WithContext(ctx).Model(&User{}).Where("email = ?", input.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, utils.ValidationError("email already registered")
	}

	role := input.Role
	if role == "" {
		role = RoleEmployee
	}

	user := User{
		Email:    input.Email,
		FullName: input.FullName,
		Phone:    input.Phone,
		Role:     role,
		Status:   UserStatusActive,
		StoreId:  input.StoreId,
	}
	if err := user.SetPassword(input.Password); err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUser(ctx context.Context, id int) (*User, error) {
	return utils.FetchSingleModel[User](ctx, id)
}

func GetUserByEmail(ctx context.Context, email string) (*User, error) {
	db := config.GetDB()
	var user User
	err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err == gorm.ErrRecordNotFound {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CurrentUser resolves the acting user from the request context. The
// record is cached in redis for the token lifespan; cmd/seed-admin
// drops the cache entry when it rewrites an account.
func CurrentUser(ctx context.Context) (*User, error) {
	userId, ok := utils.GetUserIdFromContext(ctx)
	if !ok || userId == 0 {
		return nil, utils.NewAppError(utils.CodeAuthenticationFailed, "not authenticated")
	}

	var cached User
	if exists, err := config.GetRedisObject(userCacheKey(userId), &cached); err == nil && exists {
		if !cached.IsActive() {
			return nil, utils.AuthorizationError("user account is not active")
		}
		return &cached, nil
	}

	user, err := GetUser(ctx, userId)
	if err != nil {
		return nil, utils.NewAppError(utils.CodeAuthenticationFailed, "user not found")
	}
	if !user.IsActive() {
		return nil, utils.AuthorizationError("user account is not active")
	}
	if err := config.SetRedisObject(userCacheKey(user.ID), user, userCacheTTL); err != nil {
		config.LogError(config.GetLogger(), "user.go", "CurrentUser", "CacheUser", user.ID, err)
	}
	return user, nil
}

// InvalidateUserCache drops the cached user record after a mutation.
func InvalidateUserCache(id int) error {
	return config.RemoveRedisKey(userCacheKey(id))
}
