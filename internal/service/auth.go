package service

import (
	"fmt"
	"time"

	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/identity"
	jwtpkg "github.com/Imactuallyjuan/Terrin-sub000/pkg/jwt"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	idClient  *identity.Client
	jwtSecret string
	jwtExpire int
}

func NewAuthService(db *gorm.DB, idClient *identity.Client, jwtSecret string, jwtExpire int) *AuthService {
	return &AuthService{
		db:        db,
		idClient:  idClient,
		jwtSecret: jwtSecret,
		jwtExpire: jwtExpire,
	}
}

// Login verifies a provider ID token, upserts the local user record, and
// issues our own JWT. On first login the requested role (homeowner or
// contractor) is recorded; after that role changes go through UpdateRole.
func (s *AuthService) Login(idToken, requestedRole string) (*model.User, string, time.Time, bool, error) {
	userInfo, err := s.idClient.VerifyIDToken(idToken)
	if err != nil {
		return nil, "", time.Time{}, false, fmt.Errorf("identity verify: %w", err)
	}

	var user model.User
	isNew := false

	result := s.db.Where("provider_uid = ?", userInfo.UID).First(&user)
	if result.Error != nil {
		if result.Error == gorm.ErrRecordNotFound {
			isNew = true
			role := requestedRole
			if role != "homeowner" && role != "contractor" {
				role = "homeowner"
			}
			user = model.User{
				ProviderUID: userInfo.UID,
				Name:        userInfo.Name,
				Avatar:      userInfo.Avatar,
				Email:       userInfo.Email,
				Role:        role,
				Status:      1,
			}
			if err := s.db.Create(&user).Error; err != nil {
				return nil, "", time.Time{}, false, fmt.Errorf("create user: %w", err)
			}
		} else {
			return nil, "", time.Time{}, false, result.Error
		}
	}

	now := time.Now()
	s.db.Model(&user).Updates(map[string]interface{}{
		"name":          userInfo.Name,
		"avatar":        userInfo.Avatar,
		"email":         userInfo.Email,
		"last_login_at": &now,
	})

	token, expireAt, err := jwtpkg.GenerateToken(s.jwtSecret, user.ID, user.Role, user.IsAdmin, s.jwtExpire)
	if err != nil {
		return nil, "", time.Time{}, false, fmt.Errorf("generate token: %w", err)
	}

	return &user, token, expireAt, isNew, nil
}

func (s *AuthService) GetUserByID(id uint) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateRole(userID uint, role string) (*model.User, error) {
	if role != "homeowner" && role != "contractor" {
		return nil, fmt.Errorf("40002:无效的角色 %s", role)
	}
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) UpdateProfile(userID uint, updates map[string]interface{}) (*model.User, error) {
	if err := s.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return s.GetUserByID(userID)
}

func (s *AuthService) RefreshToken(userID uint) (string, time.Time, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return "", time.Time{}, err
	}
	return jwtpkg.GenerateToken(s.jwtSecret, user.ID, user.Role, user.IsAdmin, s.jwtExpire)
}

func (s *AuthService) ToggleAdmin(userID uint, isAdmin bool) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.IsAdmin = isAdmin
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) ListUsers(keyword, role string, status *int, page, pageSize int, sortBy, order string) ([]model.User, int64, error) {
	query := s.db.Model(&model.User{})
	if keyword != "" {
		query = query.Where("name LIKE ? OR email LIKE ? OR company_name LIKE ?",
			"%"+keyword+"%", "%"+keyword+"%", "%"+keyword+"%")
	}
	if role != "" {
		query = query.Where("role = ?", role)
	}
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	query.Count(&total)

	query = query.Order(sortClause(userSortColumns, sortBy, "created_at", order))

	var users []model.User
	if err := query.Offset((page - 1) * pageSize).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *AuthService) UpdateUserStatus(userID uint, status int) (*model.User, error) {
	var user model.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, err
	}
	user.Status = status
	if err := s.db.Save(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// SearchContractors finds active contractor accounts for the homeowner's
// invite flow.
func (s *AuthService) SearchContractors(keyword string, limit int) ([]model.User, error) {
	query := s.db.Model(&model.User{}).Where("status = 1 AND role = ?", "contractor")
	if keyword != "" {
		query = query.Where("name LIKE ? OR company_name LIKE ?", "%"+keyword+"%", "%"+keyword+"%")
	}

	var users []model.User
	if err := query.Limit(limit).Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *AuthService) GetOperationLogs(userID *uint, action, resourceType string, startTime, endTime *time.Time, page, pageSize int) ([]model.OperationLog, int64, error) {
	query := s.db.Model(&model.OperationLog{}).Preload("User")
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	if action != "" {
		query = query.Where("action = ?", action)
	}
	if resourceType != "" {
		query = query.Where("resource_type = ?", resourceType)
	}
	if startTime != nil {
		query = query.Where("created_at >= ?", startTime)
	}
	if endTime != nil {
		query = query.Where("created_at <= ?", endTime)
	}

	var total int64
	query.Count(&total)

	var logs []model.OperationLog
	if err := query.Order("created_at desc").Offset((page - 1) * pageSize).Limit(pageSize).Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func (s *AuthService) CreateOperationLog(log *model.OperationLog) error {
	return s.db.Create(log).Error
}
