package service

import (
	"github.com/Imactuallyjuan/Terrin-sub000/internal/config"
	"github.com/Imactuallyjuan/Terrin-sub000/internal/model"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/encrypt"
	"github.com/Imactuallyjuan/Terrin-sub000/pkg/llm"
	"gorm.io/gorm"
)

type SettingService struct {
	db        *gorm.DB
	aesKey    string
	defaultAI config.AIConfig
}

func NewSettingService(db *gorm.DB, aesKey string, defaultAI config.AIConfig) *SettingService {
	return &SettingService{db: db, aesKey: aesKey, defaultAI: defaultAI}
}

func (s *SettingService) GetByUserID(userID uint) (*model.UserSetting, error) {
	var setting model.UserSetting
	err := s.db.Where("user_id = ?", userID).First(&setting).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &setting, nil
}

// Upsert stores a user's LLM endpoint. The API key is encrypted at rest;
// an empty apiKey keeps the previously stored one.
func (s *SettingService) Upsert(userID uint, baseURL, apiKey, modelName string) (*model.UserSetting, error) {
	encKey := ""
	if apiKey != "" {
		var err error
		encKey, err = encrypt.AESEncrypt(s.aesKey, apiKey)
		if err != nil {
			return nil, err
		}
	}

	var setting model.UserSetting
	err := s.db.Where("user_id = ?", userID).First(&setting).Error

	if err == gorm.ErrRecordNotFound {
		setting = model.UserSetting{
			UserID:  userID,
			BaseURL: baseURL,
			APIKey:  encKey,
			Model:   modelName,
		}
		if err := s.db.Create(&setting).Error; err != nil {
			return nil, err
		}
		return &setting, nil
	}
	if err != nil {
		return nil, err
	}

	setting.BaseURL = baseURL
	setting.Model = modelName
	if encKey != "" {
		setting.APIKey = encKey
	}
	if err := s.db.Save(&setting).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

// ClientFor builds the LLM client for a user: their own endpoint when
// configured, otherwise the server default.
func (s *SettingService) ClientFor(userID uint) *llm.Client {
	setting, err := s.GetByUserID(userID)
	if err == nil && setting != nil && setting.BaseURL != "" && setting.APIKey != "" {
		if apiKey, derr := encrypt.AESDecrypt(s.aesKey, setting.APIKey); derr == nil {
			modelName := setting.Model
			if modelName == "" {
				modelName = s.defaultAI.Model
			}
			return llm.NewClient(setting.BaseURL, apiKey, modelName)
		}
	}
	return llm.NewClient(s.defaultAI.BaseURL, s.defaultAI.APIKey, s.defaultAI.Model)
}
