package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"inmo_dev_v1_202608/internal/model"
)

// ==================== 仓储接口 ====================

// WizardSessionRepository 向导会话仓储接口
type WizardSessionRepository interface {
	Create(ctx context.Context, session *model.WizardSession) error
	GetByID(ctx context.Context, id int64) (*model.WizardSession, error)
	Update(ctx context.Context, session *model.WizardSession) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	ListStale(ctx context.Context, before time.Time) ([]model.WizardSession, error)
}

// WizardImageRepository 会话图片仓储接口
type WizardImageRepository interface {
	Create(ctx context.Context, image *model.WizardImage) error
	CreateBatch(ctx context.Context, images []model.WizardImage) error
	GetBySessionID(ctx context.Context, sessionID int64) ([]model.WizardImage, error)
	CountBySessionID(ctx context.Context, sessionID int64) (int64, error)
	Update(ctx context.Context, image *model.WizardImage) error
	Delete(ctx context.Context, id int64) error
	DeleteBySessionID(ctx context.Context, sessionID int64) error
}

// ==================== WizardSession 仓储实现 ====================

type wizardSessionRepo struct {
	db *gorm.DB
}

// NewWizardSessionRepository 创建向导会话仓储
func NewWizardSessionRepository(db *gorm.DB) WizardSessionRepository {
	return &wizardSessionRepo{db: db}
}

func (r *wizardSessionRepo) Create(ctx context.Context, session *model.WizardSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *wizardSessionRepo) GetByID(ctx context.Context, id int64) (*model.WizardSession, error) {
	var session model.WizardSession
	if err := r.db.WithContext(ctx).First(&session, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &session, nil
}

func (r *wizardSessionRepo) Update(ctx context.Context, session *model.WizardSession) error {
	return r.db.WithContext(ctx).Save(session).Error
}

func (r *wizardSessionRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.WizardSession{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *wizardSessionRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.WizardSession{}, id).Error
}

// ListStale 列出指定时间前未再活动的未完成会话 (清理任务用)
func (r *wizardSessionRepo) ListStale(ctx context.Context, before time.Time) ([]model.WizardSession, error) {
	var sessions []model.WizardSession
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{model.SessionStatusActive, model.SessionStatusSubmitting}).
		Where("updated_at < ?", before).
		Find(&sessions).Error
	return sessions, err
}

// ==================== WizardImage 仓储实现 ====================

type wizardImageRepo struct {
	db *gorm.DB
}

// NewWizardImageRepository 创建会话图片仓储
func NewWizardImageRepository(db *gorm.DB) WizardImageRepository {
	return &wizardImageRepo{db: db}
}

func (r *wizardImageRepo) Create(ctx context.Context, image *model.WizardImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *wizardImageRepo) CreateBatch(ctx context.Context, images []model.WizardImage) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// GetBySessionID 按展示顺序返回会话图片
func (r *wizardImageRepo) GetBySessionID(ctx context.Context, sessionID int64) ([]model.WizardImage, error) {
	var images []model.WizardImage
	err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("position ASC").
		Find(&images).Error
	return images, err
}

func (r *wizardImageRepo) CountBySessionID(ctx context.Context, sessionID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WizardImage{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error
	return count, err
}

func (r *wizardImageRepo) Update(ctx context.Context, image *model.WizardImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

func (r *wizardImageRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.WizardImage{}, id).Error
}

func (r *wizardImageRepo) DeleteBySessionID(ctx context.Context, sessionID int64) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&model.WizardImage{}).Error
}

// ==================== 事务支持 ====================

// WizardUnitOfWork 向导工作单元（事务）
// 会话与图片的复合写操作 (重排序、批量录入) 必须走事务
type WizardUnitOfWork struct {
	db       *gorm.DB
	Sessions WizardSessionRepository
	Images   WizardImageRepository
}

// NewWizardUnitOfWork 创建工作单元
func NewWizardUnitOfWork(db *gorm.DB) *WizardUnitOfWork {
	return &WizardUnitOfWork{
		db:       db,
		Sessions: NewWizardSessionRepository(db),
		Images:   NewWizardImageRepository(db),
	}
}

// Transaction 执行事务
func (u *WizardUnitOfWork) Transaction(ctx context.Context, fn func(uow *WizardUnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txUow := &WizardUnitOfWork{
			db:       tx,
			Sessions: NewWizardSessionRepository(tx),
			Images:   NewWizardImageRepository(tx),
		}
		return fn(txUow)
	})
}
