package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"inmo_dev_v1_202608/internal/api/dto"
	"inmo_dev_v1_202608/internal/model"
	"inmo_dev_v1_202608/internal/repository"
	"inmo_dev_v1_202608/pkg/utils"
)

// ==================== ImageService 图片服务 ====================

// ImageService 向导图片服务
// 图片在会话期间进入暂存区，提交成功后才推送房源平台
type ImageService struct {
	uow     *repository.WizardUnitOfWork
	storage StorageProvider
	// maxSizeBytes 单文件大小上限，0 表示不限制
	maxSizeBytes int64
}

// NewImageService 创建图片服务
func NewImageService(uow *repository.WizardUnitOfWork, storage StorageProvider, maxSizeBytes int64) *ImageService {
	return &ImageService{
		uow:          uow,
		storage:      storage,
		maxSizeBytes: maxSizeBytes,
	}
}

// FileUpload 待入库的上传文件
type FileUpload struct {
	FileName string
	Data     []byte
}

// ==================== 批量录入 ====================

// Ingest 批量录入图片
// 逐个文件校验：类型按内容嗅探 (jpeg/png/webp)、大小上限、会话总量上限 (20张)
// 单个文件被拒不影响其余文件，返回接受与拒绝两份清单
func (s *ImageService) Ingest(ctx context.Context, session *model.WizardSession, files []FileUpload) (*dto.ImageIngestResult, error) {
	count, err := s.uow.Images.CountBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	result := &dto.ImageIngestResult{
		Accepted: []dto.ImageVO{},
		Rejected: []dto.ImageRejection{},
	}

	var accepted []model.WizardImage
	capacity := model.MaxImagesPerSession - int(count)

	for _, file := range files {
		if capacity <= 0 {
			result.Rejected = append(result.Rejected, dto.ImageRejection{
				FileName: file.FileName,
				Reason:   fmt.Sprintf("已达到图片数量上限 (%d张)", model.MaxImagesPerSession),
			})
			continue
		}

		// 类型按文件内容嗅探，不信任扩展名
		mimeType := utils.DetectImageType(file.Data)
		if !utils.IsAllowedImageType(mimeType) {
			result.Rejected = append(result.Rejected, dto.ImageRejection{
				FileName: file.FileName,
				Reason:   "不支持的图片格式，仅支持 JPG/PNG/WebP",
			})
			continue
		}

		if s.maxSizeBytes > 0 && int64(len(file.Data)) > s.maxSizeBytes {
			result.Rejected = append(result.Rejected, dto.ImageRejection{
				FileName: file.FileName,
				Reason:   fmt.Sprintf("文件超过大小限制 (%dMB)", s.maxSizeBytes/(1024*1024)),
			})
			continue
		}

		url, err := s.storage.Upload(ctx, file.Data, file.FileName, mimeType)
		if err != nil {
			result.Rejected = append(result.Rejected, dto.ImageRejection{
				FileName: file.FileName,
				Reason:   "暂存上传失败，请重试",
			})
			log.Printf("[ImageService] 暂存上传失败 session=%d file=%s: %v", session.ID, file.FileName, err)
			continue
		}

		accepted = append(accepted, model.WizardImage{
			SessionID:   session.ID,
			Position:    int(count) + len(accepted),
			Source:      model.ImageSourceLocal,
			StoragePath: url,
			FileName:    file.FileName,
			ContentType: mimeType,
			SizeBytes:   int64(len(file.Data)),
		})
		capacity--
	}

	if len(accepted) > 0 {
		if err := s.uow.Images.CreateBatch(ctx, accepted); err != nil {
			return nil, err
		}
	}

	for _, img := range accepted {
		result.Accepted = append(result.Accepted, toImageVO(&img))
	}
	return result, nil
}

// AddRemote 登记远程图片（编辑模式保留平台已有图片）
func (s *ImageService) AddRemote(ctx context.Context, session *model.WizardSession, url string) (*dto.ImageVO, error) {
	count, err := s.uow.Images.CountBySessionID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	if count >= model.MaxImagesPerSession {
		return nil, ErrImageLimitReached
	}

	img := &model.WizardImage{
		SessionID: session.ID,
		Position:  int(count),
		Source:    model.ImageSourceRemote,
		RemoteURL: url,
	}
	if err := s.uow.Images.Create(ctx, img); err != nil {
		return nil, err
	}

	vo := toImageVO(img)
	return &vo, nil
}

// ==================== 删除与重排 ====================

// Remove 移除图片并收紧位置序号
// 本地暂存文件同步释放；位置重排与删除在同一事务中完成
func (s *ImageService) Remove(ctx context.Context, session *model.WizardSession, imageID int64) error {
	images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}

	var target *model.WizardImage
	for i := range images {
		if images[i].ID == imageID {
			target = &images[i]
			break
		}
	}
	if target == nil {
		return ErrImageNotFound
	}

	err = s.uow.Transaction(ctx, func(uow *repository.WizardUnitOfWork) error {
		if err := uow.Images.Delete(ctx, imageID); err != nil {
			return err
		}
		// 剩余图片位置收紧，保证 0..n-1 连续
		pos := 0
		for i := range images {
			if images[i].ID == imageID {
				continue
			}
			if images[i].Position != pos {
				images[i].Position = pos
				if err := uow.Images.Update(ctx, &images[i]); err != nil {
					return err
				}
			}
			pos++
		}
		return nil
	})
	if err != nil {
		return err
	}

	// 事务成功后释放暂存对象，失败仅记录（由清理任务兜底）
	if target.IsLocal() && target.StoragePath != "" {
		if err := s.storage.Delete(ctx, target.StoragePath); err != nil {
			log.Printf("[ImageService] 释放暂存对象失败 session=%d image=%d: %v", session.ID, imageID, err)
		}
	}
	return nil
}

// MakePrimary 设为主图
// 位置 0 即主图：目标移到 0，其余图片顺延，整体重排在事务中完成
func (s *ImageService) MakePrimary(ctx context.Context, session *model.WizardSession, imageID int64) error {
	images, err := s.uow.Images.GetBySessionID(ctx, session.ID)
	if err != nil {
		return err
	}

	found := false
	for i := range images {
		if images[i].ID == imageID {
			found = true
			break
		}
	}
	if !found {
		return ErrImageNotFound
	}

	return s.uow.Transaction(ctx, func(uow *repository.WizardUnitOfWork) error {
		pos := 1
		for i := range images {
			newPos := pos
			if images[i].ID == imageID {
				newPos = 0
			} else {
				pos++
			}
			if images[i].Position != newPos {
				images[i].Position = newPos
				if err := uow.Images.Update(ctx, &images[i]); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// ==================== 查询 ====================

// List 按位置顺序返回会话图片
func (s *ImageService) List(ctx context.Context, sessionID int64) ([]model.WizardImage, error) {
	return s.uow.Images.GetBySessionID(ctx, sessionID)
}

// ReleaseSession 释放会话的全部暂存对象（会话过期或放弃时）
func (s *ImageService) ReleaseSession(ctx context.Context, sessionID int64) error {
	images, err := s.uow.Images.GetBySessionID(ctx, sessionID)
	if err != nil {
		return err
	}
	for _, img := range images {
		if img.IsLocal() && img.StoragePath != "" {
			if err := s.storage.Delete(ctx, img.StoragePath); err != nil {
				log.Printf("[ImageService] 释放暂存对象失败 session=%d image=%d: %v", sessionID, img.ID, err)
			}
		}
	}
	return s.uow.Images.DeleteBySessionID(ctx, sessionID)
}

// ==================== 辅助 ====================

// toImageVO 转换为 DTO
func toImageVO(img *model.WizardImage) dto.ImageVO {
	return dto.ImageVO{
		ID:          img.ID,
		Position:    img.Position,
		IsPrimary:   img.Position == 0,
		Source:      img.Source,
		FileName:    img.FileName,
		ContentType: img.ContentType,
		SizeBytes:   img.SizeBytes,
		PreviewURL:  img.PreviewURL(),
	}
}

// ==================== 错误定义 ====================

var (
	ErrImageNotFound     = errors.New("图片不存在")
	ErrImageLimitReached = errors.New("已达到图片数量上限")
)
