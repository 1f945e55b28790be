package datastore

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// SaveDocument inserts or updates a document record
func (ds *DataStore) SaveDocument(doc *Document) error {
	if err := ds.DB.Save(doc).Error; err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

// GetDocument fetches a document by id
func (ds *DataStore) GetDocument(id uint) (Document, error) {
	var doc Document
	err := ds.DB.First(&doc, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Document{}, ErrNotFound
	}
	if err != nil {
		return Document{}, fmt.Errorf("get document %d: %w", id, err)
	}
	return doc, nil
}

// ListDocuments returns a page of documents, newest first, plus the total
func (ds *DataStore) ListDocuments(limit, offset int) ([]Document, int64, error) {
	var total int64
	if err := ds.DB.Model(&Document{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count documents: %w", err)
	}

	if limit <= 0 || limit > 200 {
		limit = 50
	}

	var docs []Document
	err := ds.DB.Order("id desc").Limit(limit).Offset(offset).Find(&docs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list documents: %w", err)
	}
	return docs, total, nil
}

// DeleteDocument removes a document and its OCR jobs
func (ds *DataStore) DeleteDocument(id uint) error {
	return ds.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&OCRJob{}).Error; err != nil {
			return fmt.Errorf("delete ocr jobs for document %d: %w", id, err)
		}
		res := tx.Delete(&Document{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete document %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// SearchDocuments matches the query against filenames and extracted text
func (ds *DataStore) SearchDocuments(query string, limit int) ([]Document, error) {
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	pattern := "%" + query + "%"

	var docs []Document
	err := ds.DB.
		Where("filename LIKE ? OR extracted_text LIKE ?", pattern, pattern).
		Order("id desc").
		Limit(limit).
		Find(&docs).Error
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	return docs, nil
}

// CreateOCRJob enqueues a job in the queued state
func (ds *DataStore) CreateOCRJob(job *OCRJob) error {
	if job.Status == "" {
		job.Status = JobQueued
	}
	if err := ds.DB.Create(job).Error; err != nil {
		return fmt.Errorf("create ocr job: %w", err)
	}
	return nil
}

// UpdateOCRJob persists job progress
func (ds *DataStore) UpdateOCRJob(job *OCRJob) error {
	if err := ds.DB.Save(job).Error; err != nil {
		return fmt.Errorf("update ocr job %d: %w", job.ID, err)
	}
	return nil
}

// GetOCRJob fetches a job by id
func (ds *DataStore) GetOCRJob(id uint) (OCRJob, error) {
	var job OCRJob
	err := ds.DB.First(&job, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OCRJob{}, ErrNotFound
	}
	if err != nil {
		return OCRJob{}, fmt.Errorf("get ocr job %d: %w", id, err)
	}
	return job, nil
}

// PendingOCRJobs returns queued jobs oldest first, for worker pickup after a
// restart.
func (ds *DataStore) PendingOCRJobs(limit int) ([]OCRJob, error) {
	if limit <= 0 {
		limit = 10
	}
	var jobs []OCRJob
	err := ds.DB.Where("status = ?", JobQueued).Order("id").Limit(limit).Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("pending ocr jobs: %w", err)
	}
	return jobs, nil
}
