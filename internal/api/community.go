package api

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/glacialguard/alert-service/internal/models"
	"github.com/glacialguard/alert-service/internal/reports"
	"github.com/glacialguard/alert-service/internal/util"
)

const (
	maxUploadFiles = 5
	maxUploadBytes = 5 << 20
)

type statusUpdateRequest struct {
	Status     string `json:"status"`
	AdminNotes string `json:"adminNotes"`
}

func (s *Server) submitCommunityReport(c *gin.Context) {
	images, err := s.saveUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	report := models.CommunityReport{
		ID:          uuid.NewString(),
		Type:        formValue(c, "type", "observation"),
		Category:    formValue(c, "category", "other"),
		Village:     formValue(c, "village", "Unknown"),
		Location:    formValue(c, "location", "Unknown"),
		Description: c.PostForm("description"),
		Images:      images,
		Villager:    formValue(c, "villager", "Anonymous"),
		Timestamp:   s.clock().UTC(),
		Status:      models.ReportStatusPending,
		Priority:    models.PriorityMedium,
	}

	saved, err := s.reports.SubmitReport(c.Request.Context(), report)
	if err != nil {
		s.storageError(c, "Failed to submit report", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Report submitted successfully",
		"data":    saved,
	})
}

func (s *Server) listCommunityReports(c *gin.Context) {
	filter := reports.ReportFilter{
		Status:   queryFilter(c, "status"),
		Priority: queryFilter(c, "priority"),
		Search:   c.Query("search"),
	}

	listed, err := s.reports.ListReports(c.Request.Context(), filter)
	if err != nil {
		s.storageError(c, "Failed to fetch reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listed,
		"total":   len(listed),
	})
}

func (s *Server) updateCommunityReportStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status required"})
		return
	}

	// A malformed id cannot name a stored report.
	if _, err := util.ParseUUIDv4(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Report not found"})
		return
	}

	updated, err := s.reports.UpdateReportStatus(c.Request.Context(), c.Param("id"), req.Status, req.AdminNotes)
	if err == reports.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Report not found"})
		return
	}
	if err != nil {
		s.storageError(c, "Failed to update report status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Report status updated successfully",
		"data":    updated,
	})
}

func (s *Server) submitMissingPersonReport(c *gin.Context) {
	images, err := s.saveUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	age, _ := strconv.Atoi(c.PostForm("age"))

	location := [2]float64{}
	if raw := c.PostForm("location"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &location); err != nil {
			location = [2]float64{}
		}
	}

	report := models.MissingPersonReport{
		ID:           uuid.NewString(),
		PersonName:   formValue(c, "personName", "Unknown"),
		Age:          age,
		LastSeen:     formValue(c, "lastSeen", "Unknown"),
		Description:  c.PostForm("description"),
		ContactInfo:  c.PostForm("contactInfo"),
		Urgency:      formValue(c, "urgency", models.PriorityMedium),
		Images:       images,
		Reporter:     formValue(c, "reporter", "Anonymous"),
		Village:      formValue(c, "village", "Unknown"),
		Timestamp:    s.clock().UTC(),
		Status:       models.MissingStatusSearching,
		Location:     location,
		SearchStatus: models.SearchStatusActive,
	}

	saved, err := s.reports.SubmitMissingPerson(c.Request.Context(), report)
	if err != nil {
		s.storageError(c, "Failed to submit missing person report", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Missing person report submitted successfully",
		"data":    saved,
	})
}

func (s *Server) listMissingPersonReports(c *gin.Context) {
	filter := reports.MissingFilter{
		Status: queryFilter(c, "status"),
		Search: c.Query("search"),
	}

	listed, err := s.reports.ListMissingPersons(c.Request.Context(), filter)
	if err != nil {
		s.storageError(c, "Failed to fetch missing person reports", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    listed,
		"total":   len(listed),
	})
}

func (s *Server) updateMissingPersonStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status required"})
		return
	}

	if _, err := util.ParseUUIDv4(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Missing person report not found"})
		return
	}

	updated, err := s.reports.UpdateMissingPersonStatus(c.Request.Context(), c.Param("id"), req.Status, req.AdminNotes)
	if err == reports.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Missing person report not found"})
		return
	}
	if err != nil {
		s.storageError(c, "Failed to update missing person status", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Missing person status updated successfully",
		"data":    updated,
	})
}

func (s *Server) serveUpload(c *gin.Context) {
	// Base strips any path traversal out of the route parameter.
	filename := filepath.Base(c.Param("filename"))
	path := filepath.Join(s.cfg.UploadDir, filename)

	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Image not found"})
		return
	}
	c.File(path)
}

// saveUploads persists the "images" multipart files, enforcing the file
// count, size and image-only limits. Requests without a multipart body
// produce no images and no error.
func (s *Server) saveUploads(c *gin.Context) ([]models.ReportImage, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return []models.ReportImage{}, nil
	}

	files := form.File["images"]
	if len(files) > maxUploadFiles {
		return nil, fmt.Errorf("at most %d images per report", maxUploadFiles)
	}

	if err := os.MkdirAll(s.cfg.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("prepare upload dir: %w", err)
	}

	images := make([]models.ReportImage, 0, len(files))
	for _, file := range files {
		if file.Size > maxUploadBytes {
			return nil, fmt.Errorf("image %s exceeds the 5MB limit", file.Filename)
		}
		if !isImage(file) {
			return nil, fmt.Errorf("only image files are allowed")
		}

		id := uuid.NewString()
		stored := fmt.Sprintf("images-%s%s", id, filepath.Ext(file.Filename))
		if err := c.SaveUploadedFile(file, filepath.Join(s.cfg.UploadDir, stored)); err != nil {
			return nil, fmt.Errorf("store image %s: %w", file.Filename, err)
		}

		images = append(images, models.ReportImage{
			ID:           id,
			Filename:     stored,
			OriginalName: file.Filename,
			URL:          "/uploads/" + stored,
			Caption:      file.Filename,
		})
	}
	return images, nil
}

func isImage(file *multipart.FileHeader) bool {
	return strings.HasPrefix(file.Header.Get("Content-Type"), "image/")
}

func (s *Server) storageError(c *gin.Context, label string, err error) {
	s.logger.Error().Err(err).Str("label", label).Msg("report store failure")
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"message": label,
		"error":   err.Error(),
	})
}

func formValue(c *gin.Context, key, fallback string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return fallback
}

// queryFilter treats both empty and the frontend's "all" sentinel as no
// filter.
func queryFilter(c *gin.Context, key string) string {
	v := c.Query(key)
	if v == "all" {
		return ""
	}
	return v
}
