package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"

	"viya-model-manager/internal/adapters/primary/http/dto"
	"viya-model-manager/internal/adapters/primary/http/middleware"
	"viya-model-manager/internal/artifacts"
	"viya-model-manager/internal/core/domain"
	"viya-model-manager/internal/core/ports/output"
	"viya-model-manager/internal/core/services"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const formFieldFiles = "files"

// ImportModel takes a multipart form: the model files under "files" plus the
// fields of dto.ImportModelForm. An uploaded MLmodel file switches on MLflow
// handling.
func (h *Handler) ImportModel(c *gin.Context) {
	var form dto.ImportModelForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	files, err := readModelFiles(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrInvalidModelFiles.Error()})
		return
	}

	req := services.ImportRequest{
		Files:          domain.FilesFromMap(files),
		Prefix:         form.Prefix,
		Project:        form.Project,
		ProjectVersion: form.ProjectVersion,
		Overwrite:      form.Overwrite,
		RequestID:      c.GetString(middleware.ContextRequestID),
	}
	if form.ScoreCode != "" {
		var opts domain.ScoreCodeOptions
		if err := json.Unmarshal([]byte(form.ScoreCode), &opts); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid score_code: " + err.Error()})
			return
		}
		req.ScoreCode = &opts
	}
	if data, ok := files[artifacts.MLflowModelFile]; ok {
		details, err := artifacts.ParseMLflowModel(data)
		if err != nil {
			mapDomainError(c, err)
			return
		}
		req.MLflow = details
	}

	res, err := h.importSvc.ImportModel(c.Request.Context(), req)
	if err != nil {
		log.WithError(err).WithField("model", form.Prefix).Error("import model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToImportModelResponse(res))
}

func readModelFiles(c *gin.Context) (map[string][]byte, error) {
	mf, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("read multipart form: %w", err)
	}
	files := make(map[string][]byte)
	for _, fh := range mf.File[formFieldFiles] {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
		}
		files[filepath.Base(fh.Filename)] = data
	}
	return files, nil
}

func (h *Handler) ListImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ImportListFilter{
		ProjectName: c.Query("project"),
		ModelName:   c.Query("model"),
		Limit:       limit,
		Offset:      offset,
	}

	records, total, err := h.importSvc.History(c.Request.Context(), filter)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ImportRecordResponse, 0, len(records))
	for _, r := range records {
		items = append(items, dto.ToImportRecordResponse(r))
	}

	c.JSON(http.StatusOK, dto.ListImportsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}
