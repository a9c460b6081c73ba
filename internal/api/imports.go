package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/fxledger/broker"
	"github.com/rustyeddy/fxledger/service"
)

type ImportHandler struct {
	Svc *service.Service
}

func (h *ImportHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/imports")
	group.GET("", h.list)
	group.POST("", h.upload)
}

func (h *ImportHandler) list(c *gin.Context) {
	batches, err := h.Svc.Imports(c.Request.Context(), intQuery(c, "limit", 20))
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, batches, nil)
}

// upload imports the multipart "files" fields as one batch.
func (h *ImportHandler) upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		Error(c, http.StatusBadRequest, "multipart form required", nil)
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		Error(c, http.StatusBadRequest, "no files", nil)
		return
	}

	tables := make([]broker.Table, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		t, err := broker.Read(fh.Filename, f)
		f.Close()
		if err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
		tables = append(tables, t)
	}

	rep, err := h.Svc.ImportTables(c.Request.Context(), tables)
	if err != nil {
		var re *broker.RowError
		meta := map[string]any{"report": rep}
		if errors.As(err, &re) {
			meta["file"] = re.File
			meta["line"] = re.Line
		}
		Error(c, statusFor(err), err.Error(), meta)
		return
	}
	Ok(c, rep, nil)
}
