package httpapi

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"lottery-odds/internal/application/view"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleExportCSV(c *gin.Context) {
	s.export(c, "csv", "text/csv; charset=utf-8", view.ExportCSV)
}

func (s *Server) handleExportXLSX(c *gin.Context) {
	s.export(c, "xlsx", xlsxContentType, view.ExportXLSX)
}

func (s *Server) export(c *gin.Context, ext, contentType string, write func(io.Writer, view.View) error) {
	st, err := s.resolveState(c)
	if err != nil {
		s.writeBindError(c, err)
		return
	}
	cat, ok := s.currentCatalog(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := write(&buf, s.views.Materialize(cat.Result, st)); err != nil {
		s.log.WithError(err).WithField("format", ext).Error("export failed")
		writeError(c, http.StatusInternalServerError, errCodeInternal, "export failed")
		return
	}

	name := fmt.Sprintf("lottery-projects-%s.%s", time.Now().UTC().Format("20060102"), ext)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}
