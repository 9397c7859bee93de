package httpapi

import (
	"net/http"

	"lottery-odds/internal/application/catalog"
	"lottery-odds/internal/application/view"

	"github.com/gin-gonic/gin"
)

type viewQuery struct {
	view.FilterInput
	Sort        string `form:"sort"`
	Dir         string `form:"dir"`
	SummarySort string `form:"summary_sort"`
	SummaryDir  string `form:"summary_dir"`
}

// stateFromQuery 由查詢參數建立無狀態的檢視；未指定彙總排序時使用預設。
func stateFromQuery(c *gin.Context) (view.State, error) {
	var q viewQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return view.State{}, err
	}
	st := view.DefaultState()
	st.Filters = view.ParseFilters(q.FilterInput)

	detail, err := view.ParseSortState(view.TableDetail, q.Sort, q.Dir)
	if err != nil {
		return view.State{}, err
	}
	st.Detail = detail

	if q.SummarySort != "" {
		summary, err := view.ParseSortState(view.TableSummary, q.SummarySort, q.SummaryDir)
		if err != nil {
			return view.State{}, err
		}
		st.Summary = summary
	}
	return st, nil
}

func (s *Server) currentCatalog(c *gin.Context) (catalog.Catalog, bool) {
	if s.catalog == nil {
		writeError(c, http.StatusServiceUnavailable, errCodeUpstream, "snapshot source not configured")
		return catalog.Catalog{}, false
	}
	cat, err := s.catalog.Current(c.Request.Context())
	if err != nil {
		s.writeAppError(c, err)
		return catalog.Catalog{}, false
	}
	return cat, true
}

// handleView 以查詢參數物化檢視，不讀寫 session。
func (s *Server) handleView(c *gin.Context) {
	st, err := stateFromQuery(c)
	if err != nil {
		s.writeBindError(c, err)
		return
	}
	cat, ok := s.currentCatalog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toViewResponse(cat, s.views.Materialize(cat.Result, st)))
}

// handleSessionView 物化目前 session 的檢視。
func (s *Server) handleSessionView(c *gin.Context) {
	s.applySession(c, func(*view.State) error { return nil })
}

func (s *Server) handleSetFilters(c *gin.Context) {
	var in view.FilterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid body")
		return
	}
	s.applySession(c, func(st *view.State) error {
		st.Filters = view.ParseFilters(in)
		return nil
	})
}

func (s *Server) handleRemoveFilter(c *gin.Context) {
	kind, err := view.ParseFilterKind(c.Param("kind"))
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	s.applySession(c, func(st *view.State) error {
		return st.RemoveFilter(kind)
	})
}

func (s *Server) handleToggleSort(c *gin.Context) {
	table, err := view.ParseTable(c.Param("table"))
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	column := c.Param("column")
	s.applySession(c, func(st *view.State) error {
		return st.Activate(table, column)
	})
}

func (s *Server) handleClearSort(c *gin.Context) {
	table, err := view.ParseTable(c.Param("table"))
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	s.applySession(c, func(st *view.State) error {
		return st.ClearSort(table)
	})
}

func (s *Server) handleReset(c *gin.Context) {
	s.applySession(c, func(st *view.State) error {
		st.Reset()
		return nil
	})
}

// applySession 在 session 鎖內依序完成狀態變更與物化，確保下一個動作看到完整結果。
func (s *Server) applySession(c *gin.Context, mutate func(*view.State) error) {
	cat, ok := s.currentCatalog(c)
	if !ok {
		return
	}
	id := s.sessionID(c)

	var out view.View
	_, err := s.sessions.Do(id, func(st *view.State) error {
		if err := mutate(st); err != nil {
			return err
		}
		out = s.views.Materialize(cat.Result, *st)
		return nil
	})
	if err != nil {
		s.writeAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, toViewResponse(cat, out))
}

// resolveState 有 session 時使用 session 狀態，否則以查詢參數建立。
func (s *Server) resolveState(c *gin.Context) (view.State, error) {
	if hasSession(c) {
		id, _ := c.Cookie(sessionCookieName)
		return s.sessions.Get(id), nil
	}
	return stateFromQuery(c)
}

func (s *Server) writeBindError(c *gin.Context, err error) {
	if isViewError(err) {
		s.writeAppError(c, err)
		return
	}
	writeError(c, http.StatusBadRequest, errCodeBadRequest, "invalid query")
}
