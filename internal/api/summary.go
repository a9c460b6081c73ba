package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/rustyeddy/fxledger/market"
	"github.com/rustyeddy/fxledger/report"
	"github.com/rustyeddy/fxledger/service"
)

type SummaryHandler struct {
	Svc *service.Service
}

func (h *SummaryHandler) Register(r *gin.Engine) {
	api := r.Group("/api/v1")
	api.GET("/summary", h.summary)
	api.GET("/summaries/daily", h.daily)
	api.GET("/labels", h.labels)
	api.GET("/labels/summary", h.labelSummary)
	api.GET("/days/:date/memo", h.getDayMemo)
	api.PUT("/days/:date/memo", h.putDayMemo)
}

func (h *SummaryHandler) summary(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	s, err := h.Svc.FilteredSummary(c.Request.Context(), f)
	if err != nil {
		Fail(c, err)
		return
	}
	s.Trades = nil
	Ok(c, s, map[string]any{"win_rate": s.WinRate()})
}

func (h *SummaryHandler) daily(c *gin.Context) {
	days, err := h.Svc.DailySummaries(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	for i := range days {
		days[i].Summary.Trades = nil
	}
	Ok(c, days, map[string]any{"total": len(days)})
}

func (h *SummaryHandler) labels(c *gin.Context) {
	labels, err := h.Svc.Labels(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, labels, nil)
}

func (h *SummaryHandler) labelSummary(c *gin.Context) {
	f, err := filterFromQuery(c)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	sums, err := h.Svc.LabelSummaries(c.Request.Context(), f)
	if err != nil {
		Fail(c, err)
		return
	}
	if sums == nil {
		sums = []report.LabelSummary{}
	}
	for i := range sums {
		sums[i].Summary.Trades = nil
	}
	Ok(c, sums, nil)
}

func businessDate(c *gin.Context) (market.BusinessDate, bool) {
	d, err := market.ParseBusinessDate(strings.TrimSpace(c.Param("date")))
	if err != nil {
		Error(c, http.StatusBadRequest, "date must be YYYYMMDD", nil)
		return d, false
	}
	return d, true
}

func (h *SummaryHandler) getDayMemo(c *gin.Context) {
	d, ok := businessDate(c)
	if !ok {
		return
	}
	m, err := h.Svc.DailyMemo(c.Request.Context(), d)
	if err != nil {
		Fail(c, err)
		return
	}
	Ok(c, m, nil)
}

func (h *SummaryHandler) putDayMemo(c *gin.Context) {
	d, ok := businessDate(c)
	if !ok {
		return
	}
	var req memoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if err := h.Svc.SetDailyMemo(c.Request.Context(), d, req.Memo); err != nil {
		Fail(c, err)
		return
	}
	Ok(c, gin.H{"date": d, "memo": req.Memo}, nil)
}
