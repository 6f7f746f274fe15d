package report

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

type Handler struct {
	log     *slog.Logger
	builder *Builder
}

func NewHandler(log *slog.Logger, builder *Builder) *Handler {
	return &Handler{log: log, builder: builder}
}

// ServeHTTP streams the current stock workbook:
// /report/stock.xlsx?group=<group id>[&day=YYYY-MM-DD]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	group := r.URL.Query().Get("group")
	if group == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("missing group parameter"))
		return
	}
	day := r.URL.Query().Get("day")

	f, err := h.builder.StockWorkbook(ctx, group, day)
	if err != nil {
		h.log.Error("stock workbook failed", "group", group, "err", err)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("failed to build report"))
		return
	}
	defer func() { _ = f.Close() }()

	name := fmt.Sprintf("stock_%s_%s.xlsx", group, time.Now().Format("20060102_150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := f.Write(w); err != nil {
		h.log.Error("stock workbook write failed", "group", group, "err", err)
	}
}
